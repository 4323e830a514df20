package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"fish_and_follow_backend/internal/contacts/repository"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/logger"

	"github.com/google/uuid"
)

func importRowFor(first, phoneNumber, email string) transport.ImportContact {
	row := transport.ImportContact{
		FirstName:   first,
		LastName:    "Doe",
		PhoneNumber: phoneNumber,
		Campus:      "North",
		Major:       "History",
		Year:        "3",
		Gender:      "male",
	}
	if email != "" {
		row.Email = strPtr(email)
	}
	return row
}

func TestImportReportsPartialFailures(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	rows := []transport.ImportContact{
		importRowFor("A", "555-000-0001", "a@example.com"),
		importRowFor("B", "", "b@example.com"),
		importRowFor("C", "555-000-0003", "c@example.com"),
		importRowFor("D", "555-000-0004", "A@Example.com"),
		importRowFor("E", "555-000-0005", ""),
	}

	result, err := svc.Import(context.Background(), uuid.New(), rows)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Successful != 3 || result.Failed != 2 {
		t.Fatalf("expected 3 successful and 2 failed, got %+v", result)
	}
	if len(result.Errors) != 2 || result.Errors[0].Index != 2 || result.Errors[1].Index != 4 {
		t.Fatalf("expected failures at rows 2 and 4, got %+v", result.Errors)
	}
	if result.Errors[0].Error != "phoneNumber is required" {
		t.Fatalf("unexpected row 2 reason %q", result.Errors[0].Error)
	}
	if result.Errors[1].Error != msgDuplicateEmail {
		t.Fatalf("unexpected row 4 reason %q", result.Errors[1].Error)
	}
	if result.Errors[1].Contact.FirstName != "D" {
		t.Fatalf("expected the failing row to be echoed, got %+v", result.Errors[1].Contact)
	}
	if len(repo.contacts) != 3 {
		t.Fatalf("expected 3 inserted rows, got %d", len(repo.contacts))
	}
}

func TestImportDetectsDuplicatesAgainstExistingContacts(t *testing.T) {
	orgID := uuid.New()
	repo := &fakeRepo{contacts: []repository.Contact{{
		ID: uuid.New(), OrganizationID: orgID, FirstName: "Old", PhoneNumber: "(415) 555-2671",
	}}}

	result, err := newTestService(repo).Import(context.Background(), orgID, []transport.ImportContact{
		importRowFor("New", "+1 415 555 2671", ""),
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Failed != 1 || result.Errors[0].Error != msgDuplicatePhone {
		t.Fatalf("expected duplicate phone failure, got %+v", result)
	}
}

func TestImportDuplicateCheckIsTenantScoped(t *testing.T) {
	repo := &fakeRepo{contacts: []repository.Contact{{
		ID: uuid.New(), OrganizationID: uuid.New(), PhoneNumber: "555-000-0001",
	}}}

	result, err := newTestService(repo).Import(context.Background(), uuid.New(), []transport.ImportContact{
		importRowFor("A", "555-000-0001", ""),
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Successful != 1 {
		t.Fatalf("expected other tenant's phone not to count, got %+v", result)
	}
}

func TestImportValidatesEachRow(t *testing.T) {
	badYear := importRowFor("Y", "555-000-0011", "")
	badYear.Year = "1st_year"
	badGender := importRowFor("G", "555-000-0012", "")
	badGender.Gender = "robot"
	badEmail := importRowFor("M", "555-000-0013", "not-an-email")
	shortPhone := importRowFor("P", "555-0014", "")
	badStatus := importRowFor("S", "555-000-0015", "")
	badStatus.FollowUpStatusNumber = intPtr(42)

	result, err := newTestService(&fakeRepo{}).Import(context.Background(), uuid.New(),
		[]transport.ImportContact{badYear, badGender, badEmail, shortPhone, badStatus})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Successful != 0 || result.Failed != 5 {
		t.Fatalf("expected every row to fail, got %+v", result)
	}
	wantPrefixes := []string{"year must be one of", "gender must be one of", "email must be", "phoneNumber must contain", "followUpStatusNumber"}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(result.Errors[i].Error, prefix) {
			t.Fatalf("row %d: expected reason starting %q, got %q", i+1, prefix, result.Errors[i].Error)
		}
	}
}

func TestImportContinuesAfterInsertFailure(t *testing.T) {
	repo := &fakeRepo{createErrFor: map[string]error{"A": errors.New("deadlock")}}

	result, err := newTestService(repo).Import(context.Background(), uuid.New(), []transport.ImportContact{
		importRowFor("A", "555-000-0001", ""),
		importRowFor("B", "555-000-0002", ""),
	})
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if result.Successful != 1 || result.Failed != 1 || result.Errors[0].Error != msgInsertFailed {
		t.Fatalf("expected insert failure to be isolated, got %+v", result)
	}
}

func TestImportRejectsOversizedPayload(t *testing.T) {
	rows := make([]transport.ImportContact, MaxImportRows+1)
	_, err := newTestService(&fakeRepo{}).Import(context.Background(), uuid.New(), rows)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportJobLifecycle(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	store := newFakeJobStore()
	enqueuer := &fakeEnqueuer{}
	svc.SetImportJobs(store, enqueuer)
	orgID := uuid.New()

	started, err := svc.StartImportJob(context.Background(), orgID, []transport.ImportContact{
		importRowFor("A", "555-000-0001", ""),
		importRowFor("B", "", ""),
	})
	if err != nil {
		t.Fatalf("StartImportJob returned error: %v", err)
	}
	if started.Status != transport.ImportJobPending || len(enqueuer.enqueued) != 1 {
		t.Fatalf("expected pending enqueued job, got %+v", started)
	}

	jobID := uuid.MustParse(started.JobID)
	if err := svc.RunImportJob(context.Background(), jobID); err != nil {
		t.Fatalf("RunImportJob returned error: %v", err)
	}
	if err := svc.RunImportJob(context.Background(), jobID); err != nil {
		t.Fatalf("re-running a completed job returned error: %v", err)
	}
	if len(repo.contacts) != 1 {
		t.Fatalf("expected a completed job to run once, got %d inserts", len(repo.contacts))
	}

	status, err := svc.GetImportJob(context.Background(), orgID, jobID)
	if err != nil {
		t.Fatalf("GetImportJob returned error: %v", err)
	}
	if status.Status != transport.ImportJobCompleted || status.Result.Successful != 1 || status.Result.Failed != 1 {
		t.Fatalf("unexpected job status %+v", status)
	}

	if _, err := svc.GetImportJob(context.Background(), uuid.New(), jobID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected other tenants not to see the job, got %v", err)
	}
}

func TestImportJobEnqueueFailureMarksJobFailed(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	store := newFakeJobStore()
	svc.SetImportJobs(store, &fakeEnqueuer{err: errors.New("redis down")})

	if _, err := svc.StartImportJob(context.Background(), uuid.New(), nil); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	for _, job := range store.jobs {
		if job.Status != transport.ImportJobFailed {
			t.Fatalf("expected job to be failed, got %s", job.Status)
		}
	}
}

func TestRunImportJobLogsWhenFailureCannotBeRecorded(t *testing.T) {
	var logs bytes.Buffer
	svc := newTestService(&fakeRepo{})
	svc.log = logger.NewWithWriter("production", &logs)
	store := newFakeJobStore()
	svc.SetImportJobs(store, &fakeEnqueuer{})

	started, err := svc.StartImportJob(context.Background(), uuid.New(), []transport.ImportContact{importRowFor("A", "555-000-0001", "")})
	if err != nil {
		t.Fatalf("StartImportJob returned error: %v", err)
	}
	store.payloadErr = errors.New("payload expired")
	store.failErr = errors.New("redis down")

	if err := svc.RunImportJob(context.Background(), uuid.MustParse(started.JobID)); err == nil {
		t.Fatal("expected RunImportJob to fail")
	}
	if !strings.Contains(logs.String(), "mark import job failed") || !strings.Contains(logs.String(), "redis down") {
		t.Fatalf("expected the failed status write to be logged, got %s", logs.String())
	}
}

func TestImportJobsUnavailableWithoutStore(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	if _, err := svc.StartImportJob(context.Background(), uuid.New(), nil); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if _, err := svc.GetImportJob(context.Background(), uuid.New(), uuid.New()); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
