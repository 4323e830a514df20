package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fish_and_follow_backend/internal/contacts/importjobs"
	"fish_and_follow_backend/internal/contacts/repository"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu           sync.Mutex
	contacts     []repository.Contact
	searchParams []repository.SearchParams
	records      []repository.Record
	searchErr    error
	createErrFor map[string]error
}

func (f *fakeRepo) Search(_ context.Context, params repository.SearchParams) ([]repository.Record, error) {
	f.searchParams = append(f.searchParams, params)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.records, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErrFor[params.FirstName]; err != nil {
		return repository.Contact{}, err
	}
	now := time.Now()
	c := repository.Contact{
		ID:                   uuid.New(),
		FirstName:            params.FirstName,
		LastName:             params.LastName,
		PhoneNumber:          params.PhoneNumber,
		Email:                params.Email,
		Campus:               params.Campus,
		Major:                params.Major,
		Year:                 params.Year,
		IsInterested:         params.IsInterested,
		Gender:               params.Gender,
		FollowUpStatusNumber: params.FollowUpStatusNumber,
		Notes:                params.Notes,
		OrganizationID:       params.OrganizationID,
		CreatedAt:            &now,
		UpdatedAt:            &now,
	}
	f.contacts = append(f.contacts, c)
	return c, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id, organizationID uuid.UUID) (repository.Contact, error) {
	for _, c := range f.contacts {
		if c.ID == id && c.OrganizationID == organizationID {
			return c, nil
		}
	}
	return repository.Contact{}, repository.ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, organizationID uuid.UUID) ([]repository.Contact, error) {
	var out []repository.Contact
	for _, c := range f.contacts {
		if c.OrganizationID == organizationID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id, organizationID uuid.UUID, params repository.UpdateParams) (repository.Contact, error) {
	for i, c := range f.contacts {
		if c.ID != id || c.OrganizationID != organizationID {
			continue
		}
		if params.FirstName != nil {
			c.FirstName = *params.FirstName
		}
		if params.LastName != nil {
			c.LastName = *params.LastName
		}
		if params.Major != nil {
			c.Major = *params.Major
		}
		if params.Email != nil {
			c.Email = params.Email
			if *params.Email == "" {
				c.Email = nil
			}
		}
		if params.Year != nil {
			c.Year = *params.Year
		}
		if params.IsInterested != nil {
			c.IsInterested = *params.IsInterested
		}
		if params.FollowUpStatusNumber != nil {
			c.FollowUpStatusNumber = params.FollowUpStatusNumber
		}
		if params.Notes != nil {
			c.Notes = params.Notes
		}
		f.contacts[i] = c
		return c, nil
	}
	return repository.Contact{}, repository.ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id, organizationID uuid.UUID) error {
	kept := f.contacts[:0]
	for _, c := range f.contacts {
		if c.ID == id && c.OrganizationID == organizationID {
			continue
		}
		kept = append(kept, c)
	}
	f.contacts = kept
	return nil
}

func (f *fakeRepo) Stats(_ context.Context, organizationID uuid.UUID) (repository.Stats, error) {
	var stats repository.Stats
	for _, c := range f.contacts {
		if c.OrganizationID != organizationID {
			continue
		}
		stats.Total++
		if c.IsInterested {
			stats.Interested++
		} else {
			stats.NotInterested++
		}
		switch c.Gender {
		case "male":
			stats.MaleCount++
		case "female":
			stats.FemaleCount++
		}
	}
	return stats, nil
}

func (f *fakeRepo) ExistingIdentifiers(_ context.Context, organizationID uuid.UUID) (repository.Identifiers, error) {
	var ids repository.Identifiers
	for _, c := range f.contacts {
		if c.OrganizationID != organizationID {
			continue
		}
		ids.Phones = append(ids.Phones, c.PhoneNumber)
		if c.Email != nil {
			ids.Emails = append(ids.Emails, *c.Email)
		}
	}
	return ids, nil
}

type fakeStatuses struct {
	numbers []int
}

func (f fakeStatuses) Exists(_ context.Context, number int) (bool, error) {
	for _, n := range f.numbers {
		if n == number {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeStatuses) Initial(_ context.Context) (*int, error) {
	if len(f.numbers) == 0 {
		return nil, nil
	}
	first := f.numbers[0]
	return &first, nil
}

type fakeJobStore struct {
	jobs       map[uuid.UUID]importjobs.Job
	payloads   map[uuid.UUID][]transport.ImportContact
	payloadErr error
	failErr    error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobs:     make(map[uuid.UUID]importjobs.Job),
		payloads: make(map[uuid.UUID][]transport.ImportContact),
	}
}

func (f *fakeJobStore) Create(_ context.Context, organizationID uuid.UUID, rows []transport.ImportContact) (importjobs.Job, error) {
	job := importjobs.Job{ID: uuid.New(), OrganizationID: organizationID, Status: transport.ImportJobPending, Total: len(rows)}
	f.jobs[job.ID] = job
	f.payloads[job.ID] = rows
	return job, nil
}

func (f *fakeJobStore) Get(_ context.Context, id uuid.UUID) (importjobs.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return importjobs.Job{}, apperr.NotFound("Import job not found")
	}
	return job, nil
}

func (f *fakeJobStore) Payload(_ context.Context, id uuid.UUID) ([]transport.ImportContact, error) {
	if f.payloadErr != nil {
		return nil, f.payloadErr
	}
	return f.payloads[id], nil
}

func (f *fakeJobStore) MarkRunning(_ context.Context, id uuid.UUID) error {
	job := f.jobs[id]
	job.Status = transport.ImportJobRunning
	f.jobs[id] = job
	return nil
}

func (f *fakeJobStore) Complete(_ context.Context, id uuid.UUID, result transport.ImportResult) error {
	job := f.jobs[id]
	job.Status = transport.ImportJobCompleted
	job.Result = &result
	f.jobs[id] = job
	return nil
}

func (f *fakeJobStore) Fail(_ context.Context, id uuid.UUID, message string) error {
	if f.failErr != nil {
		return f.failErr
	}
	job := f.jobs[id]
	job.Status = transport.ImportJobFailed
	job.Error = message
	f.jobs[id] = job
	return nil
}

type fakeEnqueuer struct {
	enqueued []uuid.UUID
	err      error
}

func (f *fakeEnqueuer) EnqueueContactImport(_ context.Context, jobID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, jobID)
	return nil
}

type contactsCfg struct{}

func (contactsCfg) GetImportJobTTL() time.Duration { return time.Hour }
func (contactsCfg) GetContactExportMaxRows() int   { return 250 }

func newTestService(repo *fakeRepo, statuses ...int) *Service {
	if len(statuses) == 0 {
		statuses = []int{1, 2, 3}
	}
	return New(repo, fakeStatuses{numbers: statuses}, validator.New(), contactsCfg{}, logger.Discard())
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var errStorage = errors.New("connection refused")

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func asAppErr(err error, target **apperr.Error) bool {
	return errors.As(err, target)
}
