package service

import (
	"context"
	"testing"

	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"

	"github.com/google/uuid"
)

func validCreateRequest() transport.CreateContactRequest {
	return transport.CreateContactRequest{
		FirstName:   " Jane ",
		LastName:    "Smith",
		PhoneNumber: "555-123-4567",
		Email:       strPtr("jane@example.com"),
		Campus:      "North",
		Major:       "Biology",
		Year:        "2",
		Gender:      "female",
		Notes:       strPtr("<b>met at fair</b>"),
	}
}

func TestCreateAppliesDefaultsAndRoundTrips(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, 4, 7)
	orgID := uuid.New()

	created, err := svc.Create(context.Background(), orgID, validCreateRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.IsInterested {
		t.Fatal("expected isInterested to default to true")
	}
	if created.FollowUpStatusNumber == nil || *created.FollowUpStatusNumber != 4 {
		t.Fatalf("expected initial status 4, got %v", created.FollowUpStatusNumber)
	}
	if created.FirstName != "Jane" || created.Notes == nil || *created.Notes != "met at fair" {
		t.Fatalf("expected trimmed name and sanitized notes, got %+v", created)
	}
	if created.OrgID != orgID.String() {
		t.Fatalf("expected org %s, got %s", orgID, created.OrgID)
	}

	fetched, err := svc.GetByID(context.Background(), orgID, uuid.MustParse(created.ID))
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if fetched.FirstName != created.FirstName || fetched.PhoneNumber != created.PhoneNumber ||
		*fetched.Email != *created.Email || fetched.Year != created.Year || fetched.Gender != created.Gender {
		t.Fatalf("round trip mismatch: created %+v fetched %+v", created, fetched)
	}
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	req := validCreateRequest()
	req.FollowUpStatusNumber = intPtr(99)

	_, err := newTestService(&fakeRepo{}).Create(context.Background(), uuid.New(), req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDIsTenantScoped(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	created, err := svc.Create(context.Background(), uuid.New(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	_, err = svc.GetByID(context.Background(), uuid.New(), uuid.MustParse(created.ID))
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for another organization, got %v", err)
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	orgID := uuid.New()
	created, err := svc.Create(context.Background(), orgID, validCreateRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	id := uuid.MustParse(created.ID)

	req := transport.UpdateContactRequest{Major: strPtr("Physics"), IsInterested: new(bool), FollowUpStatusNumber: intPtr(3)}
	first, err := svc.Update(context.Background(), orgID, id, req)
	if err != nil {
		t.Fatalf("first Update returned error: %v", err)
	}
	second, err := svc.Update(context.Background(), orgID, id, req)
	if err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}

	if first.Major != "Physics" || first.IsInterested || *first.FollowUpStatusNumber != 3 {
		t.Fatalf("update not applied: %+v", first)
	}
	if first.Major != second.Major || first.IsInterested != second.IsInterested ||
		*first.FollowUpStatusNumber != *second.FollowUpStatusNumber || first.FirstName != second.FirstName {
		t.Fatalf("repeated update changed the record: %+v vs %+v", first, second)
	}
}

func TestCreateRejectsBlankRequiredFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	for field, mutate := range map[string]func(*transport.CreateContactRequest){
		"firstName":   func(r *transport.CreateContactRequest) { r.FirstName = "   " },
		"lastName":    func(r *transport.CreateContactRequest) { r.LastName = "\t" },
		"phoneNumber": func(r *transport.CreateContactRequest) { r.PhoneNumber = "  " },
		"campus":      func(r *transport.CreateContactRequest) { r.Campus = " " },
		"major":       func(r *transport.CreateContactRequest) { r.Major = "  " },
	} {
		req := validCreateRequest()
		mutate(&req)
		_, err := svc.Create(context.Background(), uuid.New(), req)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
	}
	if len(repo.contacts) != 0 {
		t.Fatalf("expected nothing stored, got %d contacts", len(repo.contacts))
	}
}

func TestUpdateRejectsBlankRequiredFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	orgID := uuid.New()
	created, err := svc.Create(context.Background(), orgID, validCreateRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	id := uuid.MustParse(created.ID)

	_, err = svc.Update(context.Background(), orgID, id, transport.UpdateContactRequest{LastName: strPtr("  ")})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.contacts[0].LastName != "Smith" {
		t.Fatalf("expected last name to stay unchanged, got %q", repo.contacts[0].LastName)
	}
}

func TestUpdateEmptyEmailClearsIt(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	orgID := uuid.New()
	created, err := svc.Create(context.Background(), orgID, validCreateRequest())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(context.Background(), orgID, uuid.MustParse(created.ID), transport.UpdateContactRequest{Email: strPtr(" ")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Email != nil {
		t.Fatalf("expected email to be cleared, got %q", *updated.Email)
	}

	_, err = svc.Update(context.Background(), orgID, uuid.MustParse(created.ID), transport.UpdateContactRequest{Email: strPtr("not-an-email")})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for malformed email, got %v", err)
	}
}

func TestUpdateMissingContactIsNotFound(t *testing.T) {
	_, err := newTestService(&fakeRepo{}).Update(context.Background(), uuid.New(), uuid.New(), transport.UpdateContactRequest{})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMissingContactSucceeds(t *testing.T) {
	if err := newTestService(&fakeRepo{}).Delete(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected delete-if-exists semantics, got %v", err)
	}
}

func TestStatsCountsTenantContacts(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	orgID := uuid.New()

	male := validCreateRequest()
	male.Gender = "male"
	male.IsInterested = new(bool)
	for _, req := range []transport.CreateContactRequest{validCreateRequest(), male} {
		if _, err := svc.Create(context.Background(), orgID, req); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), uuid.New(), validCreateRequest()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	resp, err := svc.Stats(context.Background(), orgID)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	got := resp.Stats
	if got.Total != 2 || got.Interested != 1 || got.NotInterested != 1 || got.MaleCount != 1 || got.FemaleCount != 1 {
		t.Fatalf("unexpected stats %+v", got)
	}
}
