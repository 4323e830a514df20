// Package service implements contact search, CRUD, bulk import, statistics
// and export on top of the contact repository.
package service

import (
	"context"
	"time"

	"fish_and_follow_backend/internal/contacts/domain"
	"fish_and_follow_backend/internal/contacts/importjobs"
	"fish_and_follow_backend/internal/contacts/repository"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/config"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/google/uuid"
)

// Repository is the storage port of the contacts service.
type Repository interface {
	Search(ctx context.Context, params repository.SearchParams) ([]repository.Record, error)
	Create(ctx context.Context, params repository.CreateParams) (repository.Contact, error)
	GetByID(ctx context.Context, id, organizationID uuid.UUID) (repository.Contact, error)
	List(ctx context.Context, organizationID uuid.UUID) ([]repository.Contact, error)
	Update(ctx context.Context, id, organizationID uuid.UUID, params repository.UpdateParams) (repository.Contact, error)
	Delete(ctx context.Context, id, organizationID uuid.UUID) error
	Stats(ctx context.Context, organizationID uuid.UUID) (repository.Stats, error)
	ExistingIdentifiers(ctx context.Context, organizationID uuid.UUID) (repository.Identifiers, error)
}

// StatusCatalog answers questions about the follow-up pipeline.
type StatusCatalog interface {
	Exists(ctx context.Context, number int) (bool, error)
	// Initial returns the lowest status number, or nil when none exist.
	Initial(ctx context.Context) (*int, error)
}

// JobStore persists asynchronous import jobs.
type JobStore interface {
	Create(ctx context.Context, organizationID uuid.UUID, rows []transport.ImportContact) (importjobs.Job, error)
	Get(ctx context.Context, id uuid.UUID) (importjobs.Job, error)
	Payload(ctx context.Context, id uuid.UUID) ([]transport.ImportContact, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID, result transport.ImportResult) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
}

// ImportEnqueuer schedules a stored import job for background processing.
type ImportEnqueuer interface {
	EnqueueContactImport(ctx context.Context, jobID uuid.UUID) error
}

type Service struct {
	repo          Repository
	statuses      StatusCatalog
	val           *validator.Validator
	log           *logger.Logger
	jobs          JobStore
	enqueuer      ImportEnqueuer
	exportMaxRows int
	now           func() time.Time
}

func New(repo Repository, statuses StatusCatalog, val *validator.Validator, cfg config.ContactsConfig, log *logger.Logger) *Service {
	maxRows := cfg.GetContactExportMaxRows()
	if maxRows <= 0 {
		maxRows = 10000
	}
	// The contact request DTOs and import rows use these tags.
	_ = domain.RegisterValidations(val)
	return &Service{
		repo:          repo,
		statuses:      statuses,
		val:           val,
		log:           log,
		exportMaxRows: maxRows,
		now:           time.Now,
	}
}

// SetImportJobs enables asynchronous imports. Without it the job endpoints
// report the feature as unavailable.
func (s *Service) SetImportJobs(store JobStore, enqueuer ImportEnqueuer) {
	s.jobs = store
	s.enqueuer = enqueuer
}

func toContactResponse(c repository.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:                        c.ID.String(),
		FirstName:                 c.FirstName,
		LastName:                  c.LastName,
		PhoneNumber:               c.PhoneNumber,
		Email:                     c.Email,
		Campus:                    c.Campus,
		Major:                     c.Major,
		Year:                      c.Year,
		IsInterested:              c.IsInterested,
		Gender:                    c.Gender,
		FollowUpStatusNumber:      c.FollowUpStatusNumber,
		FollowUpStatusDescription: c.FollowUpStatusDescription,
		Notes:                     c.Notes,
		OrgID:                     c.OrganizationID.String(),
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}
