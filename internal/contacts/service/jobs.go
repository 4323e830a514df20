package service

import (
	"context"

	"fish_and_follow_backend/internal/contacts/importjobs"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"

	"github.com/google/uuid"
)

var errJobsUnavailable = apperr.Unavailable("background import is not configured")

// StartImportJob stores the rows and enqueues them for the worker.
func (s *Service) StartImportJob(ctx context.Context, organizationID uuid.UUID, rows []transport.ImportContact) (*transport.ImportJobResponse, error) {
	if s.jobs == nil || s.enqueuer == nil {
		return nil, errJobsUnavailable
	}
	if len(rows) > MaxImportRows {
		return nil, apperr.Validation("too many contacts in one import").WithDetails(map[string]int{"max": MaxImportRows})
	}

	job, err := s.jobs.Create(ctx, organizationID, rows)
	if err != nil {
		return nil, err
	}

	if err := s.enqueuer.EnqueueContactImport(ctx, job.ID); err != nil {
		s.markJobFailed(ctx, job.ID, "could not schedule import")
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to schedule import", err).WithOp("contacts.StartImportJob")
	}

	return toJobResponse(job), nil
}

// GetImportJob returns a job owned by the organization.
func (s *Service) GetImportJob(ctx context.Context, organizationID, jobID uuid.UUID) (*transport.ImportJobResponse, error) {
	if s.jobs == nil {
		return nil, errJobsUnavailable
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.OrganizationID != organizationID {
		return nil, apperr.NotFound("Import job not found")
	}
	return toJobResponse(job), nil
}

// RunImportJob processes a stored job. Completed jobs are skipped so a
// redelivered task does not import twice; a retried partial run is safe
// because earlier inserts are reported as duplicates.
func (s *Service) RunImportJob(ctx context.Context, jobID uuid.UUID) error {
	if s.jobs == nil {
		return errJobsUnavailable
	}

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == transport.ImportJobCompleted {
		return nil
	}

	if err := s.jobs.MarkRunning(ctx, jobID); err != nil {
		return err
	}

	rows, err := s.jobs.Payload(ctx, jobID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "import payload is no longer available")
		return err
	}

	result, err := s.runImport(ctx, job.OrganizationID, rows)
	if err != nil {
		s.markJobFailed(ctx, jobID, "import failed")
		return err
	}

	return s.jobs.Complete(ctx, jobID, *result)
}

func (s *Service) markJobFailed(ctx context.Context, jobID uuid.UUID, reason string) {
	if err := s.jobs.Fail(ctx, jobID, reason); err != nil {
		s.log.WithContext(ctx).Error("mark import job failed", "jobId", jobID, "error", err)
	}
}

func toJobResponse(job importjobs.Job) *transport.ImportJobResponse {
	return &transport.ImportJobResponse{
		JobID:     job.ID.String(),
		Status:    job.Status,
		Total:     job.Total,
		Result:    job.Result,
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
}
