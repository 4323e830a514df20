// Package importjobs keeps asynchronous contact import jobs in Redis: the
// job state and the submitted rows, both expiring after a configured TTL.
package importjobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	jobPrefix     = "contacts:import:job:"
	payloadPrefix = "contacts:import:payload:"
)

// Job is the stored state of one import.
type Job struct {
	ID             uuid.UUID                 `json:"id"`
	OrganizationID uuid.UUID                 `json:"organizationId"`
	Status         transport.ImportJobStatus `json:"status"`
	Total          int                       `json:"total"`
	Result         *transport.ImportResult   `json:"result,omitempty"`
	Error          string                    `json:"error,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl, now: time.Now}
}

// Create stores a pending job together with its rows.
func (s *Store) Create(ctx context.Context, organizationID uuid.UUID, rows []transport.ImportContact) (Job, error) {
	now := s.now().UTC()
	job := Job{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Status:         transport.ImportJobPending,
		Total:          len(rows),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	jobData, err := json.Marshal(job)
	if err != nil {
		return Job{}, fmt.Errorf("marshal import job: %w", err)
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return Job{}, fmt.Errorf("marshal import payload: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, payloadPrefix+job.ID.String(), payload, s.ttl)
	pipe.Set(ctx, jobPrefix+job.ID.String(), jobData, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return Job{}, fmt.Errorf("save import job: %w", err)
	}

	return job, nil
}

// Get loads a job. Unknown or expired jobs are a not-found error.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	raw, err := s.client.Get(ctx, jobPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Job{}, apperr.NotFound("Import job not found")
	}
	if err != nil {
		return Job{}, fmt.Errorf("load import job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return Job{}, fmt.Errorf("decode import job: %w", err)
	}
	return job, nil
}

// Payload returns the rows submitted with the job.
func (s *Store) Payload(ctx context.Context, id uuid.UUID) ([]transport.ImportContact, error) {
	raw, err := s.client.Get(ctx, payloadPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("Import job payload not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load import payload: %w", err)
	}

	var rows []transport.ImportContact
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode import payload: %w", err)
	}
	return rows, nil
}

func (s *Store) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, id, func(job *Job) {
		job.Status = transport.ImportJobRunning
		job.Error = ""
	})
}

// Complete records the result and drops the stored rows.
func (s *Store) Complete(ctx context.Context, id uuid.UUID, result transport.ImportResult) error {
	if err := s.update(ctx, id, func(job *Job) {
		job.Status = transport.ImportJobCompleted
		job.Result = &result
		job.Error = ""
	}); err != nil {
		return err
	}
	if err := s.client.Del(ctx, payloadPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("drop import payload: %w", err)
	}
	return nil
}

func (s *Store) Fail(ctx context.Context, id uuid.UUID, message string) error {
	return s.update(ctx, id, func(job *Job) {
		job.Status = transport.ImportJobFailed
		job.Error = message
	})
}

func (s *Store) update(ctx context.Context, id uuid.UUID, mutate func(*Job)) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	mutate(&job)
	job.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal import job: %w", err)
	}
	if err := s.client.Set(ctx, jobPrefix+id.String(), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("save import job: %w", err)
	}
	return nil
}
