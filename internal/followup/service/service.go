// Package service serves the follow-up pipeline and answers status
// lookups for the contacts module.
package service

import (
	"context"
	"strings"

	"fish_and_follow_backend/internal/followup/repository"
	"fish_and_follow_backend/internal/followup/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/sanitize"
)

var errEmptyDescription = apperr.Validation("description is required")

type Repository interface {
	List(ctx context.Context) ([]repository.Status, error)
	Create(ctx context.Context, s repository.Status) (repository.Status, error)
	Update(ctx context.Context, number int, description string) (repository.Status, error)
	InsertMissing(ctx context.Context, statuses []repository.Status) (int, error)
	Count(ctx context.Context) (int, error)
}

// Cache holds the full status list. Failures are logged and the service
// falls back to the repository.
type Cache interface {
	Get(ctx context.Context) ([]repository.Status, bool, error)
	Set(ctx context.Context, statuses []repository.Status) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	repo  Repository
	cache Cache
	log   *logger.Logger
}

// New creates the service. cache may be nil, in which case every read goes
// to Postgres.
func New(repo Repository, cache Cache, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

func (s *Service) List(ctx context.Context) ([]transport.StatusResponse, error) {
	statuses, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.StatusResponse, len(statuses))
	for i, st := range statuses {
		out[i] = toResponse(st)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, number int) (transport.StatusResponse, error) {
	statuses, err := s.load(ctx)
	if err != nil {
		return transport.StatusResponse{}, err
	}
	for _, st := range statuses {
		if st.Number == number {
			return toResponse(st), nil
		}
	}
	return transport.StatusResponse{}, repository.ErrNotFound
}

func (s *Service) Create(ctx context.Context, req transport.CreateStatusRequest) (transport.StatusResponse, error) {
	description := cleanDescription(req.Description)
	if description == "" {
		return transport.StatusResponse{}, errEmptyDescription
	}
	created, err := s.repo.Create(ctx, repository.Status{Number: req.Number, Description: description})
	if err != nil {
		return transport.StatusResponse{}, err
	}
	s.invalidate(ctx)
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, number int, req transport.UpdateStatusRequest) (transport.StatusResponse, error) {
	description := cleanDescription(req.Description)
	if description == "" {
		return transport.StatusResponse{}, errEmptyDescription
	}
	updated, err := s.repo.Update(ctx, number, description)
	if err != nil {
		return transport.StatusResponse{}, err
	}
	s.invalidate(ctx)
	return toResponse(updated), nil
}

// Exists reports whether a status with the given number is defined.
func (s *Service) Exists(ctx context.Context, number int) (bool, error) {
	statuses, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for _, st := range statuses {
		if st.Number == number {
			return true, nil
		}
	}
	return false, nil
}

// Initial returns the lowest status number, or nil when the pipeline is empty.
func (s *Service) Initial(ctx context.Context) (*int, error) {
	statuses, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var lowest *int
	for _, st := range statuses {
		if lowest == nil || st.Number < *lowest {
			n := st.Number
			lowest = &n
		}
	}
	return lowest, nil
}

func (s *Service) load(ctx context.Context) ([]repository.Status, error) {
	if s.cache != nil {
		statuses, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.WithContext(ctx).Warn("follow-up status cache read failed", "error", err)
		} else if ok {
			return statuses, nil
		}
	}

	statuses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statuses); err != nil {
			s.log.WithContext(ctx).Warn("follow-up status cache write failed", "error", err)
		}
	}
	return statuses, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithContext(ctx).Warn("follow-up status cache invalidation failed", "error", err)
	}
}

func cleanDescription(raw string) string {
	return strings.TrimSpace(sanitize.Text(raw))
}

func toResponse(s repository.Status) transport.StatusResponse {
	return transport.StatusResponse{Number: s.Number, Description: s.Description}
}
