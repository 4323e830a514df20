package service

import (
	"context"

	"fish_and_follow_backend/internal/organizations/repository"
	"fish_and_follow_backend/internal/organizations/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/sanitize"

	"github.com/google/uuid"
)

var errNameRequired = apperr.Validation("Organization name is required")

type Repository interface {
	List(ctx context.Context) ([]repository.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (repository.Organization, error)
	Create(ctx context.Context, p repository.Params) (repository.Organization, error)
	Update(ctx context.Context, id uuid.UUID, p repository.Params) (repository.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	log  *logger.Logger
}

func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context) ([]transport.OrganizationResponse, error) {
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.OrganizationResponse, len(orgs))
	for i, org := range orgs {
		out[i] = toResponse(org)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.OrganizationResponse, error) {
	org, err := s.repo.Get(ctx, id)
	if err != nil {
		return transport.OrganizationResponse{}, err
	}
	return toResponse(org), nil
}

func (s *Service) Create(ctx context.Context, req transport.OrganizationRequest) (transport.OrganizationResponse, error) {
	params, err := toParams(req)
	if err != nil {
		return transport.OrganizationResponse{}, err
	}
	org, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.OrganizationResponse{}, err
	}
	s.log.WithContext(ctx).Info("organization created", "organizationId", org.ID)
	return toResponse(org), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.OrganizationRequest) (transport.OrganizationResponse, error) {
	params, err := toParams(req)
	if err != nil {
		return transport.OrganizationResponse{}, err
	}
	org, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.OrganizationResponse{}, err
	}
	return toResponse(org), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("organization deleted", "organizationId", id)
	return nil
}

func toParams(req transport.OrganizationRequest) (repository.Params, error) {
	params := repository.Params{
		Name:     sanitize.Text(req.Name),
		Country:  sanitize.Text(req.Country),
		Strategy: sanitize.Text(req.Strategy),
	}
	if params.Name == "" {
		return repository.Params{}, errNameRequired
	}
	return params, nil
}

func toResponse(org repository.Organization) transport.OrganizationResponse {
	return transport.OrganizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		Country:   org.Country,
		Strategy:  org.Strategy,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}
