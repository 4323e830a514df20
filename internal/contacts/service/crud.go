package service

import (
	"context"
	"strings"

	"fish_and_follow_backend/internal/contacts/repository"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/sanitize"
	"fish_and_follow_backend/platform/validator"

	"github.com/google/uuid"
)

const msgUnknownStatus = "followUpStatusNumber does not reference an existing status"

func (s *Service) List(ctx context.Context, organizationID uuid.UUID) ([]transport.ContactResponse, error) {
	contacts, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ContactResponse, len(contacts))
	for i, c := range contacts {
		out[i] = toContactResponse(c)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.ContactResponse, error) {
	c, err := s.repo.GetByID(ctx, id, organizationID)
	if err != nil {
		return transport.ContactResponse{}, err
	}
	return toContactResponse(c), nil
}

// Create stores a new contact. isInterested defaults to true and the
// follow-up status defaults to the initial pipeline stage.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateContactRequest) (transport.ContactResponse, error) {
	req.Normalize()
	if err := s.val.Struct(req); err != nil {
		return transport.ContactResponse{}, apperr.Validation(validator.Describe(err))
	}

	params := repository.CreateParams{
		OrganizationID:       organizationID,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		PhoneNumber:          req.PhoneNumber,
		Email:                req.Email,
		Campus:               req.Campus,
		Major:                req.Major,
		Year:                 req.Year,
		Gender:               req.Gender,
		IsInterested:         true,
		FollowUpStatusNumber: req.FollowUpStatusNumber,
		Notes:                sanitize.OptionalText(req.Notes),
	}
	if req.IsInterested != nil {
		params.IsInterested = *req.IsInterested
	}

	status, err := s.resolveStatus(ctx, req.FollowUpStatusNumber)
	if err != nil {
		return transport.ContactResponse{}, err
	}
	params.FollowUpStatusNumber = status

	c, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.ContactResponse{}, err
	}
	return toContactResponse(c), nil
}

// Update applies a partial update. Repeating the same update leaves the
// stored record unchanged apart from updatedAt.
func (s *Service) Update(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateContactRequest) (transport.ContactResponse, error) {
	req.Normalize()
	if err := s.val.Struct(req); err != nil {
		return transport.ContactResponse{}, apperr.Validation(validator.Describe(err))
	}

	if req.FollowUpStatusNumber != nil {
		ok, err := s.statuses.Exists(ctx, *req.FollowUpStatusNumber)
		if err != nil {
			return transport.ContactResponse{}, err
		}
		if !ok {
			return transport.ContactResponse{}, apperr.Validation(msgUnknownStatus)
		}
	}

	params := repository.UpdateParams{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		PhoneNumber:          req.PhoneNumber,
		Email:                req.Email,
		Campus:               req.Campus,
		Major:                req.Major,
		Year:                 req.Year,
		IsInterested:         req.IsInterested,
		Gender:               req.Gender,
		FollowUpStatusNumber: req.FollowUpStatusNumber,
	}
	if req.Notes != nil {
		notes := sanitize.Text(*req.Notes)
		params.Notes = &notes
	}

	c, err := s.repo.Update(ctx, id, organizationID, params)
	if err != nil {
		return transport.ContactResponse{}, err
	}
	return toContactResponse(c), nil
}

// Delete removes a contact if it exists.
func (s *Service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, organizationID)
}

func (s *Service) resolveStatus(ctx context.Context, requested *int) (*int, error) {
	if requested == nil {
		return s.statuses.Initial(ctx)
	}
	ok, err := s.statuses.Exists(ctx, *requested)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation(msgUnknownStatus)
	}
	return requested, nil
}

// trimOptional trims an optional value, turning blank input into nil.
func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
