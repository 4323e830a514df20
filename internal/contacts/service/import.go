package service

import (
	"context"
	"strings"

	"fish_and_follow_backend/internal/contacts/repository"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/phone"
	"fish_and_follow_backend/platform/sanitize"
	"fish_and_follow_backend/platform/validator"

	"github.com/google/uuid"
)

// MaxImportRows bounds a single import request.
const MaxImportRows = 5000

const (
	msgDuplicatePhone = "A contact with this phone number already exists"
	msgDuplicateEmail = "A contact with this email already exists"
	msgInsertFailed   = "Failed to save contact"
)

// importRow is the validated form of one candidate row.
type importRow struct {
	FirstName   string  `json:"firstName" validate:"required,max=255"`
	LastName    string  `json:"lastName" validate:"required,max=255"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,loose_phone,max=50"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Campus      string  `json:"campus" validate:"required,max=255"`
	Major       string  `json:"major" validate:"required,max=255"`
	Year        string  `json:"year" validate:"required,contact_year"`
	Gender      string  `json:"gender" validate:"required,contact_gender"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

// Import validates and inserts each row independently. A failing row is
// reported with its 1-based position and never stops the rows after it.
func (s *Service) Import(ctx context.Context, organizationID uuid.UUID, rows []transport.ImportContact) (*transport.ImportResult, error) {
	if len(rows) > MaxImportRows {
		return nil, apperr.Validation("too many contacts in one import").WithDetails(map[string]int{"max": MaxImportRows})
	}
	return s.runImport(ctx, organizationID, rows)
}

// importState tracks identifiers already in use, including rows inserted
// earlier in the same import.
type importState struct {
	phones   map[string]struct{}
	emails   map[string]struct{}
	statuses map[int]bool
	initial  *int
}

func (s *Service) runImport(ctx context.Context, organizationID uuid.UUID, rows []transport.ImportContact) (*transport.ImportResult, error) {
	existing, err := s.repo.ExistingIdentifiers(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	initial, err := s.statuses.Initial(ctx)
	if err != nil {
		return nil, err
	}

	state := &importState{
		phones:   make(map[string]struct{}, len(existing.Phones)+len(rows)),
		emails:   make(map[string]struct{}, len(existing.Emails)+len(rows)),
		statuses: make(map[int]bool),
		initial:  initial,
	}
	for _, p := range existing.Phones {
		state.phones[phone.NormalizeE164(p)] = struct{}{}
	}
	for _, e := range existing.Emails {
		state.emails[strings.ToLower(e)] = struct{}{}
	}

	result := &transport.ImportResult{Errors: make([]transport.ImportError, 0)}
	for i, candidate := range rows {
		if msg := s.importOne(ctx, organizationID, candidate, state); msg != "" {
			result.Failed++
			result.Errors = append(result.Errors, transport.ImportError{
				Index:   i + 1,
				Contact: candidate,
				Error:   msg,
			})
			continue
		}
		result.Successful++
	}

	s.log.WithContext(ctx).Info("contact import",
		"rows", len(rows),
		"successful", result.Successful,
		"failed", result.Failed,
	)
	return result, nil
}

// importOne returns the failure reason for the row, or "" once inserted.
func (s *Service) importOne(ctx context.Context, organizationID uuid.UUID, candidate transport.ImportContact, state *importState) string {
	row := importRow{
		FirstName:   strings.TrimSpace(candidate.FirstName),
		LastName:    strings.TrimSpace(candidate.LastName),
		PhoneNumber: strings.TrimSpace(candidate.PhoneNumber),
		Email:       trimOptional(candidate.Email),
		Campus:      strings.TrimSpace(candidate.Campus),
		Major:       strings.TrimSpace(candidate.Major),
		Year:        strings.TrimSpace(candidate.Year),
		Gender:      strings.TrimSpace(candidate.Gender),
		Notes:       sanitize.OptionalText(candidate.Notes),
	}
	if err := s.val.Struct(row); err != nil {
		return validator.Describe(err)
	}

	phoneKey := phone.NormalizeE164(row.PhoneNumber)
	if _, taken := state.phones[phoneKey]; taken {
		return msgDuplicatePhone
	}
	emailKey := ""
	if row.Email != nil {
		emailKey = strings.ToLower(*row.Email)
		if _, taken := state.emails[emailKey]; taken {
			return msgDuplicateEmail
		}
	}

	status := state.initial
	if candidate.FollowUpStatusNumber != nil {
		number := *candidate.FollowUpStatusNumber
		known, cached := state.statuses[number]
		if !cached {
			ok, err := s.statuses.Exists(ctx, number)
			if err != nil {
				s.log.WithContext(ctx).Error("import status lookup failed", "error", err)
				return msgInsertFailed
			}
			known = ok
			state.statuses[number] = ok
		}
		if !known {
			return msgUnknownStatus
		}
		status = &number
	}

	interested := true
	if candidate.IsInterested != nil {
		interested = *candidate.IsInterested
	}

	_, err := s.repo.Create(ctx, repository.CreateParams{
		OrganizationID:       organizationID,
		FirstName:            row.FirstName,
		LastName:             row.LastName,
		PhoneNumber:          row.PhoneNumber,
		Email:                row.Email,
		Campus:               row.Campus,
		Major:                row.Major,
		Year:                 row.Year,
		Gender:               row.Gender,
		IsInterested:         interested,
		FollowUpStatusNumber: status,
		Notes:                row.Notes,
	})
	if err != nil {
		s.log.WithContext(ctx).Error("import insert failed", "error", err)
		return msgInsertFailed
	}

	state.phones[phoneKey] = struct{}{}
	if emailKey != "" {
		state.emails[emailKey] = struct{}{}
	}
	return ""
}
