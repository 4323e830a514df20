package service

import (
	"context"
	"strconv"
	"strings"

	"fish_and_follow_backend/internal/contacts/domain"
	"fish_and_follow_backend/internal/contacts/repository"
	"fish_and_follow_backend/internal/contacts/transport"
	"fish_and_follow_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 100
	filterAll          = "all"
)

// Search returns contacts matching the free text query and filters, ranked
// and bounded by the limit. Total is the number of returned records.
func (s *Service) Search(ctx context.Context, organizationID uuid.UUID, req transport.SearchRequest) (*transport.SearchResponse, error) {
	params := parseSearchRequest(organizationID, req)

	records, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to search contacts", err).WithOp("contacts.Search")
	}
	if len(records) > params.Limit {
		records = records[:params.Limit]
	}

	contacts := shapeRecords(records, params.Fields)

	s.log.WithContext(ctx).Info("contact search",
		"matches", len(contacts),
		"search", params.Search != "",
		"filtersApplied", params.HasFilters(),
	)

	var query *string
	if params.Search != "" {
		q := params.Search
		query = &q
	}

	return &transport.SearchResponse{
		Success:    true,
		Contacts:   contacts,
		Query:      query,
		Total:      len(contacts),
		HasFilters: params.HasFilters(),
		Timestamp:  s.now().UTC(),
	}, nil
}

// Fields exposes the projectable field registry.
func (s *Service) Fields() transport.FieldsResponse {
	return transport.FieldsResponse{
		Success:   true,
		Fields:    domain.Fields(),
		Timestamp: s.now().UTC(),
	}
}

// parseSearchRequest normalizes raw query values. Filters equal to "all",
// empty or malformed are left unset rather than rejected.
func parseSearchRequest(organizationID uuid.UUID, req transport.SearchRequest) repository.SearchParams {
	params := repository.SearchParams{
		OrganizationID: organizationID,
		Search:         strings.TrimSpace(req.Search),
		Fields:         domain.ResolveProjection(req.Fields),
		Limit:          clampLimit(req.Limit),
	}

	if year, ok := filterValue(req.Year); ok && domain.IsValidYear(year) {
		params.Year = &year
	}
	if gender, ok := filterValue(req.Gender); ok && domain.IsValidGender(gender) {
		params.Gender = &gender
	}
	if campus, ok := filterValue(req.Campus); ok {
		params.Campus = &campus
	}
	if major, ok := filterValue(req.Major); ok {
		params.Major = &major
	}
	if raw, ok := filterValue(req.IsInterested); ok {
		if interested, err := strconv.ParseBool(raw); err == nil {
			params.IsInterested = &interested
		}
	}
	if raw, ok := filterValue(req.FollowUpStatusNumber); ok {
		if number, err := strconv.Atoi(raw); err == nil {
			params.FollowUpStatusNumber = &number
		}
	}

	return params
}

func filterValue(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, filterAll) {
		return "", false
	}
	return value, true
}

// clampLimit parses the limit and clamps it into [1, 100]. Missing or
// non-numeric input uses the default of 50.
func clampLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultSearchLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

// shapeRecords returns records carrying exactly the projected keys.
func shapeRecords(records []repository.Record, fields []string) []map[string]any {
	shaped := make([]map[string]any, len(records))
	for i, record := range records {
		out := make(map[string]any, len(fields))
		for _, key := range fields {
			out[key] = normalizeValue(record[key])
		}
		shaped[i] = out
	}
	return shaped
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return v
	}
}
