package repository

import (
	"context"
	"fmt"
	"strings"

	"fish_and_follow_backend/internal/contacts/domain"

	"github.com/google/uuid"
)

// SearchParams is a fully normalized search request. Nil filters are not
// applied. Fields must contain registry keys only.
type SearchParams struct {
	OrganizationID       uuid.UUID
	Search               string
	Year                 *string
	Gender               *string
	Campus               *string
	Major                *string
	IsInterested         *bool
	FollowUpStatusNumber *int
	Fields               []string
	Limit                int
}

// HasFilters reports whether any equality filter narrows the result.
func (p SearchParams) HasFilters() bool {
	return p.Year != nil || p.Gender != nil || p.Campus != nil || p.Major != nil ||
		p.IsInterested != nil || p.FollowUpStatusNumber != nil
}

// Record is one projected contact keyed by registry field key.
type Record map[string]any

// columnExprs maps registry keys to their select expressions. Enums and
// UUIDs are cast to text so the record decodes to plain strings.
var columnExprs = map[string]string{
	domain.FieldID:                        "c.id::text",
	domain.FieldFirstName:                 "c.first_name",
	domain.FieldLastName:                  "c.last_name",
	domain.FieldPhoneNumber:               "c.phone_number",
	domain.FieldEmail:                     "c.email",
	domain.FieldCampus:                    "c.campus",
	domain.FieldMajor:                     "c.major",
	domain.FieldYear:                      "c.year::text",
	domain.FieldIsInterested:              "c.is_interested",
	domain.FieldGender:                    "c.gender::text",
	domain.FieldFollowUpStatusNumber:      "c.follow_up_status",
	domain.FieldFollowUpStatusDescription: "s.description",
	domain.FieldNotes:                     "c.notes",
	domain.FieldOrgID:                     "c.org_id::text",
	domain.FieldCreatedAt:                 "c.created_at",
	domain.FieldUpdatedAt:                 "c.updated_at",
}

const searchFromClause = `FROM contact c
LEFT JOIN follow_up_status s ON s.number = c.follow_up_status`

// Search runs the projected, filtered and ranked contact query.
func (r *Repository) Search(ctx context.Context, params SearchParams) ([]Record, error) {
	query, args, err := buildSearchQuery(params)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer rows.Close()

	descriptions := rows.FieldDescriptions()
	records := make([]Record, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read contact row: %w", err)
		}
		record := make(Record, len(values))
		for i, fd := range descriptions {
			record[fd.Name] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}

	return records, nil
}

func buildSearchQuery(params SearchParams) (string, []interface{}, error) {
	if len(params.Fields) == 0 {
		return "", nil, fmt.Errorf("search projection is empty")
	}
	if params.Limit <= 0 {
		return "", nil, fmt.Errorf("search limit must be positive")
	}

	selectList := make([]string, 0, len(params.Fields))
	for _, key := range params.Fields {
		expr, ok := columnExprs[key]
		if !ok {
			return "", nil, fmt.Errorf("unknown contact field %q", key)
		}
		selectList = append(selectList, fmt.Sprintf(`%s AS "%s"`, expr, key))
	}

	whereClauses := []string{"c.org_id = $1"}
	args := []interface{}{params.OrganizationID}
	argIdx := 2

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	search := strings.TrimSpace(params.Search)
	if search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(c.first_name ILIKE $%d OR c.last_name ILIKE $%d OR c.email ILIKE $%d OR c.phone_number ILIKE $%d OR (c.first_name || ' ' || c.last_name) ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+escapeLike(search)+"%")
		argIdx++
	}

	if params.Year != nil {
		addEquals("c.year::text", *params.Year)
	}
	if params.Gender != nil {
		addEquals("c.gender::text", *params.Gender)
	}
	if params.Campus != nil {
		addEquals("c.campus", *params.Campus)
	}
	if params.Major != nil {
		addEquals("c.major", *params.Major)
	}
	if params.IsInterested != nil {
		addEquals("c.is_interested", *params.IsInterested)
	}
	if params.FollowUpStatusNumber != nil {
		addEquals("c.follow_up_status", *params.FollowUpStatusNumber)
	}

	orderBy := "c.first_name ASC, c.last_name ASC"
	if search != "" {
		orderBy = fmt.Sprintf(
			"CASE WHEN LOWER(c.first_name) = LOWER($%d) THEN 1 ELSE 0 END DESC, CASE WHEN LOWER(c.last_name) = LOWER($%d) THEN 1 ELSE 0 END DESC, %s",
			argIdx, argIdx, orderBy,
		)
		args = append(args, search)
		argIdx++
	}

	query := fmt.Sprintf("SELECT %s\n%s\nWHERE %s\nORDER BY %s\nLIMIT $%d",
		strings.Join(selectList, ", "),
		searchFromClause,
		strings.Join(whereClauses, " AND "),
		orderBy,
		argIdx,
	)
	args = append(args, params.Limit)

	return query, args, nil
}

// escapeLike makes the user's text match literally inside an ILIKE pattern.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
