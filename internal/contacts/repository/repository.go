// Package repository is the Postgres storage for contacts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = apperr.NotFound("Not found")

const foreignKeyViolation = "23503"

type Repository struct {
	pool db.Querier
}

func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

// Contact is a stored contact joined with its follow-up status description.
type Contact struct {
	ID                        uuid.UUID
	FirstName                 string
	LastName                  string
	PhoneNumber               string
	Email                     *string
	Campus                    string
	Major                     string
	Year                      string
	IsInterested              bool
	Gender                    string
	FollowUpStatusNumber      *int
	FollowUpStatusDescription *string
	Notes                     *string
	OrganizationID            uuid.UUID
	CreatedAt                 *time.Time
	UpdatedAt                 *time.Time
}

type CreateParams struct {
	OrganizationID       uuid.UUID
	FirstName            string
	LastName             string
	PhoneNumber          string
	Email                *string
	Campus               string
	Major                string
	Year                 string
	IsInterested         bool
	Gender               string
	FollowUpStatusNumber *int
	Notes                *string
}

// UpdateParams carries a partial update. Nil fields are left untouched.
type UpdateParams struct {
	FirstName            *string
	LastName             *string
	PhoneNumber          *string
	Email                *string
	Campus               *string
	Major                *string
	Year                 *string
	IsInterested         *bool
	Gender               *string
	FollowUpStatusNumber *int
	Notes                *string
}

const contactColumns = `c.id, c.first_name, c.last_name, c.phone_number, c.email, c.campus, c.major,
	c.year::text, c.is_interested, c.gender::text, c.follow_up_status, s.description, c.notes,
	c.org_id, c.created_at, c.updated_at`

const createContactQuery = `
WITH c AS (
	INSERT INTO contact (first_name, last_name, phone_number, email, campus, major, year, is_interested, gender, follow_up_status, notes, org_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7::year_enum, $8, $9::gender_enum, $10, $11, $12)
	RETURNING *
)
SELECT ` + contactColumns + `
FROM c
LEFT JOIN follow_up_status s ON s.number = c.follow_up_status`

const getContactQuery = `
SELECT ` + contactColumns + `
FROM contact c
LEFT JOIN follow_up_status s ON s.number = c.follow_up_status
WHERE c.id = $1 AND c.org_id = $2`

const listContactsQuery = `
SELECT ` + contactColumns + `
FROM contact c
LEFT JOIN follow_up_status s ON s.number = c.follow_up_status
WHERE c.org_id = $1
ORDER BY c.first_name ASC, c.last_name ASC`

const deleteContactQuery = `DELETE FROM contact WHERE id = $1 AND org_id = $2`

// mapConstraintError turns foreign key violations into validation errors.
// The status may be removed between validation and insert, and the caller's
// organization may no longer exist.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "org") {
		return apperr.Validation("organization does not exist")
	}
	return apperr.Validation("followUpStatusNumber must reference an existing follow-up status")
}

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.Email, &c.Campus, &c.Major,
		&c.Year, &c.IsInterested, &c.Gender, &c.FollowUpStatusNumber, &c.FollowUpStatusDescription, &c.Notes,
		&c.OrganizationID, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Contact, error) {
	c, err := scanContact(r.pool.QueryRow(ctx, createContactQuery,
		params.FirstName, params.LastName, params.PhoneNumber, params.Email, params.Campus, params.Major,
		params.Year, params.IsInterested, params.Gender, params.FollowUpStatusNumber, params.Notes,
		params.OrganizationID,
	))
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return Contact{}, mapped
		}
		return Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id, organizationID uuid.UUID) (Contact, error) {
	c, err := scanContact(r.pool.QueryRow(ctx, getContactQuery, id, organizationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	if err != nil {
		return Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context, organizationID uuid.UUID) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, listContactsQuery, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func (r *Repository) Update(ctx context.Context, id, organizationID uuid.UUID, params UpdateParams) (Contact, error) {
	query, args := buildUpdateQuery(id, organizationID, params)

	c, err := scanContact(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrNotFound
	}
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return Contact{}, mapped
		}
		return Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return c, nil
}

// Delete removes the contact if it exists. Missing rows are not an error.
func (r *Repository) Delete(ctx context.Context, id, organizationID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, deleteContactQuery, id, organizationID); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func buildUpdateQuery(id, organizationID uuid.UUID, params UpdateParams) (string, []interface{}) {
	setClauses := make([]string, 0, 12)
	args := make([]interface{}, 0, 13)
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.FirstName != nil {
		addSet("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		addSet("last_name", *params.LastName)
	}
	if params.PhoneNumber != nil {
		addSet("phone_number", *params.PhoneNumber)
	}
	if params.Email != nil {
		addSet("email", nullIfEmpty(*params.Email))
	}
	if params.Campus != nil {
		addSet("campus", *params.Campus)
	}
	if params.Major != nil {
		addSet("major", *params.Major)
	}
	if params.Year != nil {
		setClauses = append(setClauses, fmt.Sprintf("year = $%d::year_enum", argIdx))
		args = append(args, *params.Year)
		argIdx++
	}
	if params.IsInterested != nil {
		addSet("is_interested", *params.IsInterested)
	}
	if params.Gender != nil {
		setClauses = append(setClauses, fmt.Sprintf("gender = $%d::gender_enum", argIdx))
		args = append(args, *params.Gender)
		argIdx++
	}
	if params.FollowUpStatusNumber != nil {
		addSet("follow_up_status", *params.FollowUpStatusNumber)
	}
	if params.Notes != nil {
		addSet("notes", nullIfEmpty(*params.Notes))
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`
WITH c AS (
	UPDATE contact SET %s
	WHERE id = $%d AND org_id = $%d
	RETURNING *
)
SELECT %s
FROM c
LEFT JOIN follow_up_status s ON s.number = c.follow_up_status`,
		strings.Join(setClauses, ", "), argIdx, argIdx+1, contactColumns)
	args = append(args, id, organizationID)

	return query, args
}

// nullIfEmpty maps an explicit empty value to NULL so optional text can be cleared.
func nullIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
