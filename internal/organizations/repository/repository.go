package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound    = apperr.NotFound("Organization not found")
	ErrHasContacts = apperr.Conflict("Organization still has contacts")
)

const foreignKeyViolation = "23503"

type Organization struct {
	ID        uuid.UUID
	Name      string
	Country   string
	Strategy  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Params struct {
	Name     string
	Country  string
	Strategy string
}

type Repository struct {
	pool db.Querier
}

func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

const organizationColumns = `id, name, country, strategy, created_at, updated_at`

func scanOrganization(row pgx.Row) (Organization, error) {
	var org Organization
	err := row.Scan(&org.ID, &org.Name, &org.Country, &org.Strategy, &org.CreatedAt, &org.UpdatedAt)
	return org, err
}

func (r *Repository) List(ctx context.Context) ([]Organization, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+organizationColumns+` FROM organization ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]Organization, 0)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Organization, error) {
	org, err := scanOrganization(r.pool.QueryRow(ctx,
		`SELECT `+organizationColumns+` FROM organization WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	if err != nil {
		return Organization{}, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func (r *Repository) Create(ctx context.Context, p Params) (Organization, error) {
	org, err := scanOrganization(r.pool.QueryRow(ctx, `
		INSERT INTO organization (name, country, strategy)
		VALUES ($1, $2, $3)
		RETURNING `+organizationColumns, p.Name, p.Country, p.Strategy))
	if err != nil {
		return Organization{}, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p Params) (Organization, error) {
	org, err := scanOrganization(r.pool.QueryRow(ctx, `
		UPDATE organization
		SET name = $2, country = $3, strategy = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+organizationColumns, id, p.Name, p.Country, p.Strategy))
	if errors.Is(err, pgx.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	if err != nil {
		return Organization{}, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

// Delete removes an organization that owns no contacts.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	var owned bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM contact WHERE org_id = $1)`, id,
	).Scan(&owned); err != nil {
		return fmt.Errorf("check organization contacts: %w", err)
	}
	if owned {
		return ErrHasContacts
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM organization WHERE id = $1`, id)
	if err != nil {
		// A contact inserted between the check and the delete.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrHasContacts
		}
		return fmt.Errorf("delete organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
