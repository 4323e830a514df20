// Package repository is the Postgres storage for follow-up statuses.
package repository

import (
	"context"
	"errors"
	"fmt"

	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = apperr.NotFound("Follow-up status not found")
	ErrDuplicate = apperr.Conflict("A follow-up status with this number already exists")
)

const uniqueViolation = "23505"

// Status is one stage of the follow-up pipeline, identified by its number.
type Status struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

type Repository struct {
	pool db.Querier
}

func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]Status, error) {
	rows, err := r.pool.Query(ctx, `SELECT number, description FROM follow_up_status ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list follow-up statuses: %w", err)
	}
	defer rows.Close()

	statuses := make([]Status, 0)
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s.Number, &s.Description); err != nil {
			return nil, fmt.Errorf("scan follow-up status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *Repository) Get(ctx context.Context, number int) (Status, error) {
	var s Status
	err := r.pool.QueryRow(ctx,
		`SELECT number, description FROM follow_up_status WHERE number = $1`, number,
	).Scan(&s.Number, &s.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Status{}, ErrNotFound
	}
	if err != nil {
		return Status{}, fmt.Errorf("get follow-up status: %w", err)
	}
	return s, nil
}

func (r *Repository) Create(ctx context.Context, s Status) (Status, error) {
	var out Status
	err := r.pool.QueryRow(ctx,
		`INSERT INTO follow_up_status (number, description) VALUES ($1, $2) RETURNING number, description`,
		s.Number, s.Description,
	).Scan(&out.Number, &out.Description)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Status{}, ErrDuplicate
		}
		return Status{}, fmt.Errorf("create follow-up status: %w", err)
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, number int, description string) (Status, error) {
	var out Status
	err := r.pool.QueryRow(ctx,
		`UPDATE follow_up_status SET description = $2 WHERE number = $1 RETURNING number, description`,
		number, description,
	).Scan(&out.Number, &out.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Status{}, ErrNotFound
	}
	if err != nil {
		return Status{}, fmt.Errorf("update follow-up status: %w", err)
	}
	return out, nil
}

// InsertMissing inserts the given statuses, skipping numbers that already
// exist, and reports how many rows were added.
func (r *Repository) InsertMissing(ctx context.Context, statuses []Status) (int, error) {
	inserted := 0
	for _, s := range statuses {
		tag, err := r.pool.Exec(ctx,
			`INSERT INTO follow_up_status (number, description) VALUES ($1, $2) ON CONFLICT (number) DO NOTHING`,
			s.Number, s.Description,
		)
		if err != nil {
			return inserted, fmt.Errorf("seed follow-up status %d: %w", s.Number, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM follow_up_status`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count follow-up statuses: %w", err)
	}
	return n, nil
}
