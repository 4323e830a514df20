// Package repository is the Postgres storage for users and their
// organization roles.
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

var (
	ErrUserNotFound   = apperr.NotFound("Not found")
	ErrRoleNotFound   = apperr.NotFound("Role not found")
	ErrDuplicateEmail = apperr.Conflict("A user with this email already exists")
	ErrDuplicateRole  = apperr.Conflict("User already has a role in this organization")
	ErrMissingOwner   = apperr.Validation("organization, user or contact does not exist")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Pool is a Querier that can open transactions. *pgxpool.Pool satisfies it.
type Pool interface {
	db.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	pool Pool
}

func New(pool Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	ContactID *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Role           string
	CreatedAt      time.Time
}

type CreateUserParams struct {
	Username  string
	Email     string
	ContactID *uuid.UUID
}

// UpdateUserParams carries a partial update. ClearContact unlinks the
// contact; otherwise a nil ContactID leaves it untouched.
type UpdateUserParams struct {
	Username     *string
	Email        *string
	ContactID    *uuid.UUID
	ClearContact bool
}

type RoleParams struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Role           string
}

// Membership assigns a role in an organization while creating or updating a user.
type Membership struct {
	OrganizationID uuid.UUID
	Role           string
}

const userColumns = `id, username, email, contact_id, created_at, updated_at`

const roleColumns = `id, org_id, user_id, role::text, created_at`

const upsertMembershipQuery = `
INSERT INTO role (org_id, user_id, role)
VALUES ($1, $2, $3::role_enum)
ON CONFLICT (org_id, user_id) DO UPDATE SET role = EXCLUDED.role
RETURNING ` + roleColumns

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.ContactID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func scanRole(row pgx.Row) (Role, error) {
	var r Role
	err := row.Scan(&r.ID, &r.OrganizationID, &r.UserID, &r.Role, &r.CreatedAt)
	return r, err
}

// mapWriteError turns constraint violations into typed errors.
func mapWriteError(err error, duplicate error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case uniqueViolation:
		return duplicate
	case foreignKeyViolation:
		return ErrMissingOwner
	}
	return nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM app_user ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// CreateUser inserts the user and, when given, its membership in one transaction.
func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams, membership *Membership) (User, []Role, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, nil, fmt.Errorf("begin create user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO app_user (username, email, contact_id)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns, params.Username, params.Email, params.ContactID))
	if err != nil {
		if mapped := mapWriteError(err, ErrDuplicateEmail); mapped != nil {
			return User{}, nil, mapped
		}
		return User{}, nil, fmt.Errorf("insert user: %w", err)
	}

	roles := make([]Role, 0, 1)
	if membership != nil {
		role, err := scanRole(tx.QueryRow(ctx, upsertMembershipQuery, membership.OrganizationID, u.ID, membership.Role))
		if err != nil {
			if mapped := mapWriteError(err, ErrDuplicateRole); mapped != nil {
				return User{}, nil, mapped
			}
			return User{}, nil, fmt.Errorf("insert role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, nil, fmt.Errorf("commit create user: %w", err)
	}
	return u, roles, nil
}

// UpdateUser applies a partial update and upserts the membership when given.
func (r *Repository) UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams, membership *Membership) (User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, fmt.Errorf("begin update user: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query, args := buildUserUpdateQuery(id, params)
	u, err := scanUser(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		if mapped := mapWriteError(err, ErrDuplicateEmail); mapped != nil {
			return User{}, mapped
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}

	if membership != nil {
		if _, err := scanRole(tx.QueryRow(ctx, upsertMembershipQuery, membership.OrganizationID, id, membership.Role)); err != nil {
			if mapped := mapWriteError(err, ErrDuplicateRole); mapped != nil {
				return User{}, mapped
			}
			return User{}, fmt.Errorf("upsert role: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, fmt.Errorf("commit update user: %w", err)
	}
	return u, nil
}

// DeleteUser removes the user and its roles. Missing users are not an error.
func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM app_user WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *Repository) RolesForUser(ctx context.Context, userID uuid.UUID) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM role WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return collectRoles(rows)
}

func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM role ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return collectRoles(rows)
}

func (r *Repository) GetRole(ctx context.Context, id uuid.UUID) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM role WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, ErrRoleNotFound
	}
	if err != nil {
		return Role{}, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (r *Repository) CreateRole(ctx context.Context, params RoleParams) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `
		INSERT INTO role (org_id, user_id, role)
		VALUES ($1, $2, $3::role_enum)
		RETURNING `+roleColumns, params.OrganizationID, params.UserID, params.Role))
	if err != nil {
		if mapped := mapWriteError(err, ErrDuplicateRole); mapped != nil {
			return Role{}, mapped
		}
		return Role{}, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, params RoleParams) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `
		UPDATE role SET org_id = $2, user_id = $3, role = $4::role_enum
		WHERE id = $1
		RETURNING `+roleColumns, id, params.OrganizationID, params.UserID, params.Role))
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, ErrRoleNotFound
	}
	if err != nil {
		if mapped := mapWriteError(err, ErrDuplicateRole); mapped != nil {
			return Role{}, mapped
		}
		return Role{}, fmt.Errorf("update role: %w", err)
	}
	return role, nil
}

func (r *Repository) DeleteRole(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM role WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

func buildUserUpdateQuery(id uuid.UUID, params UpdateUserParams) (string, []interface{}) {
	setClauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Username != nil {
		addSet("username", *params.Username)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.ClearContact {
		setClauses = append(setClauses, "contact_id = NULL")
	} else if params.ContactID != nil {
		addSet("contact_id", *params.ContactID)
	}
	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`UPDATE app_user SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, userColumns)
	args = append(args, id)
	return query, args
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func collectRoles(rows pgx.Rows) ([]Role, error) {
	defer rows.Close()

	roles := make([]Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}
