package repository

import (
	"context"
	"fmt"
	"strings"
)

// SearchParams is a normalized user search. An empty Search or nil Role
// applies no predicate.
type SearchParams struct {
	Search string
	Role   *string
	Limit  int
}

func (r *Repository) SearchUsers(ctx context.Context, params SearchParams) ([]User, error) {
	query, args := buildUserSearchQuery(params)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return collectUsers(rows)
}

// buildUserSearchQuery matches the text against username or email and
// narrows by role membership. Results are ordered by username.
func buildUserSearchQuery(params SearchParams) (string, []interface{}) {
	whereClauses := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	argIdx := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(u.username ILIKE $%d OR u.email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}
	if params.Role != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM role r WHERE r.user_id = u.id AND r.role = $%d::role_enum)", argIdx))
		args = append(args, *params.Role)
		argIdx++
	}

	var b strings.Builder
	b.WriteString("SELECT u.id, u.username, u.email, u.contact_id, u.created_at, u.updated_at FROM app_user u")
	if len(whereClauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(whereClauses, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY u.username ASC LIMIT $%d", argIdx)
	args = append(args, params.Limit)

	return b.String(), args
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
