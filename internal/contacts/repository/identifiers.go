package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Identifiers are the phone numbers and emails already used in an organization.
type Identifiers struct {
	Phones []string
	Emails []string
}

const identifiersQuery = `SELECT phone_number, email FROM contact WHERE org_id = $1`

// ExistingIdentifiers loads every phone number and email of the
// organization so an import can check uniqueness without a query per row.
func (r *Repository) ExistingIdentifiers(ctx context.Context, organizationID uuid.UUID) (Identifiers, error) {
	rows, err := r.pool.Query(ctx, identifiersQuery, organizationID)
	if err != nil {
		return Identifiers{}, fmt.Errorf("load contact identifiers: %w", err)
	}
	defer rows.Close()

	var ids Identifiers
	for rows.Next() {
		var phone string
		var email *string
		if err := rows.Scan(&phone, &email); err != nil {
			return Identifiers{}, fmt.Errorf("scan contact identifiers: %w", err)
		}
		ids.Phones = append(ids.Phones, phone)
		if email != nil && *email != "" {
			ids.Emails = append(ids.Emails, *email)
		}
	}
	if err := rows.Err(); err != nil {
		return Identifiers{}, fmt.Errorf("iterate contact identifiers: %w", err)
	}
	return ids, nil
}
