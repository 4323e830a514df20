package transport

import (
	"strings"
	"time"
)

type SearchRequest struct {
	Search string `form:"search"`
	Role   string `form:"role"`
	Limit  string `form:"limit"`
}

type SearchResponse struct {
	Success   bool           `json:"success"`
	Users     []UserResponse `json:"users"`
	Query     *string        `json:"query"`
	Total     int            `json:"total"`
	Timestamp time.Time      `json:"timestamp"`
}

// CreateUserRequest creates a user. When Role is set the user joins OrgID,
// or the caller's organization when OrgID is empty.
type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required,max=255"`
	Email     string  `json:"email" validate:"required,email,max=255"`
	ContactID *string `json:"contactId" validate:"omitempty,uuid"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin staff"`
	OrgID     *string `json:"orgId" validate:"omitempty,uuid"`
}

// Normalize trims the text fields. Blank optional values become nil.
func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactID = blankToNil(r.ContactID)
	r.Role = blankToNil(r.Role)
	r.OrgID = blankToNil(r.OrgID)
}

// UpdateUserRequest is a partial update. An empty contactId unlinks the contact.
type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	ContactID *string `json:"contactId" validate:"omitempty,uuid_or_empty"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin staff"`
	OrgID     *string `json:"orgId" validate:"omitempty,uuid"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Username = trimPtr(r.Username)
	r.Email = trimPtr(r.Email)
	r.ContactID = trimPtr(r.ContactID)
	r.Role = blankToNil(r.Role)
	r.OrgID = blankToNil(r.OrgID)
}

type RoleRequest struct {
	OrgID  string `json:"orgId" validate:"required,uuid"`
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=admin staff"`
}

func (r *RoleRequest) Normalize() {
	r.OrgID = strings.TrimSpace(r.OrgID)
	r.UserID = strings.TrimSpace(r.UserID)
	r.Role = strings.TrimSpace(r.Role)
}

type RoleResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserResponse struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	ContactID *string        `json:"contactId"`
	Roles     []RoleResponse `json:"roles,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func blankToNil(value *string) *string {
	trimmed := trimPtr(value)
	if trimmed == nil || *trimmed == "" {
		return nil
	}
	return trimmed
}
