package transport

import (
	"strings"
	"time"

	"fish_and_follow_backend/internal/contacts/domain"
)

// SearchRequest binds the raw query string. Every value is a string so
// malformed filters degrade to "not applied" instead of failing the bind.
type SearchRequest struct {
	Search               string `form:"search"`
	Fields               string `form:"fields"`
	Year                 string `form:"year"`
	Gender               string `form:"gender"`
	Campus               string `form:"campus"`
	Major                string `form:"major"`
	IsInterested         string `form:"isInterested"`
	FollowUpStatusNumber string `form:"followUpStatusNumber"`
	Limit                string `form:"limit"`
}

type SearchResponse struct {
	Success    bool             `json:"success"`
	Contacts   []map[string]any `json:"contacts"`
	Query      *string          `json:"query"`
	Total      int              `json:"total"`
	HasFilters bool             `json:"hasFilters"`
	Timestamp  time.Time        `json:"timestamp"`
}

type FieldsResponse struct {
	Success   bool           `json:"success"`
	Fields    []domain.Field `json:"fields"`
	Timestamp time.Time      `json:"timestamp"`
}

type ContactResponse struct {
	ID                        string     `json:"id"`
	FirstName                 string     `json:"firstName"`
	LastName                  string     `json:"lastName"`
	PhoneNumber               string     `json:"phoneNumber"`
	Email                     *string    `json:"email"`
	Campus                    string     `json:"campus"`
	Major                     string     `json:"major"`
	Year                      string     `json:"year"`
	IsInterested              bool       `json:"isInterested"`
	Gender                    string     `json:"gender"`
	FollowUpStatusNumber      *int       `json:"followUpStatusNumber"`
	FollowUpStatusDescription *string    `json:"followUpStatusDescription"`
	Notes                     *string    `json:"notes"`
	OrgID                     string     `json:"orgId"`
	CreatedAt                 *time.Time `json:"createdAt"`
	UpdatedAt                 *time.Time `json:"updatedAt"`
}

type CreateContactRequest struct {
	FirstName            string  `json:"firstName" validate:"required,max=255"`
	LastName             string  `json:"lastName" validate:"required,max=255"`
	PhoneNumber          string  `json:"phoneNumber" validate:"required,loose_phone,max=50"`
	Email                *string `json:"email" validate:"omitempty,email,max=255"`
	Campus               string  `json:"campus" validate:"required,max=255"`
	Major                string  `json:"major" validate:"required,max=255"`
	Year                 string  `json:"year" validate:"required,contact_year"`
	Gender               string  `json:"gender" validate:"required,contact_gender"`
	IsInterested         *bool   `json:"isInterested"`
	FollowUpStatusNumber *int    `json:"followUpStatusNumber" validate:"omitempty,min=1"`
	Notes                *string `json:"notes" validate:"omitempty,max=1000"`
}

// Normalize trims the text fields so validation sees the stored values.
// A blank email becomes nil.
func (r *CreateContactRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Campus = strings.TrimSpace(r.Campus)
	r.Major = strings.TrimSpace(r.Major)
	r.Year = strings.TrimSpace(r.Year)
	r.Gender = strings.TrimSpace(r.Gender)
	r.Email = trimPtr(r.Email)
	if r.Email != nil && *r.Email == "" {
		r.Email = nil
	}
}

// UpdateContactRequest is a partial update. An empty email or notes value
// clears the stored one.
type UpdateContactRequest struct {
	FirstName            *string `json:"firstName" validate:"omitempty,min=1,max=255"`
	LastName             *string `json:"lastName" validate:"omitempty,min=1,max=255"`
	PhoneNumber          *string `json:"phoneNumber" validate:"omitempty,loose_phone,max=50"`
	Email                *string `json:"email" validate:"omitempty,email_or_empty,max=255"`
	Campus               *string `json:"campus" validate:"omitempty,min=1,max=255"`
	Major                *string `json:"major" validate:"omitempty,min=1,max=255"`
	Year                 *string `json:"year" validate:"omitempty,contact_year"`
	Gender               *string `json:"gender" validate:"omitempty,contact_gender"`
	IsInterested         *bool   `json:"isInterested"`
	FollowUpStatusNumber *int    `json:"followUpStatusNumber" validate:"omitempty,min=1"`
	Notes                *string `json:"notes" validate:"omitempty,max=1000"`
}

// Normalize trims the text fields so a blank value fails min=1 instead of
// clearing a required column.
func (r *UpdateContactRequest) Normalize() {
	r.FirstName = trimPtr(r.FirstName)
	r.LastName = trimPtr(r.LastName)
	r.PhoneNumber = trimPtr(r.PhoneNumber)
	r.Email = trimPtr(r.Email)
	r.Campus = trimPtr(r.Campus)
	r.Major = trimPtr(r.Major)
	r.Year = trimPtr(r.Year)
	r.Gender = trimPtr(r.Gender)
}

// ImportContact is one candidate row of a bulk import. Rows are validated
// one by one by the service, so the struct carries no binding rules.
type ImportContact struct {
	FirstName            string  `json:"firstName"`
	LastName             string  `json:"lastName"`
	PhoneNumber          string  `json:"phoneNumber"`
	Email                *string `json:"email,omitempty"`
	Campus               string  `json:"campus"`
	Major                string  `json:"major"`
	Year                 string  `json:"year"`
	Gender               string  `json:"gender"`
	IsInterested         *bool   `json:"isInterested,omitempty"`
	FollowUpStatusNumber *int    `json:"followUpStatusNumber,omitempty"`
	Notes                *string `json:"notes,omitempty"`
}

type ImportRequest struct {
	Contacts []ImportContact `json:"contacts"`
}

type ImportError struct {
	Index   int           `json:"index"`
	Contact ImportContact `json:"contact"`
	Error   string        `json:"error"`
}

type ImportResult struct {
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []ImportError `json:"errors"`
}

type ImportJobStatus string

const (
	ImportJobPending   ImportJobStatus = "pending"
	ImportJobRunning   ImportJobStatus = "running"
	ImportJobCompleted ImportJobStatus = "completed"
	ImportJobFailed    ImportJobStatus = "failed"
)

type ImportJobResponse struct {
	JobID     string          `json:"jobId"`
	Status    ImportJobStatus `json:"status"`
	Total     int             `json:"total"`
	Result    *ImportResult   `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type StatusCount struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

type Stats struct {
	Total         int           `json:"total"`
	Interested    int           `json:"interested"`
	NotInterested int           `json:"notInterested"`
	MaleCount     int           `json:"maleCount"`
	FemaleCount   int           `json:"femaleCount"`
	ByStatus      []StatusCount `json:"byStatus"`
}

type StatsResponse struct {
	Success   bool      `json:"success"`
	Stats     Stats     `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
