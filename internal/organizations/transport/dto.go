package transport

import "time"

type OrganizationRequest struct {
	Name     string `json:"name" validate:"max=255"`
	Country  string `json:"country" validate:"max=255"`
	Strategy string `json:"strategy" validate:"max=255"`
}

type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Strategy  string    `json:"strategy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
