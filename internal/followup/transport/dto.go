package transport

type CreateStatusRequest struct {
	Number      int    `json:"number" validate:"required,min=1"`
	Description string `json:"description" validate:"required,max=255"`
}

type UpdateStatusRequest struct {
	Description string `json:"description" validate:"required,max=255"`
}

type StatusResponse struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}
