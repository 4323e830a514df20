package qr

import (
	"net/http"

	"fish_and_follow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the contact form QR code.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ContactForm handles GET /api/qr/contact-form.png?size=...
func (h *Handler) ContactForm(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	png, err := h.svc.ContactFormPNG(clampSize(req.Size))
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
