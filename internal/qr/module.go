// Package qr renders the QR code that leads to the public contact form.
package qr

import (
	apphttp "fish_and_follow_backend/internal/http"
	"fish_and_follow_backend/platform/config"
	"fish_and_follow_backend/platform/logger"
)

// Module wires the QR code HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.PublicURLConfig, log *logger.Logger) *Module {
	svc := NewService(cfg.GetAppBaseURL(), log)
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "qr"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/qr")
	group.GET("/contact-form.png", m.handler.ContactForm)
}

var _ apphttp.Module = (*Module)(nil)
