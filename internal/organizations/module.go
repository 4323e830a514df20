// Package organizations manages the tenants that own contacts.
package organizations

import (
	apphttp "fish_and_follow_backend/internal/http"
	"fish_and_follow_backend/internal/organizations/handler"
	"fish_and_follow_backend/internal/organizations/repository"
	"fish_and_follow_backend/internal/organizations/service"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "organizations"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/organizations")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
