// Package users manages the user directory and per-organization roles.
package users

import (
	apphttp "fish_and_follow_backend/internal/http"
	"fish_and_follow_backend/internal/users/handler"
	"fish_and_follow_backend/internal/users/repository"
	"fish_and_follow_backend/internal/users/service"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, val, log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "users"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterUserRoutes(ctx.Protected.Group("/users"))
	m.handler.RegisterRoleRoutes(ctx.Protected.Group("/roles"))
}

var _ apphttp.Module = (*Module)(nil)
