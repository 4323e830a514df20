// Package contacts wires the contact CRM: search, CRUD, import, export and stats.
package contacts

import (
	"fish_and_follow_backend/internal/contacts/handler"
	"fish_and_follow_backend/internal/contacts/repository"
	"fish_and_follow_backend/internal/contacts/service"
	apphttp "fish_and_follow_backend/internal/http"
	"fish_and_follow_backend/platform/config"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, statuses service.StatusCatalog, val *validator.Validator, cfg config.ContactsConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, statuses, val, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// SetImportJobs enables asynchronous imports backed by Redis and the task queue.
func (m *Module) SetImportJobs(store service.JobStore, enqueuer service.ImportEnqueuer) {
	m.service.SetImportJobs(store, enqueuer)
}

// Service exposes the contact service for background workers.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "contacts"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/contacts")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
