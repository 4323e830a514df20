// Package followup manages the follow-up pipeline statuses that contacts move through.
package followup

import (
	"context"

	"fish_and_follow_backend/internal/followup/cache"
	"fish_and_follow_backend/internal/followup/handler"
	"fish_and_follow_backend/internal/followup/repository"
	"fish_and_follow_backend/internal/followup/service"
	apphttp "fish_and_follow_backend/internal/http"
	"fish_and_follow_backend/platform/config"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the module. redisClient may be nil, which disables caching.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, val *validator.Validator, cfg config.FollowUpConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)

	var statusCache service.Cache
	if redisClient != nil {
		statusCache = cache.NewRedisCache(redisClient, cfg.GetFollowUpCacheTTL())
	}

	svc := service.New(repo, statusCache, log)
	return &Module{handler: handler.New(svc, val), service: svc}
}

// Service exposes status lookups for the contacts module.
func (m *Module) Service() *service.Service {
	return m.service
}

// Seed creates the default pipeline on an empty database.
func (m *Module) Seed(ctx context.Context) error {
	return m.service.SeedDefaults(ctx)
}

func (m *Module) Name() string {
	return "followup"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/follow-up-status")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
