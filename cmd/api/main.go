package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fish_and_follow_backend/internal/contacts"
	"fish_and_follow_backend/internal/contacts/importjobs"
	"fish_and_follow_backend/internal/followup"
	apphttp "fish_and_follow_backend/internal/http"
	"fish_and_follow_backend/internal/http/router"
	"fish_and_follow_backend/internal/organizations"
	"fish_and_follow_backend/internal/qr"
	"fish_and_follow_backend/internal/scheduler"
	"fish_and_follow_backend/internal/users"
	"fish_and_follow_backend/platform/config"
	"fish_and_follow_backend/platform/db"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/redisclient"
	"fish_and_follow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	redisClient := initRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	followUpModule := followup.NewModule(pool, redisClient, val, cfg, log)
	if err := followUpModule.Seed(ctx); err != nil {
		log.Error("failed to seed follow-up statuses", "error", err)
		panic("failed to seed follow-up statuses: " + err.Error())
	}

	contactsModule := contacts.NewModule(pool, followUpModule.Service(), val, cfg, log)
	if closeScheduler := initImportJobs(cfg, redisClient, contactsModule, log); closeScheduler != nil {
		defer closeScheduler()
	}

	organizationsModule := organizations.NewModule(pool, val, log)
	usersModule := users.NewModule(pool, val, log)
	qrModule := qr.NewModule(cfg, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			contactsModule,
			followUpModule,
			organizationsModule,
			usersModule,
			qrModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; status cache and background imports disabled")
		return nil
	}

	client, err := redisclient.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis; continuing without it", "error", err)
		return nil
	}
	log.Info("redis connection established")
	return client
}

func initImportJobs(cfg *config.Config, redisClient *redis.Client, contactsModule *contacts.Module, log *logger.Logger) func() {
	if redisClient == nil {
		return nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil
	}

	contactsModule.SetImportJobs(importjobs.NewStore(redisClient, cfg.GetImportJobTTL()), client)
	return func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
