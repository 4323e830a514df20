package scheduler

import (
	"context"
	"fmt"

	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/config"
	"fish_and_follow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ImportRunner processes a stored contact import job.
type ImportRunner interface {
	RunImportJob(ctx context.Context, jobID uuid.UUID) error
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner ImportRunner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, runner ImportRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		runner: runner,
		log:    log,
	}

	mux.HandleFunc(TaskContactImport, w.handleContactImport)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleContactImport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseContactImportPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("%w: invalid job id %q", asynq.SkipRetry, payload.JobID)
	}

	if err := w.runner.RunImportJob(ctx, jobID); err != nil {
		// Expired or unknown jobs will not reappear.
		if apperr.Is(err, apperr.KindNotFound) {
			w.log.Warn("contact import job missing", "jobId", jobID, "error", err)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		w.log.Error("contact import job failed", "jobId", jobID, "error", err)
		return err
	}

	w.log.Info("contact import job completed", "jobId", jobID)
	return nil
}
