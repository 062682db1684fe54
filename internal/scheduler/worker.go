package scheduler

import (
	"context"
	"fmt"

	"gtm_backend/platform/config"
	"gtm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// PerformanceRefresher recomputes and stores a workspace's performance snapshot.
type PerformanceRefresher interface {
	RefreshPerformance(ctx context.Context, workspaceID uuid.UUID) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher PerformanceRefresher
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, refresher PerformanceRefresher, log *logger.Logger) (*Worker, error) {
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

	w := &Worker{
		server:    server,
		mux:       asynq.NewServeMux(),
		refresher: refresher,
		log:       log,
	}
	w.mux.HandleFunc(TaskPerformanceRefresh, w.handlePerformanceRefresh)

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

func (w *Worker) handlePerformanceRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePerformanceRefreshPayload(task)
	if err != nil {
		// a payload that cannot be parsed will never succeed
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	workspaceID := uuid.MustParse(payload.WorkspaceID)
	if err := w.refresher.RefreshPerformance(ctx, workspaceID); err != nil {
		w.log.WithWorkspaceID(payload.WorkspaceID).TaskFailed(TaskPerformanceRefresh, err)
		return err
	}
	return nil
}
