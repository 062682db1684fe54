package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"gtm_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// refreshDelay coalesces bursts of changes into one recomputation.
const refreshDelay = 5 * time.Second

type Client struct {
	client *asynq.Client
	queue  string
}

// PerformanceRefreshEnqueuer schedules a recomputation of a workspace's
// performance snapshot.
type PerformanceRefreshEnqueuer interface {
	EnqueuePerformanceRefresh(ctx context.Context, workspaceID uuid.UUID) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueuePerformanceRefresh is a no-op on a nil client. A refresh already
// pending for the workspace absorbs the request.
func (c *Client) EnqueuePerformanceRefresh(ctx context.Context, workspaceID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewPerformanceRefreshTask(PerformanceRefreshPayload{WorkspaceID: workspaceID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(performanceRefreshTaskID(workspaceID)),
		asynq.ProcessIn(refreshDelay),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}

var _ PerformanceRefreshEnqueuer = (*Client)(nil)
