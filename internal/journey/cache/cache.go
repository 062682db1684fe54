// Package cache stores per-workspace performance snapshots in Redis.
// A nil *PerformanceCache is valid and behaves as an always-empty cache.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gtm_backend/internal/journey/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "journey:performance:"

type PerformanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient parses a redis:// or rediss:// URL.
func NewRedisClient(redisURL string, tlsInsecure bool) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if tlsInsecure {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}
	return redis.NewClient(opt), nil
}

func New(rdb *redis.Client, ttl time.Duration) *PerformanceCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PerformanceCache{rdb: rdb, ttl: ttl}
}

func key(workspaceID uuid.UUID) string {
	return keyPrefix + workspaceID.String()
}

func versionKey(workspaceID uuid.UUID) string {
	return keyPrefix + workspaceID.String() + ":version"
}

// Get returns the cached snapshot and whether it was present.
func (c *PerformanceCache) Get(ctx context.Context, workspaceID uuid.UUID) (domain.Performance, bool, error) {
	if c == nil {
		return domain.Performance{}, false, nil
	}
	raw, err := c.rdb.Get(ctx, key(workspaceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Performance{}, false, nil
	}
	if err != nil {
		return domain.Performance{}, false, err
	}

	var perf domain.Performance
	if err := json.Unmarshal(raw, &perf); err != nil {
		// unreadable entry; drop it so the next read recomputes
		_ = c.rdb.Del(ctx, key(workspaceID)).Err()
		return domain.Performance{}, false, fmt.Errorf("decode cached performance: %w", err)
	}
	return perf, true, nil
}

// Version returns the invalidation counter of a workspace. A snapshot is
// only stored while the counter still holds the value read before computing.
func (c *PerformanceCache) Version(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	if c == nil {
		return 0, nil
	}
	v, err := c.rdb.Get(ctx, versionKey(workspaceID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// SetIfVersion stores perf unless the workspace was invalidated after
// version was read. It reports whether the snapshot was written.
func (c *PerformanceCache) SetIfVersion(ctx context.Context, workspaceID uuid.UUID, perf domain.Performance, version int64) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := json.Marshal(perf)
	if err != nil {
		return false, err
	}

	stored := false
	vk := versionKey(workspaceID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(workspaceID), raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, vk)
	if errors.Is(err, redis.TxFailedErr) {
		// invalidated while storing
		return false, nil
	}
	return stored, err
}

// Invalidate drops the snapshot and bumps the version so in-flight
// computations started earlier are not stored.
func (c *PerformanceCache) Invalidate(ctx context.Context, workspaceID uuid.UUID) error {
	if c == nil {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(workspaceID))
		pipe.Incr(ctx, versionKey(workspaceID))
		return nil
	})
	return err
}
