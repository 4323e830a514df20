// Package cache keeps the full follow-up status list in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fish_and_follow_backend/internal/followup/repository"

	"github.com/redis/go-redis/v9"
)

const statusesKey = "followup:statuses"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached list. The boolean is false on a cache miss.
func (c *RedisCache) Get(ctx context.Context) ([]repository.Status, bool, error) {
	data, err := c.client.Get(ctx, statusesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read status cache: %w", err)
	}

	var statuses []repository.Status
	if err := json.Unmarshal(data, &statuses); err != nil {
		return nil, false, fmt.Errorf("decode status cache: %w", err)
	}
	return statuses, true, nil
}

func (c *RedisCache) Set(ctx context.Context, statuses []repository.Status) error {
	data, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("encode status cache: %w", err)
	}
	if err := c.client.Set(ctx, statusesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write status cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, statusesKey).Err(); err != nil {
		return fmt.Errorf("invalidate status cache: %w", err)
	}
	return nil
}
