// Package redisclient builds the shared go-redis client from configuration.
// This is part of the platform layer and contains no business logic.
package redisclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"fish_and_follow_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// New parses REDIS_URL, applies REDIS_TLS_INSECURE and verifies the
// connection with a ping.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return client, nil
}

// Options returns the parsed client options without connecting.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.GetRedisURL() == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.GetRedisTLSInsecure() {
		if opts.TLSConfig == nil {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opts.TLSConfig.InsecureSkipVerify = true
	}

	return opts, nil
}
