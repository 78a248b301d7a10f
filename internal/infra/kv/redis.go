package kv

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"parking-reservation/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Connect builds the shared client used by the lock and waitlist stores and pings it once.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis connection established", "addr", cfg.Addr)

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err.Error())
		}
	}
	return client, cleanup, nil
}
