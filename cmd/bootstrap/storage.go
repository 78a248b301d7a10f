package bootstrap

import (
	"context"
	"log/slog"

	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/infra/kv"
	"parking-reservation/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// RedisModule backs the resource lock and the waitlist store.
var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, err
	}
	closeOnStop(lc, logger, "PostgreSQL", cleanup)
	return pool, nil
}

func NewRedis(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*redis.Client, error) {
	client, cleanup, err := kv.Connect(context.Background(), cfg.Redis, logger)
	if err != nil {
		return nil, err
	}
	closeOnStop(lc, logger, "Redis", cleanup)
	return client, nil
}

func closeOnStop(lc fx.Lifecycle, logger *slog.Logger, name string, cleanup func()) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup == nil {
				return nil
			}
			logger.Info(name + "接続をクローズします")
			cleanup()
			return nil
		},
	})
}
