package bootstrap

import (
	"context"
	"log/slog"

	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"
	"parking-reservation/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(startSweeper),
)

func NewSweeper(expiry commands.ExpiryCommands, locker shared.Locker, cfg config.Config, logger *slog.Logger) *worker.Sweeper {
	return worker.NewSweeper(expiry, locker, cfg.Sweeper, logger)
}

func startSweeper(lc fx.Lifecycle, sweeper *worker.Sweeper, cfg config.Config, logger *slog.Logger) {
	if !cfg.Sweeper.Enabled {
		logger.Info("スイーパーは無効化されています")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				sweeper.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
				logger.Warn("スイーパーの停止がタイムアウトしました")
			}
			return nil
		},
	})
}
