package components

import (
	"log/slog"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		reservation.NewHourlyPriceCalculator,
		fx.As(new(reservation.PriceCalculator)),
	),
	reservation.NewFactory,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewAdmissionCommands,
		NewReservationCommands,
		NewExpiryCommands,
		commands.NewWaitlistUseCase,
		commands.NewCouponUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewWaitlistQueries,
		queries.NewCouponQueries,
	),
)

func NewAdmissionCommands(
	uow shared.UnitOfWork,
	locker shared.Locker,
	store shared.WaitlistStore,
	factory *reservation.Factory,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) commands.AdmissionCommands {
	return commands.NewAdmissionUseCase(uow, locker, store, factory, clk, cfg.Lock.TTL, logger)
}

func NewReservationCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config, logger *slog.Logger) commands.ReservationCommands {
	return commands.NewReservationUseCase(uow, clk, cfg.Reservation.CancelCutoff, logger)
}

func NewExpiryCommands(uow shared.UnitOfWork, store shared.WaitlistStore, clk clock.Clock, cfg config.Config, logger *slog.Logger) commands.ExpiryCommands {
	return commands.NewExpiryUseCase(uow, store, clk, paymentTimeout(cfg), cfg.Sweeper.BatchSize, logger)
}

func paymentTimeout(cfg config.Config) time.Duration {
	if cfg.Reservation.PaymentTimeout > 0 {
		return cfg.Reservation.PaymentTimeout
	}
	return 10 * time.Minute
}
