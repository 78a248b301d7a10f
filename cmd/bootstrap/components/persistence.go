package components

import (
	"log/slog"
	"time"

	"parking-reservation/internal/infra/lock"
	"parking-reservation/internal/infra/queue"
	"parking-reservation/internal/infra/readstore"
	"parking-reservation/internal/infra/uow"
	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
	coordinationModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
			fx.As(new(queries.CouponReadStore)),
		),
		fx.Annotate(
			NewCatalogReadStore,
			fx.As(new(queries.ResourceLookup)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork hands out per-transaction repositories
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

var coordinationModule = fx.Module("persistence/coordination",
	fx.Provide(
		fx.Annotate(
			NewRedisLocker,
			fx.As(new(shared.Locker)),
		),
		fx.Annotate(
			NewWaitlistStore,
			fx.As(new(shared.WaitlistStore)),
		),
	),
)

func NewReservationReadStore(pool *pgxpool.Pool) *readstore.ReservationReadStore {
	return readstore.NewReservationReadStore(pool)
}

func NewCatalogReadStore(pool *pgxpool.Pool) *readstore.CatalogReadStore {
	return readstore.NewCatalogReadStore(pool)
}

func NewRedisLocker(client *redis.Client, cfg config.Config) *lock.RedisLocker {
	return lock.NewRedisLocker(client, cfg.Lock)
}

func NewWaitlistStore(client *redis.Client, loc *time.Location, logger *slog.Logger) *queue.RedisStore {
	return queue.NewRedisStore(client, loc, logger)
}
