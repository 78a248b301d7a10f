package bootstrap

import (
	"time"

	"parking-reservation/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewLocation,
	),
)

// NewLocation is the zone calendar days, operating hours and waitlist keys are evaluated in.
func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Reservation.Location()
}
