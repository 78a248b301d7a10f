package bootstrap

import (
	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/pkg/jwt"
	"parking-reservation/internal/usecase"

	"go.uber.org/fx"
)

// AuthModule verifies bearer tokens minted by the external identity provider.
var AuthModule = fx.Module("auth",
	fx.Provide(
		NewJWTService,
		usecase.NewTokenValidator,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Duration, cfg.JWT.Leeway)
}
