//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the identity provider does, using the shared secret.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, h.cfg.Duration, h.cfg.Leeway)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	// expired well past any validation leeway
	service := jwt.NewService(h.cfg.Secret, h.cfg.Issuer, -time.Hour, 0)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}
