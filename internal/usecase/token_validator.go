package usecase

import (
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/jwt"

	"github.com/google/uuid"
)

// ErrUnauthenticated marks every rejected bearer token, whatever the underlying cause.
var ErrUnauthenticated = errs.New("unauthenticated")

// TokenValidator resolves a bearer token to the acting user and role.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, user.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", errs.Mark(err, ErrUnauthenticated)
	}

	// a role this service does not know is treated like a bad signature
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", errs.Mark(errs.Wrapf(err, "role claim %q", claims.Role), ErrUnauthenticated)
	}

	return claims.UserID, role, nil
}
