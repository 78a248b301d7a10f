//go:build unit || e2e

package builder

import (
	"time"

	"parking-reservation/internal/domain/user"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID        uuid.UUID
	Role      string
	IsActive  bool
	CreatedAt time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:        uuid.New(),
		Role:      string(user.RoleDriver),
		IsActive:  true,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}
	return user.ReconstructUser(u.ID, role, u.IsActive, u.CreatedAt)
}

// MustBuild panics on invalid input; use it only with fixtures known to be valid.
func (u *UserBuilder) MustBuild() *user.User {
	built, err := u.BuildDomain()
	if err != nil {
		panic(err)
	}
	return built
}

func (u *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	u.ID = id
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
