package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity snapshot this service reads. Accounts are managed elsewhere.
type User struct {
	id        uuid.UUID
	role      Role
	isActive  bool
	createdAt time.Time
}

func ReconstructUser(id uuid.UUID, role Role, isActive bool, createdAt time.Time) (*User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &User{
		id:        id,
		role:      role,
		isActive:  isActive,
		createdAt: createdAt,
	}, nil
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Role() Role           { return u.role }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
