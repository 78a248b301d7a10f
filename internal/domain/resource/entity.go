package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName     = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong   = errors.New("resource name is too long (max 255 characters)")
	ErrNegativeHourlyPrice   = errors.New("hourly price cannot be negative")
	ErrInvalidStatus         = errors.New("invalid resource status")
	ErrInvalidOperatingHours = errors.New("invalid operating hours")
	ErrResourceUnavailable   = errors.New("resource is not available")
	ErrOutsideOperatingHours = errors.New("requested window is outside operating hours")
)

const (
	MaxResourceNameLength = 255
)

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusUnavailable Status = "UNAVAILABLE"
)

func (s Status) IsValid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

// Resource is the read-only catalog view of a parking zone together with
// the opening hours and price of the lot it belongs to.
type Resource struct {
	id          uuid.UUID
	name        string
	status      Status
	hours       OperatingHours
	hourlyPrice int64
	ownerID     uuid.UUID
}

func NewResource(
	id uuid.UUID,
	name string,
	status Status,
	hours OperatingHours,
	hourlyPrice int64,
	ownerID uuid.UUID,
) (*Resource, error) {
	if err := validateResourceName(name); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if hourlyPrice < 0 {
		return nil, ErrNegativeHourlyPrice
	}

	return &Resource{
		id:          id,
		name:        strings.TrimSpace(name),
		status:      status,
		hours:       hours,
		hourlyPrice: hourlyPrice,
		ownerID:     ownerID,
	}, nil
}

func (r *Resource) IsAvailable() bool {
	return r.status == StatusAvailable
}

// IsOpenDuring reports whether [start, end) falls inside the opening hours on the local clock of loc.
func (r *Resource) IsOpenDuring(start, end time.Time, loc *time.Location) bool {
	return r.hours.Contains(start, end, loc)
}

func (r *Resource) IsOwnedBy(userID uuid.UUID) bool {
	return r.ownerID == userID
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID         { return r.id }
func (r *Resource) Name() string          { return r.name }
func (r *Resource) Status() Status        { return r.status }
func (r *Resource) Hours() OperatingHours { return r.hours }
func (r *Resource) HourlyPrice() int64    { return r.hourlyPrice }
func (r *Resource) OwnerID() uuid.UUID    { return r.ownerID }
