//go:build unit || e2e

package builder

import (
	"time"

	"parking-reservation/internal/domain/resource"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	ID          uuid.UUID
	Name        string
	Status      resource.Status
	OpensAt     time.Duration
	ClosesAt    time.Duration
	HourlyPrice int64
	OwnerID     uuid.UUID
}

// NewResourceBuilder defaults to an available zone open 09:00-18:00 at 1000 per hour.
func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:          uuid.New(),
		Name:        "Z1",
		Status:      resource.StatusAvailable,
		OpensAt:     9 * time.Hour,
		ClosesAt:    18 * time.Hour,
		HourlyPrice: 1000,
		OwnerID:     uuid.New(),
	}
}

func (r *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(r)
	return r
}

func (r *ResourceBuilder) BuildDomain() (*resource.Resource, error) {
	hours, err := resource.NewOperatingHours(r.OpensAt, r.ClosesAt)
	if err != nil {
		return nil, err
	}
	return resource.NewResource(r.ID, r.Name, r.Status, hours, r.HourlyPrice, r.OwnerID)
}

func (r *ResourceBuilder) MustBuild() *resource.Resource {
	built, err := r.BuildDomain()
	if err != nil {
		panic(err)
	}
	return built
}

func (r *ResourceBuilder) WithOwner(ownerID uuid.UUID) *ResourceBuilder {
	r.OwnerID = ownerID
	return r
}

func (r *ResourceBuilder) WithHours(opensAt, closesAt time.Duration) *ResourceBuilder {
	r.OpensAt = opensAt
	r.ClosesAt = closesAt
	return r
}

func (r *ResourceBuilder) WithHourlyPrice(price int64) *ResourceBuilder {
	r.HourlyPrice = price
	return r
}

func (r *ResourceBuilder) AsUnavailable() *ResourceBuilder {
	r.Status = resource.StatusUnavailable
	return r
}
