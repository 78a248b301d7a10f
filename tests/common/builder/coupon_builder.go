//go:build unit || e2e

package builder

import (
	"time"

	"parking-reservation/internal/domain/coupon"

	"github.com/google/uuid"
)

type PromotionBuilder struct {
	ID            uuid.UUID
	Name          string
	DiscountType  string
	DiscountValue int64
	LimitTotal    int
	LimitPerUser  int
	StartAt       time.Time
	EndAt         time.Time
	ValidDays     int
	Status        coupon.PromotionStatus
}

func NewPromotionBuilder() *PromotionBuilder {
	return &PromotionBuilder{
		ID:            uuid.New(),
		Name:          "Spring 10%",
		DiscountType:  string(coupon.DiscountPercent),
		DiscountValue: 10,
		LimitTotal:    100,
		LimitPerUser:  1,
		StartAt:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndAt:         time.Date(2035, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidDays:     30,
		Status:        coupon.PromotionStatusActive,
	}
}

func (p *PromotionBuilder) With(mutate func(*PromotionBuilder)) *PromotionBuilder {
	mutate(p)
	return p
}

func (p *PromotionBuilder) BuildDomain() (*coupon.Promotion, error) {
	discount, err := coupon.NewDiscount(p.DiscountType, p.DiscountValue)
	if err != nil {
		return nil, err
	}
	return coupon.NewPromotion(coupon.PromotionParams{
		ID:           p.ID,
		Name:         p.Name,
		Discount:     discount,
		LimitTotal:   p.LimitTotal,
		LimitPerUser: p.LimitPerUser,
		StartAt:      p.StartAt,
		EndAt:        p.EndAt,
		ValidDays:    p.ValidDays,
		Status:       p.Status,
	})
}

func (p *PromotionBuilder) MustBuild() *coupon.Promotion {
	built, err := p.BuildDomain()
	if err != nil {
		panic(err)
	}
	return built
}

func (p *PromotionBuilder) WithLimits(total, perUser int) *PromotionBuilder {
	p.LimitTotal = total
	p.LimitPerUser = perUser
	return p
}

// RunningAt opens the promotion a day before now and closes it a day after.
func (p *PromotionBuilder) RunningAt(now time.Time) *PromotionBuilder {
	p.StartAt = now.AddDate(0, 0, -1)
	p.EndAt = now.AddDate(0, 0, 1)
	return p
}

func (p *PromotionBuilder) WithFixedDiscount(amount int64) *PromotionBuilder {
	p.DiscountType = string(coupon.DiscountFixed)
	p.DiscountValue = amount
	return p
}

type IssueBuilder struct {
	ID            uuid.UUID
	PromotionID   uuid.UUID
	UserID        uuid.UUID
	DiscountType  string
	DiscountValue int64
	IssuedAt      time.Time
	ExpiresAt     time.Time
	UsedAt        *time.Time
	Status        coupon.IssueStatus
}

func NewIssueBuilder() *IssueBuilder {
	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &IssueBuilder{
		ID:            uuid.New(),
		PromotionID:   uuid.New(),
		UserID:        uuid.New(),
		DiscountType:  string(coupon.DiscountPercent),
		DiscountValue: 10,
		IssuedAt:      issuedAt,
		ExpiresAt:     issuedAt.AddDate(10, 0, 0),
		Status:        coupon.IssueStatusIssued,
	}
}

func (i *IssueBuilder) With(mutate func(*IssueBuilder)) *IssueBuilder {
	mutate(i)
	return i
}

func (i *IssueBuilder) BuildDomain() (*coupon.Issue, error) {
	discount, err := coupon.NewDiscount(i.DiscountType, i.DiscountValue)
	if err != nil {
		return nil, err
	}
	return coupon.ReconstructIssue(i.ID, i.PromotionID, i.UserID, discount, i.IssuedAt, i.ExpiresAt, i.UsedAt, i.Status)
}

func (i *IssueBuilder) MustBuild() *coupon.Issue {
	built, err := i.BuildDomain()
	if err != nil {
		panic(err)
	}
	return built
}

func (i *IssueBuilder) OwnedBy(userID uuid.UUID) *IssueBuilder {
	i.UserID = userID
	return i
}

func (i *IssueBuilder) ExpiringAt(t time.Time) *IssueBuilder {
	i.ExpiresAt = t
	return i
}

func (i *IssueBuilder) AsUsed(at time.Time) *IssueBuilder {
	i.Status = coupon.IssueStatusUsed
	i.UsedAt = &at
	return i
}
