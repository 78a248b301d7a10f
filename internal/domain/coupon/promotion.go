package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPromotionName   = errors.New("promotion name cannot be empty")
	ErrInvalidLimit         = errors.New("issuance limits must be positive")
	ErrInvalidValidDays     = errors.New("valid days after issue must be positive")
	ErrInvalidPromotionTerm = errors.New("promotion must end after it starts")
	ErrInvalidPromotionStat = errors.New("invalid promotion status")
	ErrPromotionNotActive   = errors.New("promotion is not active")
	ErrQuantityExceeded     = errors.New("promotion issuance limit reached")
	ErrAlreadyIssued        = errors.New("per-user issuance limit reached")
)

type Promotion struct {
	id           uuid.UUID
	name         string
	discount     Discount
	limitTotal   int
	limitPerUser int
	startAt      time.Time
	endAt        time.Time
	validDays    int
	status       PromotionStatus
}

type PromotionParams struct {
	ID           uuid.UUID
	Name         string
	Discount     Discount
	LimitTotal   int
	LimitPerUser int
	StartAt      time.Time
	EndAt        time.Time
	ValidDays    int
	Status       PromotionStatus
}

func NewPromotion(p PromotionParams) (*Promotion, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrEmptyPromotionName
	}
	if p.LimitTotal <= 0 || p.LimitPerUser <= 0 {
		return nil, ErrInvalidLimit
	}
	if p.ValidDays <= 0 {
		return nil, ErrInvalidValidDays
	}
	if !p.EndAt.After(p.StartAt) {
		return nil, ErrInvalidPromotionTerm
	}
	if !p.Status.IsValid() {
		return nil, ErrInvalidPromotionStat
	}
	return &Promotion{
		id:           p.ID,
		name:         strings.TrimSpace(p.Name),
		discount:     p.Discount,
		limitTotal:   p.LimitTotal,
		limitPerUser: p.LimitPerUser,
		startAt:      p.StartAt,
		endAt:        p.EndAt,
		validDays:    p.ValidDays,
		status:       p.Status,
	}, nil
}

func (p *Promotion) IsActiveAt(now time.Time) bool {
	return p.status == PromotionStatusActive && !now.Before(p.startAt) && now.Before(p.endAt)
}

// CheckIssuable must see counts taken while the promotion row is locked.
func (p *Promotion) CheckIssuable(now time.Time, issuedTotal, issuedForUser int) error {
	if !p.IsActiveAt(now) {
		return ErrPromotionNotActive
	}
	if issuedTotal >= p.limitTotal {
		return ErrQuantityExceeded
	}
	if issuedForUser >= p.limitPerUser {
		return ErrAlreadyIssued
	}
	return nil
}

func (p *Promotion) ID() uuid.UUID           { return p.id }
func (p *Promotion) Name() string            { return p.name }
func (p *Promotion) Discount() Discount      { return p.discount }
func (p *Promotion) LimitTotal() int         { return p.limitTotal }
func (p *Promotion) LimitPerUser() int       { return p.limitPerUser }
func (p *Promotion) StartAt() time.Time      { return p.startAt }
func (p *Promotion) EndAt() time.Time        { return p.endAt }
func (p *Promotion) ValidDays() int          { return p.validDays }
func (p *Promotion) Status() PromotionStatus { return p.status }
