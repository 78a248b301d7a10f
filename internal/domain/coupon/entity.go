package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCouponAlreadyUsed    = errors.New("coupon has already been used")
	ErrCouponNotUsed        = errors.New("coupon is not in use")
	ErrInvalidIssueStatus   = errors.New("invalid coupon issue status")
	ErrInvalidIssueState    = errors.New("used_at must be set if and only if the issue is used")
	ErrInvalidIssuePeriod   = errors.New("coupon expiry must be after issuance")
	ErrIssueStatusForbidden = errors.New("coupon issue status transition not allowed")
)

// Issue is one coupon granted to one user. It can be consumed at most once.
type Issue struct {
	id          uuid.UUID
	promotionID uuid.UUID
	userID      uuid.UUID
	discount    Discount
	issuedAt    time.Time
	expiresAt   time.Time
	usedAt      *time.Time
	status      IssueStatus
}

func NewIssue(p *Promotion, userID uuid.UUID, now time.Time) *Issue {
	return &Issue{
		id:          uuid.New(),
		promotionID: p.ID(),
		userID:      userID,
		discount:    p.Discount(),
		issuedAt:    now,
		expiresAt:   now.AddDate(0, 0, p.ValidDays()),
		status:      IssueStatusIssued,
	}
}

func ReconstructIssue(
	id, promotionID, userID uuid.UUID,
	discount Discount,
	issuedAt, expiresAt time.Time,
	usedAt *time.Time,
	status IssueStatus,
) (*Issue, error) {
	if !status.IsValid() {
		return nil, ErrInvalidIssueStatus
	}
	if (usedAt != nil) != (status == IssueStatusUsed) {
		return nil, ErrInvalidIssueState
	}
	if !expiresAt.After(issuedAt) {
		return nil, ErrInvalidIssuePeriod
	}
	return &Issue{
		id:          id,
		promotionID: promotionID,
		userID:      userID,
		discount:    discount,
		issuedAt:    issuedAt,
		expiresAt:   expiresAt,
		usedAt:      usedAt,
		status:      status,
	}, nil
}

func (i *Issue) IsOwnedBy(userID uuid.UUID) bool {
	return i.userID == userID
}

func (i *Issue) IsExpiredAt(now time.Time) bool {
	return now.After(i.expiresAt)
}

// ValidateUsable checks usage before expiry so a consumed coupon always reports ErrCouponAlreadyUsed.
func (i *Issue) ValidateUsable(now time.Time) error {
	if i.status == IssueStatusUsed {
		return ErrCouponAlreadyUsed
	}
	if i.status == IssueStatusExpired || i.IsExpiredAt(now) {
		return ErrCouponExpired
	}
	return nil
}

func (i *Issue) Use(now time.Time) error {
	if err := i.ValidateUsable(now); err != nil {
		return err
	}
	i.status = IssueStatusUsed
	i.usedAt = &now
	return nil
}

func (i *Issue) CancelUsage() error {
	if i.status != IssueStatusUsed {
		return ErrCouponNotUsed
	}
	i.status = IssueStatusIssued
	i.usedAt = nil
	return nil
}

func (i *Issue) Expire(now time.Time) error {
	if !i.status.CanTransitionTo(IssueStatusExpired) {
		return ErrIssueStatusForbidden
	}
	if !i.IsExpiredAt(now) {
		return ErrIssueStatusForbidden
	}
	i.status = IssueStatusExpired
	return nil
}

// DiscountFor is the amount taken off price when this issue is applied.
func (i *Issue) DiscountFor(price int64) int64 {
	return i.discount.AmountFor(price)
}

func (i *Issue) ID() uuid.UUID          { return i.id }
func (i *Issue) PromotionID() uuid.UUID { return i.promotionID }
func (i *Issue) UserID() uuid.UUID      { return i.userID }
func (i *Issue) Discount() Discount     { return i.discount }
func (i *Issue) IssuedAt() time.Time    { return i.issuedAt }
func (i *Issue) ExpiresAt() time.Time   { return i.expiresAt }
func (i *Issue) UsedAt() *time.Time     { return i.usedAt }
func (i *Issue) Status() IssueStatus    { return i.status }
