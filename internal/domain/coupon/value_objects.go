package coupon

import (
	"errors"
)

var (
	ErrInvalidDiscountType    = errors.New("invalid discount type")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
)

type DiscountType string

const (
	DiscountFixed   DiscountType = "FIXED"
	DiscountPercent DiscountType = "PERCENT"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountFixed || t == DiscountPercent
}

// Discount is the coupon snapshot copied onto every issue.
type Discount struct {
	kind  DiscountType
	value int64
}

func NewFixedDiscount(amount int64) (Discount, error) {
	if amount < 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: DiscountFixed, value: amount}, nil
}

func NewPercentageDiscount(percent int64) (Discount, error) {
	if percent < 0 || percent > 100 {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{kind: DiscountPercent, value: percent}, nil
}

func NewDiscount(kind string, value int64) (Discount, error) {
	switch DiscountType(kind) {
	case DiscountFixed:
		return NewFixedDiscount(value)
	case DiscountPercent:
		return NewPercentageDiscount(value)
	default:
		return Discount{}, ErrInvalidDiscountType
	}
}

func (d Discount) Type() DiscountType { return d.kind }
func (d Discount) Value() int64       { return d.value }

func (d Discount) IsPercentage() bool {
	return d.kind == DiscountPercent
}

func (d Discount) IsFixed() bool {
	return d.kind == DiscountFixed
}

// AmountFor returns the discount for price. Fixed discounts are capped at the price,
// percentages truncate toward zero.
func (d Discount) AmountFor(price int64) int64 {
	if price <= 0 {
		return 0
	}
	if d.IsPercentage() {
		return price * d.value / 100
	}
	if d.value > price {
		return price
	}
	return d.value
}
