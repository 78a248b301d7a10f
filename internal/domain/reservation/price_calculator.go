package reservation

// Quote is the price breakdown of one reservation.
type Quote struct {
	original Money
	discount Money
	final    Money
}

func NewQuote(original, discount Money) (Quote, error) {
	if discount.Amount() > original.Amount() {
		return Quote{}, ErrDiscountExceedsPrice
	}
	final, err := original.Sub(discount)
	if err != nil {
		return Quote{}, err
	}
	return Quote{original: original, discount: discount, final: final}, nil
}

func (q Quote) Original() Money { return q.original }
func (q Quote) Discount() Money { return q.discount }
func (q Quote) Final() Money    { return q.final }

type PriceCalculator interface {
	OriginalPrice(slot TimeSlot, hourlyPrice Money) (Money, error)
}

type HourlyPriceCalculator struct{}

func NewHourlyPriceCalculator() *HourlyPriceCalculator {
	return &HourlyPriceCalculator{}
}

func (HourlyPriceCalculator) OriginalPrice(slot TimeSlot, hourlyPrice Money) (Money, error) {
	return hourlyPrice.Times(slot.Hours())
}
