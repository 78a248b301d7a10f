package reservation

import (
	"fmt"
	"time"
)

type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, fmt.Errorf("%w: start time must be before end time", ErrInvalidTimeRange)
	}
	return TimeSlot{start: start, end: end}, nil
}

// NewRequestedSlot validates a window submitted by a requester: it must start in the future,
// stay within one calendar day of loc and cover an exact number of hours.
func NewRequestedSlot(start, end, now time.Time, loc *time.Location) (TimeSlot, error) {
	slot, err := NewTimeSlot(start, end)
	if err != nil {
		return TimeSlot{}, err
	}
	if !start.After(now) {
		return TimeSlot{}, fmt.Errorf("%w: start time must be in the future", ErrInvalidTimeRange)
	}
	if !slot.IsSameDay(loc) {
		return TimeSlot{}, fmt.Errorf("%w: reservation must start and end on the same day", ErrInvalidTimeRange)
	}
	if slot.Duration()%time.Hour != 0 {
		return TimeSlot{}, fmt.Errorf("%w: reservation must cover whole hours", ErrInvalidTimeRange)
	}
	return slot, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

func (ts TimeSlot) Hours() int64 {
	return int64(ts.Duration() / time.Hour)
}

func (ts TimeSlot) IsSameDay(loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	sy, sm, sd := ts.start.In(loc).Date()
	ey, em, ed := ts.end.In(loc).Date()
	return sy == ey && sm == em && sd == ed
}

// Overlaps uses half-open intervals, so back-to-back slots do not collide.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && ts.end.After(other.start)
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("[%s,%s)", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

// Money is an amount in the smallest currency unit.
type Money struct {
	amount int64
}

func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{amount: amount}, nil
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.amount - other.amount)
}

func (m Money) Times(n int64) (Money, error) {
	return NewMoney(m.amount * n)
}

func (m Money) IsZero() bool {
	return m.amount == 0
}
