package resource

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// OperatingHours holds opening and closing times as offsets from local midnight.
// Equal offsets mean the lot never closes.
type OperatingHours struct {
	opensAt  time.Duration
	closesAt time.Duration
}

func NewOperatingHours(opensAt, closesAt time.Duration) (OperatingHours, error) {
	if opensAt < 0 || opensAt >= day || closesAt < 0 || closesAt > day {
		return OperatingHours{}, ErrInvalidOperatingHours
	}
	if closesAt < opensAt {
		return OperatingHours{}, ErrInvalidOperatingHours
	}
	return OperatingHours{opensAt: opensAt, closesAt: closesAt}, nil
}

// ParseOperatingHours accepts "HH:MM" or "HH:MM:SS" clock strings.
func ParseOperatingHours(opens, closes string) (OperatingHours, error) {
	o, err := parseClock(opens)
	if err != nil {
		return OperatingHours{}, err
	}
	c, err := parseClock(closes)
	if err != nil {
		return OperatingHours{}, err
	}
	return NewOperatingHours(o, c)
}

func (h OperatingHours) IsAllDay() bool {
	return h.opensAt == h.closesAt
}

func (h OperatingHours) Contains(start, end time.Time, loc *time.Location) bool {
	if h.IsAllDay() {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}
	s := sinceMidnight(start.In(loc))
	e := sinceMidnight(end.In(loc))
	if e == 0 && end.After(start) {
		e = day
	}
	return s >= h.opensAt && e <= h.closesAt
}

func (h OperatingHours) OpensAt() time.Duration  { return h.opensAt }
func (h OperatingHours) ClosesAt() time.Duration { return h.closesAt }

func (h OperatingHours) String() string {
	return fmt.Sprintf("%s-%s", formatClock(h.opensAt), formatClock(h.closesAt))
}

func sinceMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	return t.Sub(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

func parseClock(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOperatingHours, s)
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
