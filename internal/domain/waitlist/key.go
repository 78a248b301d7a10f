package waitlist

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	KeyPrefix = "reservation:queue:"

	windowLayout = "200601021504"
)

var (
	ErrInvalidKey    = errors.New("invalid waitlist key")
	ErrInvalidWindow = errors.New("waitlist window must end after it starts")
)

// Key identifies one waitlist: a zone and an exact reservation window.
type Key struct {
	resourceID uuid.UUID
	start      time.Time
	end        time.Time
}

func NewKey(resourceID uuid.UUID, start, end time.Time) (Key, error) {
	if !start.Before(end) {
		return Key{}, ErrInvalidWindow
	}
	return Key{
		resourceID: resourceID,
		start:      start.Truncate(time.Minute),
		end:        end.Truncate(time.Minute),
	}, nil
}

// String renders reservation:queue:<resourceID>:<yyyyMMddHHmm>-<yyyyMMddHHmm> in loc.
func (k Key) String(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("%s%s:%s-%s",
		KeyPrefix,
		k.resourceID.String(),
		k.start.In(loc).Format(windowLayout),
		k.end.In(loc).Format(windowLayout),
	)
}

func ParseKey(s string, loc *time.Location) (Key, error) {
	if loc == nil {
		loc = time.UTC
	}
	rest, ok := strings.CutPrefix(s, KeyPrefix)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	idPart, window, ok := strings.Cut(rest, ":")
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	resourceID, err := uuid.Parse(idPart)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	startPart, endPart, ok := strings.Cut(window, "-")
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	start, err := time.ParseInLocation(windowLayout, startPart, loc)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	end, err := time.ParseInLocation(windowLayout, endPart, loc)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return NewKey(resourceID, start, end)
}

// HasElapsed is true once the whole window lies in the past.
func (k Key) HasElapsed(now time.Time) bool {
	return now.After(k.end)
}

func (k Key) ResourceID() uuid.UUID { return k.resourceID }
func (k Key) Start() time.Time      { return k.start }
func (k Key) End() time.Time        { return k.end }
