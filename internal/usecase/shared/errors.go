package shared

import (
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/errs"
)

// Errors reported by both commands and queries.
var (
	ErrUserNotFound        = errs.New("user not found")
	ErrResourceNotFound    = errs.New("parking zone not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrNotReservationOwner = errs.New("reservation belongs to another user")
	ErrNotResourceOwner    = errs.New("parking zone belongs to another owner")
)

// NotFoundAs replaces a repository not-found error with sentinel and leaves other errors as they are.
func NotFoundAs(err, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, sentinel)
	}
	return err
}
