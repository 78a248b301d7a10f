package api

import (
	"net/http"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeLockTimeout    = "LOCK_TIMEOUT"
	CodeInternal       = "INTERNAL"

	// seconds a client should wait before resubmitting after LOCK_TIMEOUT
	lockRetryAfter = "1"
)

type errorMapping struct {
	target error
	status int
	code   string
	msg    string
}

// first match wins, so more specific sentinels go first
var errorTable = []errorMapping{
	{shared.ErrLockTimeout, http.StatusConflict, CodeLockTimeout, "Zone is busy, retry shortly"},

	{shared.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "User not found"},
	{shared.ErrResourceNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Parking zone not found"},
	{shared.ErrReservationNotFound, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found"},
	{commands.ErrCouponNotFound, http.StatusNotFound, "COUPON_NOT_FOUND", "Coupon not found"},
	{commands.ErrPromotionNotFound, http.StatusNotFound, "PROMOTION_NOT_FOUND", "Promotion not found"},
	{commands.ErrNotInWaitlist, http.StatusNotFound, "NOT_IN_WAITLIST", "Not in this waitlist"},

	{shared.ErrNotReservationOwner, http.StatusForbidden, "NOT_YOUR_RESERVATION", "Reservation belongs to another user"},
	{shared.ErrNotResourceOwner, http.StatusForbidden, "NOT_YOUR_ZONE", "Parking zone belongs to another owner"},
	{commands.ErrNotYourCoupon, http.StatusForbidden, "NOT_YOUR_COUPON", "Coupon belongs to another user"},

	{reservation.ErrInvalidTimeRange, http.StatusBadRequest, "INVALID_TIME_RANGE", "Invalid time range"},
	{waitlist.ErrInvalidWindow, http.StatusBadRequest, "INVALID_TIME_RANGE", "Invalid time range"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, CodeInvalidRequest, "Invalid cursor"},
	{queries.ErrInvalidCouponStatus, http.StatusBadRequest, CodeInvalidRequest, "Invalid coupon status"},

	{commands.ErrDuplicateSelfReservation, http.StatusConflict, "DUPLICATE_SELF_RESERVATION", "You already hold an overlapping reservation"},
	{coupon.ErrCouponAlreadyUsed, http.StatusConflict, "ALREADY_USED", "Coupon has already been used"},
	{coupon.ErrQuantityExceeded, http.StatusConflict, "QUANTITY_EXCEEDED", "Promotion issuance limit reached"},
	{coupon.ErrAlreadyIssued, http.StatusConflict, "ALREADY_ISSUED", "Coupon already issued to this user"},
	{reservation.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION", "Reservation cannot change to that status"},
	{reservation.ErrCancelWindowClosed, http.StatusConflict, "CANCEL_WINDOW_CLOSED", "Reservation can no longer be canceled"},

	{resource.ErrResourceUnavailable, http.StatusUnprocessableEntity, "RESOURCE_UNAVAILABLE", "Parking zone is not available"},
	{resource.ErrOutsideOperatingHours, http.StatusUnprocessableEntity, "OUTSIDE_OPERATING_HOURS", "Requested window is outside operating hours"},
	{coupon.ErrCouponExpired, http.StatusUnprocessableEntity, "EXPIRED_COUPON", "Coupon has expired"},
	{coupon.ErrPromotionNotActive, http.StatusUnprocessableEntity, "PROMOTION_NOT_ACTIVE", "Promotion is not active"},
}

// abortWithUseCaseError maps use-case and domain sentinels to a status and code.
// Anything unknown is a 500.
func abortWithUseCaseError(c *gin.Context, err error) {
	for _, m := range errorTable {
		if !errs.Is(err, m.target) {
			continue
		}
		if m.code == CodeLockTimeout {
			c.Header("Retry-After", lockRetryAfter)
		}
		httperr.AbortWithCode(c, m.status, err, m.msg, m.code)
		return
	}
	httperr.AbortWithCode(c, http.StatusInternalServerError, err, "Internal server error", CodeInternal)
}

func abortInvalidRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithCode(c, http.StatusBadRequest, err, msg, CodeInvalidRequest)
}
