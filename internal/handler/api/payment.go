package api

import (
	"net/http"

	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// PaymentHandler receives results from the payment provider, relayed by an operator credential.
type PaymentHandler struct {
	cmds commands.ReservationCommands
}

func NewPaymentHandler(cmds commands.ReservationCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Confirm payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/reservations/{id}/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rm, err := h.cmds.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationRM(rm))
}

// @Summary Fail payment
// @Description Cancels the reservation and restores its coupon
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/reservations/{id}/fail [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rm, err := h.cmds.FailPayment(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationRM(rm))
}
