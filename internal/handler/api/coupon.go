package api

import (
	"net/http"

	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	cmds commands.CouponCommands
	q    queries.CouponQueries
}

func NewCouponHandler(cmds commands.CouponCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary Issue a coupon from a promotion
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Promotion ID"
// @Success 201 {object} resdto.CouponIssueResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /promotions/{id}/coupons [post]
func (h *CouponHandler) Issue(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	promotionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rm, err := h.cmds.IssueCoupon(c.Request.Context(), userID, promotionID)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCouponIssueRM(rm))
}

// @Summary My coupons
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param status query string false "ISSUED, USED or EXPIRED"
// @Success 200 {array} resdto.CouponIssueResponse
// @Failure 400 {object} httperr.Response
// @Router /coupons/me [get]
func (h *CouponHandler) Mine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var query reqdto.CouponListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortInvalidRequest(c, err, "Invalid query")
		return
	}
	items, err := h.q.MyCoupons(c.Request.Context(), userID, query.Status)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponIssues(items))
}
