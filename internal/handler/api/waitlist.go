package api

import (
	"net/http"

	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type WaitlistHandler struct {
	cmds commands.WaitlistCommands
	q    queries.WaitlistQueries
}

func NewWaitlistHandler(cmds commands.WaitlistCommands, q queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{cmds: cmds, q: q}
}

// @Summary Join a waitlist
// @Description Joining twice keeps the original position
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.WaitlistRequest true "Zone and window"
// @Success 200 {object} resdto.WaitlistJoinResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req reqdto.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err, "Invalid request")
		return
	}
	result, err := h.cmds.Join(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWaitlistJoin(result))
}

// @Summary Leave a waitlist
// @Tags waitlist
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.WaitlistRequest true "Zone and window"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /waitlist [delete]
func (h *WaitlistHandler) Leave(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req reqdto.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err, "Invalid request")
		return
	}
	if err := h.cmds.Leave(c.Request.Context(), userID, req.ToCommand()); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary My waitlist positions
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.WaitlistStatusResponse
// @Router /waitlist/me [get]
func (h *WaitlistHandler) Mine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	items, err := h.q.MyWaitlists(c.Request.Context(), userID)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWaitlistStatuses(items))
}
