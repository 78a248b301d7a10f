package api

import (
	"net/http"

	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	admission commands.AdmissionCommands
	cmds      commands.ReservationCommands
	q         queries.ReservationQueries
}

func NewReservationHandler(admission commands.AdmissionCommands, cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{admission: admission, cmds: cmds, q: q}
}

// @Summary Request a reservation
// @Description Creates a PENDING reservation, or queues the requester when the window is already held
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.AdmissionResponse
// @Success 202 {object} resdto.AdmissionResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err, "Invalid request")
		return
	}

	result, err := h.admission.Admit(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	if result.Outcome == commands.OutcomeQueued {
		c.JSON(http.StatusAccepted, resdto.FromAdmissionResult(result))
		return
	}
	c.Header("Location", "/api/reservations/"+result.Reservation.ID.String())
	c.JSON(http.StatusCreated, resdto.FromAdmissionResult(result))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	userID, role, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rm, err := h.q.GetByID(c.Request.Context(), userID, role, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationRM(rm))
}

// @Summary List my reservations
// @Description Newest first, keyset paginated
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Cursor from the previous page"
// @Param limit query int false "Page size (1-200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var query reqdto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortInvalidRequest(c, err, "Invalid query")
		return
	}
	items, next, err := h.q.ListMine(c.Request.Context(), userID, &queries.Cursor{After: query.Cursor}, query.Limit)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationList(items, next))
}

// @Summary List reservations for a parking zone
// @Description Zone owner or staff only
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Parking zone ID"
// @Param cursor query string false "Cursor from the previous page"
// @Param limit query int false "Page size (1-200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/reservations [get]
func (h *ReservationHandler) ListForResource(c *gin.Context) {
	userID, role, ok := requireActor(c)
	if !ok {
		return
	}
	resourceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var query reqdto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortInvalidRequest(c, err, "Invalid query")
		return
	}
	items, next, err := h.q.ListForResource(c.Request.Context(), userID, role, resourceID, &queries.Cursor{After: query.Cursor}, query.Limit)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationList(items, next))
}

// @Summary Cancel reservation
// @Description Requester only, until the cancel cutoff before start
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rm, err := h.cmds.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationRM(rm))
}

// @Summary Complete reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/complete [post]
func (h *ReservationHandler) Complete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rm, err := h.cmds.Complete(c.Request.Context(), userID, id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationRM(rm))
}
