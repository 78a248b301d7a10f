//go:build unit

package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/handler/api"
	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"
	"parking-reservation/tests/common/httptest"
	"parking-reservation/tests/common/testutil"
	commandsmock "parking-reservation/tests/mock/commands"
	queriesmock "parking-reservation/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var kst = time.FixedZone("KST", 9*60*60)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockAdmission *commandsmock.MockAdmissionCommands
	mockCommands  *commandsmock.MockReservationCommands
	mockQueries   *queriesmock.MockReservationQueries
	handler       *api.ReservationHandler

	actorID   uuid.UUID
	actorRole user.Role
}

func (s *ReservationHandlerTestSuite) SetupSuite() {
	s.Require().NoError(reqdto.RegisterValidations())
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAdmission = commandsmock.NewMockAdmissionCommands(s.mockCtrl)
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockAdmission, s.mockCommands, s.mockQueries)

	s.actorID = uuid.New()
	s.actorRole = user.RoleDriver

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		middleware.SetActor(c, s.actorID, s.actorRole)
		c.Next()
	}

	s.router.POST("/reservations", authMiddleware, s.handler.Create)
	s.router.GET("/reservations", authMiddleware, s.handler.ListMine)
	s.router.GET("/reservations/:id", authMiddleware, s.handler.Get)
	s.router.POST("/reservations/:id/cancel", authMiddleware, s.handler.Cancel)
	s.router.POST("/reservations/:id/complete", authMiddleware, s.handler.Complete)
	s.router.GET("/resources/:id/reservations", authMiddleware, s.handler.ListForResource)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func reservationRM(userID uuid.UUID) *readmodel.ReservationRM {
	start := time.Date(2030, 6, 1, 9, 0, 0, 0, kst)
	return &readmodel.ReservationRM{
		ID:            uuid.New(),
		UserID:        userID,
		ResourceID:    uuid.New(),
		ResourceName:  "Z1",
		StartTime:     start,
		EndTime:       start.Add(3 * time.Hour),
		OriginalPrice: 6000,
		DiscountPrice: 2000,
		TotalPrice:    4000,
		Status:        string(reservation.StatusPending),
		CreatedAt:     start.Add(-24 * time.Hour),
		UpdatedAt:     start.Add(-24 * time.Hour),
	}
}

func createRequest() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ResourceID: uuid.New(),
		StartTime:  time.Date(2030, 6, 1, 9, 0, 0, 0, kst),
		EndTime:    time.Date(2030, 6, 1, 12, 0, 0, 0, kst),
	}
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := "/reservations"
	reqBody := createRequest()

	s.Run("success: 201 Created with Location for a new reservation", func() {
		rm := reservationRM(s.actorID)
		s.mockAdmission.EXPECT().Admit(gomock.Any(), s.actorID, gomock.Any()).
			Return(&commands.AdmissionResult{Outcome: commands.OutcomeCreated, Reservation: rm}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.AdmissionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("CREATED", body.Outcome)
		s.Equal(rm.ID, body.Reservation.ID)
		s.Equal(int64(4000), body.Reservation.TotalPrice)
		s.Nil(body.Waitlist)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/reservations/" + rm.ID.String()})
	})

	s.Run("success: 202 Accepted with the waitlist position when queued", func() {
		status := &readmodel.WaitlistStatusRM{ResourceID: reqBody.ResourceID, StartTime: reqBody.StartTime, EndTime: reqBody.EndTime, Position: 2, Size: 2}
		s.mockAdmission.EXPECT().Admit(gomock.Any(), s.actorID, gomock.Any()).
			Return(&commands.AdmissionResult{Outcome: commands.OutcomeQueued, Join: waitlist.Joined, Waitlist: status}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.AdmissionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusAccepted, &body)
		s.Equal("QUEUED", body.Outcome)
		s.Equal("JOINED", body.Join)
		s.Nil(body.Reservation)
		s.Equal(2, body.Waitlist.Position)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: resourceId", mutate: testutil.Field("resourceId", nil)},
			{name: "missing field: startTime", mutate: testutil.Field("startTime", nil)},
			{name: "missing field: endTime", mutate: testutil.Field("endTime", nil)},
			{name: "end before start", mutate: testutil.Field("endTime", "2030-06-01T08:00:00+09:00")},
			{name: "start not minute aligned", mutate: testutil.Field("startTime", "2030-06-01T09:00:30+09:00")},
			{name: "malformed coupon id", mutate: testutil.Field("couponIssueId", "not-a-uuid")},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps admission errors to statuses and codes", func() {
		testCases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "lock timeout", err: errs.Wrap(shared.ErrLockTimeout, "zone lock"), status: http.StatusConflict, code: api.CodeLockTimeout},
			{name: "self duplicate", err: commands.ErrDuplicateSelfReservation, status: http.StatusConflict, code: "DUPLICATE_SELF_RESERVATION"},
			{name: "coupon already used", err: coupon.ErrCouponAlreadyUsed, status: http.StatusConflict, code: "ALREADY_USED"},
			{name: "coupon expired", err: coupon.ErrCouponExpired, status: http.StatusUnprocessableEntity, code: "EXPIRED_COUPON"},
			{name: "outside operating hours", err: resource.ErrOutsideOperatingHours, status: http.StatusUnprocessableEntity, code: "OUTSIDE_OPERATING_HOURS"},
			{name: "zone unavailable", err: resource.ErrResourceUnavailable, status: http.StatusUnprocessableEntity, code: "RESOURCE_UNAVAILABLE"},
			{name: "invalid time range", err: fmt.Errorf("%w: start time must be in the future", reservation.ErrInvalidTimeRange), status: http.StatusBadRequest, code: "INVALID_TIME_RANGE"},
			{name: "zone not found", err: shared.ErrResourceNotFound, status: http.StatusNotFound, code: "RESOURCE_NOT_FOUND"},
			{name: "coupon not found", err: commands.ErrCouponNotFound, status: http.StatusNotFound, code: "COUPON_NOT_FOUND"},
			{name: "not your coupon", err: commands.ErrNotYourCoupon, status: http.StatusForbidden, code: "NOT_YOUR_COUPON"},
			{name: "unexpected failure", err: errors.New("database error"), status: http.StatusInternalServerError, code: api.CodeInternal},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockAdmission.EXPECT().Admit(gomock.Any(), s.actorID, gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *ReservationHandlerTestSuite) TestGet() {
	s.Run("success: returns the reservation", func() {
		rm := reservationRM(s.actorID)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, user.RoleDriver, rm.ID).Return(rm, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+rm.ID.String(), nil, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(rm.ID, body.ID)
		s.Equal("Z1", body.ResourceName)
		s.Equal(int64(6000), body.OriginalPrice)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/abc", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 403 when another user's reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, user.RoleDriver, gomock.Any()).Return(nil, shared.ErrNotReservationOwner)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+uuid.NewString(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "another user")
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actorID, user.RoleDriver, gomock.Any()).Return(nil, shared.ErrReservationNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+uuid.NewString(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Reservation not found")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *ReservationHandlerTestSuite) TestListMine() {
	s.Run("success: passes cursor and limit through and returns the next cursor", func() {
		items := []*readmodel.ReservationRM{reservationRM(s.actorID), reservationRM(s.actorID)}
		s.mockQueries.EXPECT().
			ListMine(gomock.Any(), s.actorID, &queries.Cursor{After: "abc"}, 2).
			Return(items, &queries.Cursor{After: "next"}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?cursor=abc&limit=2", nil, "bearer-token")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 2)
		s.Require().NotNil(body.NextCursor)
		s.Equal("next", *body.NextCursor)
	})

	s.Run("error: 400 when limit is out of range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?limit=500", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: 400 on a corrupt cursor", func() {
		s.mockQueries.EXPECT().ListMine(gomock.Any(), s.actorID, gomock.Any(), 0).Return(nil, nil, queries.ErrInvalidCursor)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?cursor=zzz", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cursor")
	})
}

func (s *ReservationHandlerTestSuite) TestListForResource() {
	s.Run("success: zone owner sees the zone's reservations", func() {
		s.actorRole = user.RoleOwner
		zoneID := uuid.New()
		s.mockQueries.EXPECT().
			ListForResource(gomock.Any(), s.actorID, user.RoleOwner, zoneID, gomock.Any(), 0).
			Return([]*readmodel.ReservationRM{reservationRM(uuid.New())}, nil, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/"+zoneID.String()+"/reservations", nil, "bearer-token")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 1)
		s.Nil(body.NextCursor)
	})

	s.Run("error: 403 for another owner's zone", func() {
		s.mockQueries.EXPECT().
			ListForResource(gomock.Any(), s.actorID, gomock.Any(), gomock.Any(), gomock.Any(), 0).
			Return(nil, nil, shared.ErrNotResourceOwner)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/"+uuid.NewString()+"/reservations", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "another owner")
	})
}

// ================================================================================
// TestCancel / TestComplete
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCancel() {
	s.Run("success: returns the canceled reservation", func() {
		rm := reservationRM(s.actorID)
		rm.Status = string(reservation.StatusCanceled)
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actorID, rm.ID).Return(rm, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+rm.ID.String()+"/cancel", nil, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("CANCELED", body.Status)
	})

	s.Run("error: maps lifecycle errors", func() {
		testCases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "cutoff passed", err: reservation.ErrCancelWindowClosed, status: http.StatusConflict, code: "CANCEL_WINDOW_CLOSED"},
			{name: "already canceled", err: reservation.ErrInvalidTransition, status: http.StatusConflict, code: "INVALID_TRANSITION"},
			{name: "not the requester", err: shared.ErrNotReservationOwner, status: http.StatusForbidden, code: "NOT_YOUR_RESERVATION"},
			{name: "missing", err: shared.ErrReservationNotFound, status: http.StatusNotFound, code: "RESERVATION_NOT_FOUND"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actorID, gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+uuid.NewString()+"/cancel", nil, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestComplete() {
	rm := reservationRM(s.actorID)
	rm.Status = string(reservation.StatusCompleted)
	s.mockCommands.EXPECT().Complete(gomock.Any(), s.actorID, rm.ID).Return(rm, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/"+rm.ID.String()+"/complete", nil, "bearer-token")

	var body resdto.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal("COMPLETED", body.Status)
}
