//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/tests/common/dbtest"
	"parking-reservation/tests/common/httptest"
	"parking-reservation/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	reservationsURL = "/api/reservations"
	waitlistMeURL   = "/api/waitlist/me"
	issueCouponURL  = "/api/promotions/%s/coupons"
	confirmURL      = "/api/payments/reservations/%s/confirm"
)

type ReservationSuite struct {
	e2e.SharedSuite
}

func (s *ReservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

// tomorrow at hour in the reservation time zone
func (s *ReservationSuite) tomorrowAt(hour int) time.Time {
	loc, err := s.Config.Reservation.Location()
	s.Require().NoError(err)
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, loc)
}

type zoneFixture struct {
	zoneID   uuid.UUID
	driverA  uuid.UUID
	driverB  uuid.UUID
	tokenA   string
	tokenB   string
	operator string
}

func (s *ReservationSuite) setupZone(t *testing.T) zoneFixture {
	owner := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleOwner))
	f := zoneFixture{
		zoneID:  dbtest.CreateTestZone(t, s.DB, owner, "Z1", "09:00", "18:00", 2000),
		driverA: dbtest.CreateTestUser(t, s.DB, "a@example.com", string(user.RoleDriver)),
		driverB: dbtest.CreateTestUser(t, s.DB, "b@example.com", string(user.RoleDriver)),
	}
	operatorID := dbtest.CreateTestUser(t, s.DB, "ops@example.com", string(user.RoleOperator))
	f.tokenA = s.JWT.GenerateToken(t, f.driverA, user.RoleDriver)
	f.tokenB = s.JWT.GenerateToken(t, f.driverB, user.RoleDriver)
	f.operator = s.JWT.GenerateToken(t, operatorID, user.RoleOperator)
	return f
}

// =============================================================================
// TestAdmission - reservation request, waitlist fallback and coupon pricing
// =============================================================================

func (s *ReservationSuite) TestAdmission() {
	s.Run("Normal case: coupon priced reservation, second requester is queued", func() {
		t := s.T()
		f := s.setupZone(t)
		promotionID := dbtest.CreateTestPromotion(t, s.DB, "FIXED", 2000, 10, 1)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(issueCouponURL, promotionID), nil, f.tokenA)
		var issue response.CouponIssueResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &issue)
		require.Equal(t, "ISSUED", issue.Status)

		req := request.CreateReservationRequest{
			ResourceID:    f.zoneID,
			StartTime:     s.tomorrowAt(9),
			EndTime:       s.tomorrowAt(12),
			CouponIssueID: &issue.ID,
		}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenA)
		var created response.AdmissionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)

		want := response.ReservationResponse{
			UserID:        f.driverA,
			ResourceID:    f.zoneID,
			ResourceName:  "Z1",
			OriginalPrice: 6000,
			DiscountPrice: 2000,
			TotalPrice:    4000,
			CouponIssueID: &issue.ID,
			Status:        "PENDING",
		}
		require.Equal(t, string(commands.OutcomeCreated), created.Outcome)
		if diff := cmp.Diff(want, *created.Reservation,
			cmpopts.IgnoreFields(response.ReservationResponse{}, "ID", "StartTime", "EndTime", "CreatedAt", "UpdatedAt"),
		); diff != "" {
			t.Errorf("reservation mismatch (-want +got):\n%s", diff)
		}
		require.True(t, created.Reservation.StartTime.Equal(req.StartTime))

		req.CouponIssueID = nil
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenB)
		var queued response.AdmissionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusAccepted, &queued)
		require.Equal(t, string(commands.OutcomeQueued), queued.Outcome)
		require.Equal(t, 1, queued.Waitlist.Position)
		require.Nil(t, queued.Reservation)
		require.Equal(t, 1, dbtest.CountReservations(t, s.DB, f.zoneID))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, waitlistMeURL, nil, f.tokenB)
		var mine []response.WaitlistStatusResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &mine)
		require.Len(t, mine, 1)
		require.Equal(t, f.zoneID, mine[0].ResourceID)
	})

	s.Run("Error case: same requester asking twice is a duplicate", func() {
		t := s.T()
		f := s.setupZone(t)
		req := request.CreateReservationRequest{ResourceID: f.zoneID, StartTime: s.tomorrowAt(10), EndTime: s.tomorrowAt(11)}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenA)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, nil)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenA)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "overlapping")
	})

	s.Run("Error case: window outside operating hours", func() {
		t := s.T()
		f := s.setupZone(t)
		req := request.CreateReservationRequest{ResourceID: f.zoneID, StartTime: s.tomorrowAt(17), EndTime: s.tomorrowAt(19)}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenA)
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "operating hours")
	})
}

// =============================================================================
// TestLifecycle - cancel frees the window, operator confirms payment
// =============================================================================

func (s *ReservationSuite) TestLifecycle() {
	s.Run("Normal case: cancel frees the window and records a notification job", func() {
		t := s.T()
		f := s.setupZone(t)
		req := request.CreateReservationRequest{ResourceID: f.zoneID, StartTime: s.tomorrowAt(9), EndTime: s.tomorrowAt(11)}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenA)
		var created response.AdmissionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		id := created.Reservation.ID

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+id.String()+"/cancel", nil, f.tokenB)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+id.String()+"/cancel", nil, f.tokenA)
		var canceled response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &canceled)
		require.Equal(t, "CANCELED", canceled.Status)
		require.Equal(t, 1, dbtest.CountJobs(t, s.DB, commands.JobKindReservationCanceled))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenB)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, nil)
	})

	s.Run("Normal case: operator confirms payment, drivers cannot", func() {
		t := s.T()
		f := s.setupZone(t)
		req := request.CreateReservationRequest{ResourceID: f.zoneID, StartTime: s.tomorrowAt(13), EndTime: s.tomorrowAt(14)}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, req, f.tokenA)
		var created response.AdmissionResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		url := fmt.Sprintf(confirmURL, created.Reservation.ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, f.tokenA)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, f.operator)
		var confirmed response.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &confirmed)
		require.Equal(t, "CONFIRMED", confirmed.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, f.tokenA)
		var list response.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &list)
		require.Len(t, list.Items, 1)
		require.Nil(t, list.NextCursor)
	})

	s.Run("Error case: expired token is rejected", func() {
		t := s.T()
		token := s.JWT.CreateExpiredToken(t, uuid.New(), user.RoleDriver)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired token")
	})
}
