//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/api"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/tests/common/httptest"
	commandsmock "parking-reservation/tests/mock/commands"
	queriesmock "parking-reservation/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CouponHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCouponCommands
	mockQueries  *queriesmock.MockCouponQueries
	userID       uuid.UUID
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCouponQueries(s.mockCtrl)
	h := api.NewCouponHandler(s.mockCommands, s.mockQueries)

	s.userID = uuid.New()
	auth := func(c *gin.Context) {
		middleware.SetActor(c, s.userID, user.RoleDriver)
		c.Next()
	}
	s.router.POST("/promotions/:id/coupons", auth, h.Issue)
	s.router.GET("/coupons/me", auth, h.Mine)
}

func (s *CouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

func couponRM(userID, promotionID uuid.UUID) *readmodel.CouponIssueRM {
	issued := time.Date(2030, 5, 1, 0, 0, 0, 0, kst)
	return &readmodel.CouponIssueRM{
		ID:            uuid.New(),
		PromotionID:   promotionID,
		UserID:        userID,
		DiscountType:  string(coupon.DiscountFixed),
		DiscountValue: 2000,
		IssuedAt:      issued,
		ExpiresAt:     issued.AddDate(0, 1, 0),
		Status:        string(coupon.IssueStatusIssued),
	}
}

func (s *CouponHandlerTestSuite) TestIssue() {
	promotionID := uuid.New()
	url := "/promotions/" + promotionID.String() + "/coupons"

	s.Run("success: 201 Created", func() {
		rm := couponRM(s.userID, promotionID)
		s.mockCommands.EXPECT().IssueCoupon(gomock.Any(), s.userID, promotionID).Return(rm, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var body resdto.CouponIssueResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(rm.ID, body.ID)
		s.Equal("FIXED", body.DiscountType)
		s.Equal(int64(2000), body.DiscountValue)
		s.Nil(body.UsedAt)
	})

	s.Run("error: 400 on malformed promotion id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/promotions/nope/coupons", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: maps issuance errors", func() {
		testCases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "limit reached", err: coupon.ErrQuantityExceeded, status: http.StatusConflict, code: "QUANTITY_EXCEEDED"},
			{name: "per user limit", err: coupon.ErrAlreadyIssued, status: http.StatusConflict, code: "ALREADY_ISSUED"},
			{name: "promotion ended", err: coupon.ErrPromotionNotActive, status: http.StatusUnprocessableEntity, code: "PROMOTION_NOT_ACTIVE"},
			{name: "unknown promotion", err: commands.ErrPromotionNotFound, status: http.StatusNotFound, code: "PROMOTION_NOT_FOUND"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().IssueCoupon(gomock.Any(), s.userID, promotionID).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})
}

func (s *CouponHandlerTestSuite) TestMine() {
	s.Run("success: forwards the status filter", func() {
		items := []*readmodel.CouponIssueRM{couponRM(s.userID, uuid.New())}
		s.mockQueries.EXPECT().MyCoupons(gomock.Any(), s.userID, "ISSUED").Return(items, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons/me?status=ISSUED", nil, "")

		var body []*resdto.CouponIssueResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 1)
	})

	s.Run("error: 400 for an unknown status", func() {
		s.mockQueries.EXPECT().MyCoupons(gomock.Any(), s.userID, "LOST").Return(nil, queries.ErrInvalidCouponStatus)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/coupons/me?status=LOST", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid coupon status")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, api.CodeInvalidRequest)
	})
}
