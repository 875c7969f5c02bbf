//go:build unit

package api_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/api"
	"parking-reservation/internal/handler/validation"
	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/shared"
	"parking-reservation/tests/common/builder"
	"parking-reservation/tests/common/httptest"
	"parking-reservation/tests/common/testutil"
	commandsmock "parking-reservation/tests/mock/commands"
	queriesmock "parking-reservation/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	cmds     *commandsmock.MockReservationCommands
	charges  *commandsmock.MockChargeCommands
	q        *queriesmock.MockReservationQueries
	overstay *queriesmock.MockOverstayQueries
	actor    shared.Actor
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(validation.Register())
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.cmds = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.charges = commandsmock.NewMockChargeCommands(s.mockCtrl)
	s.q = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.overstay = queriesmock.NewMockOverstayQueries(s.mockCtrl)
	s.actor = shared.Actor{UserID: uuid.New(), Role: user.RoleDriver}

	h := api.NewReservationHandler(s.cmds, s.charges, s.q, s.overstay)
	g := s.router.Group("/reservations", func(c *gin.Context) {
		// stands in for RequireAuth
		c.Set("user_id", s.actor.UserID)
		c.Set("user_role", s.actor.Role)
	})
	g.POST("", h.CreateReservation)
	g.GET("", h.GetUserReservations)
	g.POST("/redeem", h.Redeem)
	g.GET("/:id", h.GetReservation)
	g.POST("/:id/cancel", h.CancelReservation)
	g.POST("/:id/checkout", h.CheckOut)
	g.GET("/:id/overstay", h.Overstay)
	g.POST("/:id/additional-charge", h.AdditionalCharge)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) TestCreateReservation() {
	url := "/reservations"
	b := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.UserID = s.actor.UserID })
	reqBody := b.BuildCreateRequestDTO()

	s.Run("success: 201 Created", func() {
		s.cmds.EXPECT().Create(gomock.Any(), gomock.Any(), s.actor, (*uuid.UUID)(nil)).
			Return(&commands.CreateReservationResult{Reservation: b.BuildDomain()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.ReservationEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(b.ID, response.Reservation.ID)
		s.Equal("confirmed", response.Reservation.Status)
		s.Equal(105.0, response.Reservation.Price)
		s.False(response.Replayed)
	})

	s.Run("success: replay keeps 201 and flags the response", func() {
		key := uuid.New()
		s.cmds.EXPECT().Create(gomock.Any(), gomock.Any(), s.actor, &key).
			Return(&commands.CreateReservationResult{Reservation: b.BuildDomain(), IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "",
			map[string]string{api.IdempotencyKeyHeader: key.String()})

		var response resdto.ReservationEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.True(response.Replayed)
	})

	s.Run("error: 400 when Idempotency-Key is not a UUID", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "",
			map[string]string{api.IdempotencyKeyHeader: "not-a-uuid"})
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 400 on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing parkingSpotId", mutate: testutil.Field("parkingSpotId", nil)},
			{name: "missing startTime", mutate: testutil.Field("startTime", nil)},
			{name: "malformed endTime", mutate: testutil.Field("endTime", "tomorrow")},
			{name: "negative price", mutate: testutil.Field("price", -1)},
			{name: "blank paymentId", mutate: testutil.Field("paymentId", "  ")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "")
				httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
			})
		}
	})

	s.Run("error: maps usecase errors", func() {
		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "conflict", err: errs.Mark(errors.New("overlap"), commands.ErrReservationConflict), status: http.StatusConflict, code: "CONFLICT"},
			{name: "spot unavailable", err: errs.Mark(errors.New("paused"), commands.ErrSpotUnavailable), status: http.StatusConflict, code: "SPOT_UNAVAILABLE"},
			{name: "invalid window", err: errs.Mark(reservation.ErrInvalidWindow, commands.ErrInvalidWindow), status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
			{name: "price mismatch", err: commands.ErrPriceMismatch, status: http.StatusBadRequest, code: "VALIDATION_ERROR"},
			{name: "spot not found", err: commands.ErrSpotNotFound, status: http.StatusNotFound, code: "NOT_FOUND"},
			{name: "duplicate request", err: commands.ErrDuplicateRequest, status: http.StatusConflict, code: "CONFLICT"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.cmds.EXPECT().Create(gomock.Any(), gomock.Any(), s.actor, gomock.Any()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorCode(s.T(), rec, tc.status, tc.code)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestCreateReservation_WindowViolations() {
	reqBody := builder.NewReservationBuilder().BuildCreateRequestDTO()

	s.Run("error: 400 lists every broken window rule", func() {
		policy := reservation.NewWindowPolicy(24*time.Hour, 30*24*time.Hour)
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		_, verr := policy.Validate(now.Add(-3*time.Hour), now.Add(-4*time.Hour), now)
		s.Require().Error(verr)

		s.cmds.EXPECT().Create(gomock.Any(), gomock.Any(), s.actor, gomock.Any()).
			Return(nil, errs.Mark(verr, commands.ErrInvalidWindow)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", reqBody, "")
		body := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")

		s.Contains(body.Error.Message, "start time must be before end time")
		s.Contains(body.Error.Message, "end time must be in the future")

		var detail struct {
			Violations []string `json:"violations"`
		}
		s.Require().NoError(json.Unmarshal(body.Detail, &detail))
		s.Equal([]string{"start time must be before end time", "end time must be in the future"}, detail.Violations)
	})

	s.Run("error: 400 names the duration rule", func() {
		_, verr := reservation.NewWindowPolicy(0, 0).Validate(
			time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		)
		s.Require().Error(verr)

		s.cmds.EXPECT().Create(gomock.Any(), gomock.Any(), s.actor, gomock.Any()).
			Return(nil, errs.Mark(verr, commands.ErrInvalidWindow)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations", reqBody, "")
		body := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
		s.Contains(body.Error.Message, "duration must not exceed 24 hours")
	})
}

func (s *ReservationHandlerTestSuite) TestGetReservation() {
	view := builder.NewReservationBuilder().BuildView()

	s.Run("success: 200 OK", func() {
		s.q.EXPECT().GetByID(gomock.Any(), view.ID, s.actor).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "")

		var response resdto.ReservationEnvelope
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.SpotNumber, response.Reservation.SpotNumber)
		s.Equal(view.LocationName, response.Reservation.LocationName)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/not-a-uuid", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 403 for another driver's booking", func() {
		s.q.EXPECT().GetByID(gomock.Any(), view.ID, s.actor).Return(nil, queries.ErrReservationAccess).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "FORBIDDEN")
	})
}

func (s *ReservationHandlerTestSuite) TestGetUserReservations() {
	items := []*queries.ReservationListItem{builder.NewReservationBuilder().BuildListItem()}

	s.Run("success: passes cursor and limit through", func() {
		next := &queries.Cursor{After: "next-page"}
		s.q.EXPECT().ListByUser(gomock.Any(), s.actor, &queries.Cursor{After: "abc"}, 5).Return(items, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?limit=5&after=abc", nil, "")

		var response resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
		s.Require().NotNil(response.NextCursor)
		s.Equal("next-page", *response.NextCursor)
	})

	s.Run("success: first page without cursor", func() {
		s.q.EXPECT().ListByUser(gomock.Any(), s.actor, (*queries.Cursor)(nil), 0).Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations", nil, "")

		var response resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response.Items)
		s.Nil(response.NextCursor)
	})

	s.Run("error: 400 when limit is out of range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?limit=500", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 400 on a broken cursor", func() {
		s.q.EXPECT().ListByUser(gomock.Any(), s.actor, gomock.Any(), 0).
			Return(nil, nil, errs.Mark(errors.New("decode"), queries.ErrInvalidCursor)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?after=%25%25", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})
}

func (s *ReservationHandlerTestSuite) TestTransitions() {
	res := builder.NewReservationBuilder().BuildDomain()

	s.Run("cancel: 200 OK", func() {
		s.cmds.EXPECT().Cancel(gomock.Any(), res.ID(), s.actor).Return(res, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, fmt.Sprintf("/reservations/%s/cancel", res.ID()), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("cancel: 409 after the start time", func() {
		s.cmds.EXPECT().Cancel(gomock.Any(), res.ID(), s.actor).
			Return(nil, errs.Mark(reservation.ErrAlreadyStarted, commands.ErrInvalidTransition)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, fmt.Sprintf("/reservations/%s/cancel", res.ID()), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "CONFLICT")
	})

	s.Run("checkout: 200 OK", func() {
		s.cmds.EXPECT().CheckOut(gomock.Any(), res.ID(), s.actor).Return(res, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, fmt.Sprintf("/reservations/%s/checkout", res.ID()), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("redeem: 400 on a malformed token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/redeem", reqdto.RedeemRequest{QRToken: "short"}, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("redeem: 409 outside the redeem window", func() {
		req := reqdto.RedeemRequest{QRToken: res.QRToken()}
		s.cmds.EXPECT().Redeem(gomock.Any(), req, s.actor).Return(nil, commands.ErrRedeemOutsideWindow).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/redeem", req, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "CONFLICT")
	})
}

func (s *ReservationHandlerTestSuite) TestAdditionalCharge() {
	reservationID := uuid.New()
	url := fmt.Sprintf("/reservations/%s/additional-charge", reservationID)
	reqBody := reqdto.AdditionalChargeRequest{Amount: 10, ExceededMinutes: ptr.Of(20)}
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	paid := charge.ReconstructAdditionalCharge(uuid.New(), reservationID, 1000, 20, "overstay", charge.PaymentPaid, created, created)

	s.Run("success: 200 OK with the settled charge", func() {
		s.charges.EXPECT().SettleOverstay(gomock.Any(), reservationID, reqBody, s.actor).
			Return(&commands.ChargeResult{Charge: paid}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.AdditionalChargeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(1000), response.Charge.AmountCents)
		s.Equal(10.0, response.Charge.Amount)
		s.False(response.Replayed)
	})

	s.Run("error: 400 when exceededMinutes is missing", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("exceededMinutes", nil))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 400 when not overstayed", func() {
		s.charges.EXPECT().SettleOverstay(gomock.Any(), reservationID, reqBody, s.actor).
			Return(nil, commands.ErrNotOverstayed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})
}

func (s *ReservationHandlerTestSuite) TestOverstay() {
	reservationID := uuid.New()
	evaluated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.Run("success: 200 OK", func() {
		s.overstay.EXPECT().Evaluate(gomock.Any(), reservationID, s.actor).Return(&queries.OverstayView{
			ReservationID:   reservationID,
			EndTime:         evaluated.Add(-16 * time.Minute),
			State:           "EXCEEDED",
			ExceededMinutes: 16,
			AmountCents:     1000,
			EvaluatedAt:     evaluated,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, fmt.Sprintf("/reservations/%s/overstay", reservationID), nil, "")

		var response resdto.OverstayResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("EXCEEDED", response.State)
		s.Equal(10.0, response.Amount)
		s.Nil(response.Charge)
	})

	s.Run("error: 404 when missing", func() {
		s.overstay.EXPECT().Evaluate(gomock.Any(), reservationID, s.actor).Return(nil, queries.ErrReservationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, fmt.Sprintf("/reservations/%s/overstay", reservationID), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}
