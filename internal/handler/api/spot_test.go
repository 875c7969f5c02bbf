//go:build unit

package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/handler/api"
	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/handler/validation"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
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

type SpotHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	cmds     *commandsmock.MockSpotCommands
	q        *queriesmock.MockSpotQueries
	spot     *builder.SpotBuilder
}

func (s *SpotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(validation.Register())
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.cmds = commandsmock.NewMockSpotCommands(s.mockCtrl)
	s.q = queriesmock.NewMockSpotQueries(s.mockCtrl)
	s.spot = builder.NewSpotBuilder()

	h := api.NewSpotHandler(s.cmds, s.q)
	s.router.GET("/locations", h.ListLocations)
	s.router.GET("/locations/:id/spots", h.ListSpots)
	s.router.GET("/spots/:id", h.GetSpot)
	s.router.GET("/spots/:id/availability", h.Availability)
	s.router.POST("/admin/locations", h.CreateLocation)
	s.router.POST("/admin/locations/:id/spots", h.CreateSpot)
	s.router.PATCH("/admin/spots/:id", h.UpdateSpot)
}

func (s *SpotHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSpotHandlerSuite(t *testing.T) {
	suite.Run(t, new(SpotHandlerTestSuite))
}

func (s *SpotHandlerTestSuite) TestListing() {
	s.Run("locations: 200 OK", func() {
		s.q.EXPECT().ListLocations(gomock.Any()).Return([]*queries.LocationView{s.spot.BuildLocationView()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/locations", nil, "")

		var response []*resdto.LocationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal(s.spot.LocationName, response[0].Name)
	})

	s.Run("spots: 200 OK", func() {
		s.q.EXPECT().ListSpots(gomock.Any(), s.spot.LocationID).Return([]*queries.SpotView{s.spot.BuildView()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, fmt.Sprintf("/locations/%s/spots", s.spot.LocationID), nil, "")

		var response []*resdto.SpotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal("A-01", response[0].SpotNumber)
		s.Equal(int64(500), response[0].HourlyRateCents)
		s.True(response[0].InService)
	})

	s.Run("spots: 404 for an unknown location", func() {
		s.q.EXPECT().ListSpots(gomock.Any(), s.spot.LocationID).Return(nil, queries.ErrLocationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, fmt.Sprintf("/locations/%s/spots", s.spot.LocationID), nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})

	s.Run("spot: 200 OK", func() {
		s.q.EXPECT().GetSpot(gomock.Any(), s.spot.ID).Return(s.spot.BuildView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/spots/"+s.spot.ID.String(), nil, "")

		var response resdto.SpotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(s.spot.ID, response.ID)
	})
}

func (s *SpotHandlerTestSuite) TestAvailability() {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	url := fmt.Sprintf("/spots/%s/availability?start=%s&end=%s", s.spot.ID, start.Format(time.RFC3339), end.Format(time.RFC3339))

	s.Run("success: returns the quote", func() {
		s.q.EXPECT().CheckAvailability(gomock.Any(), s.spot.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, id uuid.UUID, gotStart, gotEnd time.Time) (*queries.AvailabilityView, error) {
				s.True(gotStart.Equal(start))
				s.True(gotEnd.Equal(end))
				return &queries.AvailabilityView{SpotID: id, StartTime: gotStart, EndTime: gotEnd, Available: true, QuoteCents: 11000}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Available)
		s.Equal(110.0, response.QuotedPrice)
		s.Empty(response.Reason)
	})

	s.Run("success: reports the conflicting booking", func() {
		conflictID := uuid.New()
		s.q.EXPECT().CheckAvailability(gomock.Any(), s.spot.ID, gomock.Any(), gomock.Any()).
			Return(&queries.AvailabilityView{SpotID: s.spot.ID, Reason: queries.UnavailableConflict, ConflictingID: &conflictID}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.Available)
		s.Equal("CONFLICT", response.Reason)
		s.Require().NotNil(response.ConflictingID)
		s.Equal(conflictID, *response.ConflictingID)
	})

	s.Run("error: 400 without a window", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/spots/"+s.spot.ID.String()+"/availability", nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 400 on an invalid window", func() {
		s.q.EXPECT().CheckAvailability(gomock.Any(), s.spot.ID, gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errors.New("end before start"), queries.ErrInvalidWindow)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 400 names the horizon rule", func() {
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		_, verr := reservation.NewWindowPolicy(0, 0).Validate(now.Add(40*24*time.Hour), now.Add(40*24*time.Hour+time.Hour), now)
		s.Require().Error(verr)
		s.q.EXPECT().CheckAvailability(gomock.Any(), s.spot.ID, gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(verr, queries.ErrInvalidWindow)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		body := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
		s.Contains(body.Error.Message, "start time must be within 30 days from now")
		s.Contains(string(body.Detail), "start time must be within 30 days from now")
	})
}

func (s *SpotHandlerTestSuite) TestAdmin() {
	s.Run("create location: 201 Created", func() {
		req := reqdto.CreateLocationRequest{Name: "Central Garage", Address: "1 Main St"}
		s.cmds.EXPECT().CreateLocation(gomock.Any(), req).Return(s.spot.BuildLocation(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/locations", req, "")

		var response resdto.LocationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(s.spot.LocationID, response.ID)
	})

	s.Run("create location: 400 on blank name", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/locations",
			reqdto.CreateLocationRequest{Name: "   ", Address: "1 Main St"}, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	url := fmt.Sprintf("/admin/locations/%s/spots", s.spot.LocationID)
	reqBody := s.spot.BuildCreateRequestDTO()

	s.Run("create spot: 201 Created", func() {
		s.cmds.EXPECT().CreateSpot(gomock.Any(), s.spot.LocationID, reqBody).Return(s.spot.BuildDomain(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("create spot: 400 on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing spotNumber", mutate: testutil.Field("spotNumber", nil)},
			{name: "malformed spotNumber", mutate: testutil.Field("spotNumber", "A 01!")},
			{name: "negative rate", mutate: testutil.Field("hourlyRateCents", -5)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, testutil.DtoMap(s.T(), reqBody, tc.mutate), "")
				body := httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
				s.NotEmpty(body.Detail)
			})
		}
	})

	s.Run("create spot: 409 on a duplicate number", func() {
		s.cmds.EXPECT().CreateSpot(gomock.Any(), s.spot.LocationID, reqBody).
			Return(nil, errs.Mark(errors.New("duplicate key"), commands.ErrSpotNumberTaken)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "CONFLICT")
	})

	s.Run("update spot: 200 OK", func() {
		req := reqdto.UpdateSpotRequest{InService: ptr.Of(false)}
		paused := s.spot.With(func(b *builder.SpotBuilder) { b.InService = false; b.IsAvailable = false }).BuildDomain()
		s.cmds.EXPECT().UpdateSpot(gomock.Any(), s.spot.ID, req).Return(paused, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/admin/spots/"+s.spot.ID.String(), req, "")

		var response resdto.SpotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.InService)
		s.False(response.IsAvailable)
	})

	s.Run("update spot: 400 on an empty patch", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/admin/spots/"+s.spot.ID.String(), map[string]any{}, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})
}
