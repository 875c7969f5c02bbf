//go:build e2e

package ratelimit_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/dto/request"
	"parking-reservation/tests/common/authtest"
	"parking-reservation/tests/common/dbtest"
	"parking-reservation/tests/common/httptest"
	"parking-reservation/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const capacity = 3

type rateLimitSuite struct {
	e2e.SharedSuite
}

func TestRateLimitSuite(t *testing.T) {
	t.Parallel()
	s := new(rateLimitSuite)
	s.Options = []e2e.Option{e2e.WithRateLimit(capacity)}
	suite.Run(t, s)
}

func (s *rateLimitSuite) TestBookingBucket() {
	s.Run("容量を超えた予約リクエストは 429 になる", func() {
		t := s.T()
		locationID := dbtest.CreateTestLocation(t, s.DB, "Central Garage")
		spotID := dbtest.CreateTestSpot(t, s.DB, locationID, "A-01", 500)
		_, token := authtest.CreateAndLogin(t, s.DB, s.Router, "driver@example.com", user.RoleDriver.String())
		start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)

		for i := range capacity {
			body := request.CreateReservationRequest{
				ParkingSpotID: spotID,
				StartTime:     start.Add(time.Duration(i*2) * time.Hour),
				EndTime:       start.Add(time.Duration(i*2+1) * time.Hour),
			}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/reservations", body, token)
			s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
			httptest.AssertHeaders(t, w, map[string]string{
				"X-RateLimit-Limit":     strconv.Itoa(capacity),
				"X-RateLimit-Remaining": strconv.Itoa(capacity - i - 1),
			})
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/reservations", request.CreateReservationRequest{
			ParkingSpotID: spotID,
			StartTime:     start.Add(10 * time.Hour),
			EndTime:       start.Add(11 * time.Hour),
		}, token)
		httptest.AssertErrorCode(t, w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS")
		s.NotEmpty(w.Header().Get("Retry-After"))
		_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
		s.NoError(err)

		// 読み取り系は制限されない
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/reservations", nil, token)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("ユーザーごとにバケットが分かれる", func() {
		t := s.T()
		_, first := authtest.CreateAndLogin(t, s.DB, s.Router, "first@example.com", user.RoleDriver.String())
		_, second := authtest.CreateAndLogin(t, s.DB, s.Router, "second@example.com", user.RoleDriver.String())

		for range capacity + 1 {
			httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/reservations", map[string]any{}, first)
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/reservations", map[string]any{}, first)
		s.Equal(http.StatusTooManyRequests, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/reservations", map[string]any{}, second)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
