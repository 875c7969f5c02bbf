//go:build e2e

package reservation_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/tests/common/authtest"
	"parking-reservation/tests/common/dbtest"
	"parking-reservation/tests/common/httptest"
	"parking-reservation/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const reservationsURL = "/api/reservations"

type reservationSuite struct {
	e2e.SharedSuite

	spotID      uuid.UUID
	driverToken string
	otherToken  string
	adminToken  string
	start       time.Time
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(reservationSuite))
}

func (s *reservationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	t := s.T()

	locationID := dbtest.CreateTestLocation(t, s.DB, "Central Garage")
	s.spotID = dbtest.CreateTestSpot(t, s.DB, locationID, "A-01", 500)
	_, s.driverToken = authtest.CreateAndLogin(t, s.DB, s.Router, "driver@example.com", user.RoleDriver.String())
	_, s.otherToken = authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", user.RoleDriver.String())
	s.adminToken = authtest.LoginUser(t, s.Router, "admin@example.com", dbtest.DefaultPassword)
	s.start = time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
}

func (s *reservationSuite) book(token string, start, end time.Time, paymentID *string, headers map[string]string) (*resdto.ReservationEnvelope, int, string) {
	t := s.T()
	body := request.CreateReservationRequest{
		ParkingSpotID: s.spotID,
		StartTime:     start,
		EndTime:       end,
		PaymentID:     paymentID,
	}
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reservationsURL, body, token, headers)
	if w.Code != http.StatusCreated {
		return nil, w.Code, w.Body.String()
	}
	var env resdto.ReservationEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return &env, w.Code, w.Body.String()
}

func (s *reservationSuite) TestCreate() {
	s.Run("支払い済みなら確定し料金はサーバー側で計算される", func() {
		env, code, body := s.book(s.driverToken, s.start, s.start.Add(2*time.Hour), ptr.Of("pay_1"), nil)
		s.Require().Equal(http.StatusCreated, code, body)

		s.Equal("confirmed", env.Reservation.Status)
		s.Equal(int64(10500), env.Reservation.PriceCents)
		s.Len(env.Reservation.QRToken, 64)
		s.False(env.Replayed)
	})

	s.Run("重複する時間帯は 409 CONFLICT", func() {
		_, code, body := s.book(s.driverToken, s.start, s.start.Add(2*time.Hour), nil, nil)
		s.Require().Equal(http.StatusCreated, code, body)

		_, code, body = s.book(s.otherToken, s.start.Add(time.Hour), s.start.Add(3*time.Hour), nil, nil)
		s.Equal(http.StatusConflict, code)
		s.Contains(body, `"CONFLICT"`)
	})

	s.Run("終了と開始が接する予約も衝突する", func() {
		_, code, body := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, nil)
		s.Require().Equal(http.StatusCreated, code, body)

		_, code, _ = s.book(s.otherToken, s.start.Add(time.Hour), s.start.Add(2*time.Hour), nil, nil)
		s.Equal(http.StatusConflict, code)
	})

	s.Run("不正な時間帯は 400", func() {
		_, code, body := s.book(s.driverToken, s.start.Add(time.Hour), s.start, nil, nil)
		s.Equal(http.StatusBadRequest, code)
		s.Contains(body, `"VALIDATION_ERROR"`)
	})

	s.Run("認証なしは 401", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, request.CreateReservationRequest{}, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})
}

func (s *reservationSuite) TestConcurrentBooking() {
	s.Run("同じ枠への同時予約は1件だけ成功する", func() {
		const workers = 10
		codes := make([]int, workers)

		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// small offsets keep every request overlapping the others
				start := s.start.Add(time.Duration(i) * time.Minute)
				_, codes[i], _ = s.book(s.driverToken, start, start.Add(time.Hour), nil, nil)
			}()
		}
		wg.Wait()

		created, conflicts := 0, 0
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		s.Equal(1, created)
		s.Equal(workers-1, conflicts)

		var active int
		err := s.DB.QueryRow(s.T().Context(),
			"SELECT count(*) FROM reservations WHERE spot_id = $1 AND status IN ('pending', 'confirmed')", s.spotID).Scan(&active)
		s.Require().NoError(err)
		s.Equal(1, active)
	})
}

func (s *reservationSuite) TestIdempotency() {
	s.Run("同じキーの再送は最初の予約を再生する", func() {
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		first, code, body := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, headers)
		s.Require().Equal(http.StatusCreated, code, body)
		again, code, body := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, headers)
		s.Require().Equal(http.StatusCreated, code, body)

		s.True(again.Replayed)
		s.Equal(first.Reservation.ID, again.Reservation.ID)
	})

	s.Run("同じキーで内容が違えば 409", func() {
		headers := map[string]string{"Idempotency-Key": uuid.NewString()}

		_, code, body := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, headers)
		s.Require().Equal(http.StatusCreated, code, body)
		_, code, _ = s.book(s.driverToken, s.start.Add(5*time.Hour), s.start.Add(6*time.Hour), nil, headers)
		s.Equal(http.StatusConflict, code)
	})

	s.Run("UUIDでないキーは 400", func() {
		_, code, _ := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, map[string]string{"Idempotency-Key": "abc"})
		s.Equal(http.StatusBadRequest, code)
	})
}

func (s *reservationSuite) TestLifecycle() {
	s.Run("支払い通知で確定しキャンセルで枠が空く", func() {
		t := s.T()
		env, code, body := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, nil)
		s.Require().Equal(http.StatusCreated, code, body)
		s.Equal("pending", env.Reservation.Status)
		id := env.Reservation.ID

		payload, err := json.Marshal(request.PaymentWebhookRequest{ReservationID: id, PaymentID: "pay_hook", Status: request.PaymentSucceeded})
		s.Require().NoError(err)
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, "/api/payments/webhook", payload, "",
			map[string]string{middleware.SignatureHeader: middleware.Sign(s.Config.Payment.WebhookSecret, payload)})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.Contains(w.Body.String(), `"confirmed"`)

		w = httptest.PerformRawRequest(t, s.Router, http.MethodPost, "/api/payments/webhook", payload, "",
			map[string]string{middleware.SignatureHeader: "sha256=deadbeef"})
		s.Equal(http.StatusUnauthorized, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", reservationsURL, id), nil, s.otherToken)
		httptest.AssertErrorCode(t, w, http.StatusForbidden, "FORBIDDEN")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/cancel", reservationsURL, id), nil, s.driverToken)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		s.Contains(w.Body.String(), `"cancelled"`)

		_, code, body = s.book(s.otherToken, s.start, s.start.Add(time.Hour), nil, nil)
		s.Equal(http.StatusCreated, code, body)
	})

	s.Run("一覧は新しい順でカーソルをたどれる", func() {
		t := s.T()
		for i := range 3 {
			start := s.start.Add(time.Duration(i*2) * time.Hour)
			_, code, body := s.book(s.driverToken, start, start.Add(time.Hour), nil, nil)
			s.Require().Equal(http.StatusCreated, code, body)
		}

		var page resdto.ReservationListResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?limit=2", nil, s.driverToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		s.Require().Len(page.Items, 2)
		s.Require().NotNil(page.NextCursor)
		s.True(!page.Items[0].CreatedAt.Before(page.Items[1].CreatedAt))

		var rest resdto.ReservationListResponse
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?limit=2&after="+*page.NextCursor, nil, s.driverToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &rest)
		s.Len(rest.Items, 1)
		s.Nil(rest.NextCursor)
	})

	s.Run("空き確認は予約と同じ衝突判定を使う", func() {
		t := s.T()
		_, code, body := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, nil)
		s.Require().Equal(http.StatusCreated, code, body)

		url := fmt.Sprintf("/api/spots/%s/availability?start=%s&end=%s", s.spotID,
			s.start.Add(time.Hour).Format(time.RFC3339), s.start.Add(2*time.Hour).Format(time.RFC3339))
		var res resdto.AvailabilityResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, "")
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		s.False(res.Available)
		s.Equal("CONFLICT", res.Reason)
	})

	s.Run("管理者はスポットを休止できる", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf("/api/admin/spots/%s", s.spotID),
			request.UpdateSpotRequest{InService: ptr.Of(false)}, s.adminToken)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		_, code, body := s.book(s.driverToken, s.start, s.start.Add(time.Hour), nil, nil)
		s.Equal(http.StatusConflict, code)
		s.Contains(body, `"SPOT_UNAVAILABLE"`)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf("/api/admin/spots/%s", s.spotID),
			request.UpdateSpotRequest{InService: ptr.Of(false)}, s.driverToken)
		s.Equal(http.StatusForbidden, w.Code)
	})
}
