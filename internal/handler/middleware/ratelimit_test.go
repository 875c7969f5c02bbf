//go:build unit

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parking-reservation/internal/pkg/config"
	httptestutil "parking-reservation/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	decision RateDecision
	err      error
	keys     []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (RateDecision, error) {
	s.keys = append(s.keys, key)
	return s.decision, s.err
}

func newRateLimitedRouter(limiter RateLimiter, cfg config.RateLimitConfig, userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/api/reservations", func(c *gin.Context) {
		if userID != nil {
			c.Set(ctxUserIDKey, *userID)
		}
		c.Next()
	}, RateLimit(limiter, cfg), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestRateLimit(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 20, Prefix: "rl"}

	t.Run("基本成功ケース", func(t *testing.T) {
		userID := uuid.New()
		limiter := &stubLimiter{decision: RateDecision{Allowed: true, Remaining: 19}}
		r := newRateLimitedRouter(limiter, cfg, &userID)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reservations", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		httptestutil.AssertHeaders(t, w, map[string]string{
			"X-RateLimit-Limit":     "20",
			"X-RateLimit-Remaining": "19",
		})
		require.Len(t, limiter.keys, 1)
		assert.Equal(t, "rl:user:"+userID.String()+":POST /api/reservations", limiter.keys[0])
	})

	t.Run("blocked request returns 429 with Retry-After", func(t *testing.T) {
		limiter := &stubLimiter{decision: RateDecision{Allowed: false, RetryAfter: 2500 * time.Millisecond}}
		r := newRateLimitedRouter(limiter, cfg, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reservations", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		httptestutil.AssertHeaders(t, w, map[string]string{"Retry-After": "3"})
		assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
		assert.Contains(t, limiter.keys[0], "rl:ip:")
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		limiter := &stubLimiter{err: assert.AnError}
		r := newRateLimitedRouter(limiter, cfg, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reservations", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("disabled config skips the limiter", func(t *testing.T) {
		limiter := &stubLimiter{}
		r := newRateLimitedRouter(limiter, config.RateLimitConfig{Enabled: false}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reservations", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Empty(t, limiter.keys)
	})
}
