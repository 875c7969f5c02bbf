//go:build unit

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	actor shared.Actor
	err   error
}

func (s stubValidator) ValidateToken(string) (shared.Actor, error) {
	return s.actor, s.err
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	driver := shared.Actor{UserID: uuid.New(), Role: user.RoleDriver}

	newRouter := func(v stubValidator, minRole user.Role) *gin.Engine {
		m := NewAuthMiddleware(v)
		r := gin.New()
		r.GET("/protected", m.RequireAuth(), m.RequireRoleAtLeast(minRole), func(c *gin.Context) {
			actor, ok := GetActor(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.String(http.StatusOK, actor.UserID.String())
		})
		return r
	}

	cases := []struct {
		name       string
		validator  stubValidator
		minRole    user.Role
		header     string
		expectCode int
	}{
		{"基本成功ケース", stubValidator{actor: driver}, user.RoleDriver, "Bearer token", http.StatusOK},
		{"missing header", stubValidator{actor: driver}, user.RoleDriver, "", http.StatusUnauthorized},
		{"non bearer scheme", stubValidator{actor: driver}, user.RoleDriver, "Basic abc", http.StatusUnauthorized},
		{"invalid token", stubValidator{err: assert.AnError}, user.RoleDriver, "Bearer token", http.StatusUnauthorized},
		{"role below minimum", stubValidator{actor: driver}, user.RoleOperator, "Bearer token", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(tc.validator, tc.minRole)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.expectCode, w.Code)
			if tc.expectCode == http.StatusOK {
				assert.Equal(t, driver.UserID.String(), w.Body.String())
			}
		})
	}
}
