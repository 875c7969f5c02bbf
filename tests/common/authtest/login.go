//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/tests/common/dbtest"
	"parking-reservation/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res resdto.LoginResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
	require.NotEmpty(t, res.AccessToken, "access token missing from login response")

	return res.AccessToken
}

// CreateAndLogin inserts a user with the default password and returns its id and bearer token.
func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) (uuid.UUID, string) {
	t.Helper()
	id := dbtest.CreateTestUser(t, db, email, role)
	return id, LoginUser(t, router, email, dbtest.DefaultPassword)
}
