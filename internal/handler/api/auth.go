package api

import (
	"errors"
	"net/http"

	reqdto "parking-reservation/internal/handler/dto/request"
	resdto "parking-reservation/internal/handler/dto/response"
	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errNoActor = errors.New("authenticated actor missing from context")

type AuthHandler struct {
	cmds commands.AuthCommands
	q    queries.UserQueries
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.UserQueries) *AuthHandler {
	return &AuthHandler{
		cmds: cmds,
		q:    q,
	}
}

// @Summary User login
// @Description Login with email and password and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.NewLoginResponse(result.AccessToken, result.ExpiresAt, result.User))
}

// @Summary Register driver account
// @Description Create a driver account; operators and admins are provisioned out of band
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Registration request"
// @Success 201 {object} queries.AuthorizedUserView
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.cmds.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.AuthorizedUserView
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	user, err := h.q.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary User logout
// @Description Stateless tokens are discarded client-side; always 204
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
