package response

import (
	"time"

	"parking-reservation/internal/usecase/queries"
)

type LoginResponse struct {
	AccessToken string                      `json:"accessToken"`
	TokenType   string                      `json:"tokenType"`
	ExpiresAt   time.Time                   `json:"expiresAt"`
	User        *queries.AuthorizedUserView `json:"user"`
}

func NewLoginResponse(token string, expiresAt time.Time, user *queries.AuthorizedUserView) *LoginResponse {
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}
}
