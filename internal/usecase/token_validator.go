package usecase

import (
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/jwt"
	"parking-reservation/internal/usecase/shared"
)

var ErrInvalidToken = errs.New("invalid or expired token")

// TokenValidator resolves a bearer token into the calling actor.
type TokenValidator interface {
	ValidateToken(tokenString string) (shared.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (shared.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return shared.Actor{}, errs.Mark(err, ErrInvalidToken)
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return shared.Actor{}, errs.Mark(err, ErrInvalidToken)
	}

	return shared.Actor{UserID: claims.UserID, Role: role}, nil
}
