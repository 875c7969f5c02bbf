package commands

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/domain/user"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/jwt"
	"parking-reservation/internal/pkg/password"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/shared"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrEmailTaken           = errs.New("email already registered")
)

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *queries.AuthorizedUserView
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	// Register creates a driver account.
	Register(ctx context.Context, req reqdto.LoginRequest) (*queries.AuthorizedUserView, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	userReadModel, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(userReadModel.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, expiresAt, err := a.jwtService.GenerateToken(userReadModel.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, userReadModel.ID)
	})
	if err != nil {
		// login already succeeded; only the last_login stamp is lost
		slog.Warn("failed to update last login", "user_id", userReadModel.ID, "error", err.Error())
	}

	return &LoginResult{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        userReadModel,
	}, nil
}

func (a *authCommandsImpl) Register(ctx context.Context, req reqdto.LoginRequest) (*queries.AuthorizedUserView, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	hash, err := password.HashPassword(credentials.Password().Value())
	if err != nil {
		return nil, err
	}

	created := user.NewUser(credentials.Email(), hash, user.RoleDriver)
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Create(ctx, created); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrEmailTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &queries.AuthorizedUserView{
		ID:       created.ID(),
		Email:    created.Email().Value(),
		Role:     created.Role().String(),
		IsActive: created.IsActive(),
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*queries.AuthorizedUserView, error) {
	userReadModel, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		// Return same error as password mismatch to prevent user enumeration attacks
		return nil, ErrInvalidCredentials
	}

	if userReadModel == nil {
		return nil, ErrUserNotFound
	}

	if !userReadModel.IsActive {
		return nil, ErrUserInactive
	}

	err = password.ComparePassword(hashedPassword, credentials.Password().Value())
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return userReadModel, nil
}

