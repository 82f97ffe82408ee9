package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	"github.com/oksasatya/go-ddd-auth/internal/domain/service"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

const LogoutMessage = "Successfully logged out"

// AuthUseCase backs the /api/auth endpoints.
type AuthUseCase struct {
	Users  *service.UserService
	Repo   repository.UserRepository
	Hasher service.PasswordHasher
	Auth   *AuthenticationService
	Logger *logrus.Logger
}

func NewAuthUseCase(users *service.UserService, repo repository.UserRepository, hasher service.PasswordHasher, auth *AuthenticationService, logger *logrus.Logger) *AuthUseCase {
	return &AuthUseCase{Users: users, Repo: repo, Hasher: hasher, Auth: auth, Logger: logger}
}

// Register creates an active ROLE_USER account and signs it in.
func (uc *AuthUseCase) Register(ctx context.Context, cmd RegisterCommand) (AuthResponse, error) {
	email, err := vo.EmailFromString(cmd.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	u, err := uc.Users.CreateUser(ctx, service.CreateUserInput{
		Email:    email,
		Password: cmd.Password,
		Roles:    []vo.UserRole{vo.RoleUser},
		TenantID: cmd.TenantID,
		Status:   vo.StatusActive,
	})
	if err != nil {
		return AuthResponse{}, err
	}
	pair, err := uc.Auth.GenerateTokens(ctx, u)
	if err != nil {
		return AuthResponse{}, err
	}
	return newAuthResponse(pair, u), nil
}

// Login checks the password before the account status so that status is
// never revealed to a caller without valid credentials.
func (uc *AuthUseCase) Login(ctx context.Context, cmd LoginCommand) (AuthResponse, error) {
	email, err := vo.EmailFromString(cmd.Email)
	if err != nil {
		return AuthResponse{}, errs.ErrInvalidCredentials
	}
	u, err := uc.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return AuthResponse{}, errs.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}
	ok, err := uc.Hasher.Verify(ctx, u.PasswordHash(), cmd.Password)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		if uc.Logger != nil {
			uc.Logger.WithField("user_id", u.ID().String()).Info("login rejected: bad password")
		}
		return AuthResponse{}, errs.ErrInvalidCredentials
	}
	if !u.CanLogin() {
		return AuthResponse{}, errs.ErrInactiveUser
	}

	pair, err := uc.Auth.GenerateTokens(ctx, u)
	if err != nil {
		return AuthResponse{}, err
	}
	return newAuthResponse(pair, u), nil
}

func (uc *AuthUseCase) Refresh(ctx context.Context, cmd RefreshTokenCommand) (AuthResponse, error) {
	if cmd.RefreshToken == "" {
		return AuthResponse{}, errs.ErrInvalidToken
	}
	pair, err := uc.Auth.RefreshTokens(ctx, cmd.RefreshToken)
	if err != nil {
		return AuthResponse{}, err
	}
	return newAuthResponse(pair, nil), nil
}

// CurrentUser returns the snapshot for an already authenticated user.
func (uc *AuthUseCase) CurrentUser(u *entity.User) (entity.Snapshot, error) {
	if u == nil {
		return entity.Snapshot{}, errs.ErrInvalidToken
	}
	return u.Snapshot(), nil
}

// Logout is a no-op: tokens are stateless and discarded by the client.
func (uc *AuthUseCase) Logout(context.Context) string {
	return LogoutMessage
}
