package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/repository"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

// AccessTokenLifetime is reported as expires_in, in seconds.
const AccessTokenLifetime = 3600

type AuthenticationService struct {
	Signer TokenSigner
	Repo   repository.UserRepository
	Logger *logrus.Logger
}

func NewAuthenticationService(signer TokenSigner, repo repository.UserRepository, logger *logrus.Logger) *AuthenticationService {
	return &AuthenticationService{Signer: signer, Repo: repo, Logger: logger}
}

func (s *AuthenticationService) GenerateTokens(ctx context.Context, u *entity.User) (vo.TokenPair, error) {
	access, err := s.Signer.Issue(ctx, u, nil)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID().String()).Error("generate access token failed")
		}
		return vo.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Signer.Issue(ctx, u, map[string]any{ClaimType: TokenTypeRefresh})
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID().String()).Error("generate refresh token failed")
		}
		return vo.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return vo.NewTokenPair(access, refresh, AccessTokenLifetime)
}

// RefreshTokens rotates the pair. The presented refresh token stays valid
// until it expires.
func (s *AuthenticationService) RefreshTokens(ctx context.Context, refreshToken string) (vo.TokenPair, error) {
	claims, err := s.Signer.Validate(ctx, refreshToken)
	if err != nil || !isRefresh(claims) {
		return vo.TokenPair{}, errs.ErrInvalidToken
	}
	sub := claimString(claims, ClaimSubject)
	if sub == "" {
		return vo.TokenPair{}, errs.ErrInvalidToken
	}
	email, err := vo.EmailFromString(sub)
	if err != nil {
		return vo.TokenPair{}, errs.ErrInvalidToken
	}

	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return vo.TokenPair{}, errs.ErrUserNotFound
		}
		return vo.TokenPair{}, err
	}
	if !u.CanLogin() {
		return vo.TokenPair{}, errs.ErrInactiveUser
	}
	return s.GenerateTokens(ctx, u)
}

// ValidateAccessToken rejects refresh tokens presented as access tokens.
func (s *AuthenticationService) ValidateAccessToken(ctx context.Context, token string) bool {
	_, ok := s.accessClaims(ctx, token)
	return ok
}

// GetUserFromToken resolves the bearer of an access token, or nil.
func (s *AuthenticationService) GetUserFromToken(ctx context.Context, token string) *entity.User {
	claims, ok := s.accessClaims(ctx, token)
	if !ok {
		return nil
	}
	email, err := vo.EmailFromString(claimString(claims, ClaimSubject))
	if err != nil {
		return nil
	}
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if s.Logger != nil && !errors.Is(err, errs.ErrUserNotFound) {
			s.Logger.WithError(err).Warn("resolve token subject failed")
		}
		return nil
	}
	return u
}

func (s *AuthenticationService) accessClaims(ctx context.Context, token string) (map[string]any, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := s.Signer.Validate(ctx, token)
	if err != nil || isRefresh(claims) {
		return nil, false
	}
	return claims, true
}
