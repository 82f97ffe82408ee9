package application

import (
	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
)

const TokenTypeBearer = "Bearer"

type RegisterCommand struct {
	Email    string
	Password string
	TenantID string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	RefreshToken string
}

// AuthResponse is returned by register, login and refresh. User is omitted on refresh.
type AuthResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int              `json:"expires_in"`
	User         *entity.Snapshot `json:"user,omitempty"`
}

func newAuthResponse(p vo.TokenPair, u *entity.User) AuthResponse {
	r := AuthResponse{
		AccessToken:  p.AccessToken(),
		RefreshToken: p.RefreshToken(),
		TokenType:    TokenTypeBearer,
		ExpiresIn:    p.ExpiresIn(),
	}
	if u != nil {
		s := u.Snapshot()
		r.User = &s
	}
	return r
}
