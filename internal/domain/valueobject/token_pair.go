package valueobject

import "github.com/oksasatya/go-ddd-auth/internal/domain/errs"

// TokenPair holds an issued access/refresh pair. ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	accessToken  string
	refreshToken string
	expiresIn    int
}

func NewTokenPair(accessToken, refreshToken string, expiresIn int) (TokenPair, error) {
	if accessToken == "" {
		return TokenPair{}, errs.NewValidation("access_token", errs.ReasonEmpty, "access token cannot be empty")
	}
	if refreshToken == "" {
		return TokenPair{}, errs.NewValidation("refresh_token", errs.ReasonEmpty, "refresh token cannot be empty")
	}
	if expiresIn <= 0 {
		return TokenPair{}, errs.NewValidation("expires_in", errs.ReasonNotPositive, "expires in must be positive")
	}
	return TokenPair{accessToken: accessToken, refreshToken: refreshToken, expiresIn: expiresIn}, nil
}

func (p TokenPair) AccessToken() string  { return p.accessToken }
func (p TokenPair) RefreshToken() string { return p.refreshToken }
func (p TokenPair) ExpiresIn() int       { return p.expiresIn }

func (p TokenPair) Equals(other TokenPair) bool { return p == other }
