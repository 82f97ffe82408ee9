package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
)

const (
	claimType        = "type"
	tokenTypeRefresh = "refresh"
)

var ErrUnexpectedSigningMethod = errors.New("unexpected signing method")

// JWTManager signs HS256 tokens for users. Access and refresh tokens share
// the secret and are told apart by the "type" claim, which only refresh
// tokens carry.
type JWTManager struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	now func() time.Time
}

func NewJWTManager(secret, issuer string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:     []byte(secret),
		Issuer:     issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue builds a token for u. Extra claims are copied in last and may
// override the defaults; {"type": "refresh"} selects the refresh shape and TTL.
func (m *JWTManager) Issue(_ context.Context, u *entity.User, extra map[string]any) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub": u.Email().String(),
		"iat": now.Unix(),
		"jti": uuid.NewString(),
	}
	if m.Issuer != "" {
		claims["iss"] = m.Issuer
	}

	ttl := m.AccessTTL
	if t, _ := extra[claimType].(string); t == tokenTypeRefresh {
		ttl = m.RefreshTTL
	} else {
		claims["email"] = u.Email().String()
		claims["user_id"] = u.ID().String()
		claims["roles"] = u.RoleNames()
	}
	claims["exp"] = now.Add(ttl).Unix()

	for k, v := range extra {
		claims[k] = v
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.Secret)
}

// Validate checks signature, expiry and issuer and returns the raw claims.
func (m *JWTManager) Validate(_ context.Context, tokenStr string) (map[string]any, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.Issuer))
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSigningMethod
		}
		return m.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
