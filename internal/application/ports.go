package application

import (
	"context"

	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
)

const (
	ClaimSubject     = "sub"
	ClaimType        = "type"
	TokenTypeRefresh = "refresh"
)

// TokenSigner issues and validates signed tokens for a user.
// Validate must fail on a bad signature or an expired token; it does not
// look at the type claim.
type TokenSigner interface {
	Issue(ctx context.Context, u *entity.User, claims map[string]any) (string, error)
	Validate(ctx context.Context, token string) (map[string]any, error)
}

// UserSearcher is the read side used by the admin search endpoint.
type UserSearcher interface {
	Search(ctx context.Context, query string, size int) ([]entity.Snapshot, error)
}

func claimString(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return v
}

func isRefresh(claims map[string]any) bool {
	return claimString(claims, ClaimType) == TokenTypeRefresh
}
