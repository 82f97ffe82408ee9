package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
)

// ExtractToken reads "Authorization: Bearer <token>", falling back to the
// access token cookie when allowed.
func ExtractToken(c *gin.Context, cookieFallback bool) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		scheme, token, found := strings.Cut(h, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookieFallback {
		if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
			return token
		}
	}
	return ""
}
