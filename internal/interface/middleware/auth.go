package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-auth/internal/application"
	"github.com/oksasatya/go-ddd-auth/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth/pkg/response"
)

const (
	CtxUserKey   = "current_user"
	CtxUserIDKey = "userID"
)

// Auth resolves the access token to its user and stores it under CtxUserKey.
// Refresh tokens are rejected with 401 and users that can no longer log in
// with 403.
func Auth(auth *application.AuthenticationService, cookieFallback bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c, cookieFallback)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		u := auth.GetUserFromToken(c.Request.Context(), token)
		if u == nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		if !u.CanLogin() {
			response.Abort(c, http.StatusForbidden, "account is not active", nil)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID().String())
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// RequireManager lets through users with manager privileges or above.
func RequireManager() gin.HandlerFunc {
	return requireUser(func(u *entity.User) bool { return u.HasManagerPrivileges() })
}

// RequireAdminPrivileges lets through ADMIN and TENANT_ADMIN.
func RequireAdminPrivileges() gin.HandlerFunc {
	return requireUser(func(u *entity.User) bool { return u.HasAdminPrivileges() })
}

func requireUser(ok func(u *entity.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.Abort(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if !ok(u) {
			response.Abort(c, http.StatusForbidden, "insufficient privileges", nil)
			return
		}
		c.Next()
	}
}
