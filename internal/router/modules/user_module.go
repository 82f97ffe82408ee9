package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-auth/internal/application"
	handlers "github.com/oksasatya/go-ddd-auth/internal/interface/http"
	"github.com/oksasatya/go-ddd-auth/internal/interface/middleware"
)

// UserModule wires user administration and self-service routes.
// Managers: /api/users/...
// Admins: GET /api/users/search
// Any authenticated user: /api/account/password, /api/account/email
type UserModule struct {
	Handler        *handlers.UserHandler
	Auth           *application.AuthenticationService
	CookieFallback bool
}

func NewUserModule(h *handlers.UserHandler, auth *application.AuthenticationService, cookieFallback bool) *UserModule {
	return &UserModule{Handler: h, Auth: auth, CookieFallback: cookieFallback}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	authn := middleware.Auth(m.Auth, m.CookieFallback)
	perUser := limit(120, middleware.KeyByUserID(), middleware.AllowAdmins())

	users := rg.Group("/users")
	users.Use(authn, perUser, middleware.RequireManager())
	{
		users.GET("", m.Handler.List)
		users.GET("/search", middleware.RequireAdminPrivileges(), m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
		users.PATCH("/:id/status", m.Handler.ChangeStatus)
		users.PUT("/:id/status", m.Handler.SetStatus)
		users.POST("/:id/roles", m.Handler.AddRole)
		users.DELETE("/:id/roles/:role", m.Handler.RemoveRole)
		users.PUT("/:id/tenant", m.Handler.AssignTenant)
		users.DELETE("/:id/tenant", m.Handler.RemoveTenant)
	}

	account := rg.Group("/account")
	account.Use(authn, perUser)
	{
		account.PUT("/password", limit(10, middleware.KeyByUserID()), m.Handler.ChangePassword)
		account.PUT("/email", m.Handler.ChangeEmail)
	}
}
