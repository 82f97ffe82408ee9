package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-auth/internal/application"
	handlers "github.com/oksasatya/go-ddd-auth/internal/interface/http"
	"github.com/oksasatya/go-ddd-auth/internal/interface/middleware"
)

// AuthModule wires registration and token endpoints.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/refresh
// Protected: POST /api/auth/logout, GET /api/auth/me
type AuthModule struct {
	Handler        *handlers.AuthHandler
	Auth           *application.AuthenticationService
	CookieFallback bool
}

func NewAuthModule(h *handlers.AuthHandler, auth *application.AuthenticationService, cookieFallback bool) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, CookieFallback: cookieFallback}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := limit(5, middleware.KeyByIPAndPath()) // 5 req/min per IP
	loginLimiter := limit(10, middleware.KeyByIP())          // 10 req/min per IP
	refreshLimiter := limit(60, middleware.KeyByIP())

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.Auth, m.CookieFallback))
	auth.Use(limit(120, middleware.KeyByUserID()))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
