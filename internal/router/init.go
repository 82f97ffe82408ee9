package router

import (
	"github.com/oksasatya/go-ddd-auth/internal/application"
	"github.com/oksasatya/go-ddd-auth/internal/container"
	handlers "github.com/oksasatya/go-ddd-auth/internal/interface/http"
	"github.com/oksasatya/go-ddd-auth/internal/router/modules"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
)

type authDeps struct {
	Auth        *application.AuthenticationService
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

func buildDeps() authDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	repo := container.UserRepository()
	users := container.UserService()
	auth := container.AuthenticationService()

	var cookies *helpers.CookieManager
	if cfg.CookieAuth {
		cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	}

	uc := application.NewAuthUseCase(users, repo, container.PasswordHasher(), auth, logger)
	admin := application.NewUserAdmin(users, repo, container.Searcher(), logger)

	return authDeps{
		Auth:        auth,
		AuthHandler: handlers.NewAuthHandler(uc, logger, cookies, cfg.RefreshTTL),
		UserHandler: handlers.NewUserHandler(admin, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	deps := buildDeps()

	r.Add(modules.NewAuthModule(deps.AuthHandler, deps.Auth, cfg.CookieAuth))
	r.Add(modules.NewUserModule(deps.UserHandler, deps.Auth, cfg.CookieAuth))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
