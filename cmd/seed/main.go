package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/config"
	"github.com/oksasatya/go-ddd-auth/internal/bootstrap"
	"github.com/oksasatya/go-ddd-auth/internal/container"
	"github.com/oksasatya/go-ddd-auth/internal/domain/errs"
	"github.com/oksasatya/go-ddd-auth/internal/domain/service"
	vo "github.com/oksasatya/go-ddd-auth/internal/domain/valueobject"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
)

// seed creates the first administrator from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD. Running it again only re-grants the admin role.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		logger.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	email, err := vo.EmailFromString(cfg.SeedAdminEmail)
	if err != nil {
		logger.WithError(err).Fatal("invalid SEED_ADMIN_EMAIL")
	}

	if err := run(context.Background(), cfg, logger, email); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}

// run returns instead of exiting so the deferred cleanup closes the pool.
func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, email vo.Email) error {
	cleanup, err := bootstrap.Init(ctx, cfg, logger, bootstrap.Options{Migrate: true, Broker: true})
	defer cleanup()
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	users := container.UserService()
	u, err := users.CreateUser(ctx, service.CreateUserInput{
		Email:    email,
		Password: cfg.SeedAdminPassword,
		Roles:    []vo.UserRole{vo.RoleAdmin},
		Status:   vo.StatusActive,
	})
	switch {
	case errors.Is(err, errs.ErrDuplicateEmail):
		u, err = container.UserRepository().FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("load existing admin: %w", err)
		}
		if err := users.AddRoleToUser(ctx, u, vo.RoleAdmin); err != nil {
			return fmt.Errorf("grant admin role: %w", err)
		}
		logger.WithFields(logrus.Fields{"user_id": u.ID().String()}).Info("admin already exists")
	case err != nil:
		return fmt.Errorf("create admin: %w", err)
	default:
		fmt.Printf("seeded admin: id=%s email=%s\n", u.ID(), u.Email())
	}
	return nil
}
