// Package bootstrap connects the configured backends and hands them to the
// container. It is shared by the API server, the event worker and the seeder.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/config"
	"github.com/oksasatya/go-ddd-auth/internal/application"
	"github.com/oksasatya/go-ddd-auth/internal/container"
	pginfra "github.com/oksasatya/go-ddd-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
	"github.com/oksasatya/go-ddd-auth/pkg/mailer"
)

// Options selects the optional pieces a process needs.
type Options struct {
	Migrate bool
	Broker  bool
}

// Init fills the container. The returned cleanup closes everything that was
// opened, and is safe to call after a partial failure.
func Init(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts Options) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)

	if cfg.DBDriver == "postgres" {
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:             cfg.PostgresDSN(),
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLife,
			PingAttempts:    cfg.DBPingAttempts,
		}, logger)
		if err != nil {
			return cleanup, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		container.SetPGPool(pool)

		if opts.Migrate {
			if err := RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
				return cleanup, fmt.Errorf("migrate: %w", err)
			}
		}
	} else {
		logger.Warn("DB_DRIVER=memory; users are lost on restart")
	}

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// cache and limiter both fail open
			logger.WithError(err).Warn("redis unreachable; continuing without it")
			_ = rdb.Close()
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			container.SetRedis(rdb)
		}
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsPath, cfg.GCSCredentialsJSON)
		if err != nil {
			return cleanup, fmt.Errorf("init gcs: %w", err)
		}
		closers = append(closers, func() { _ = gcsClient.Close() })
		container.SetGCS(gcsClient)
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return cleanup, fmt.Errorf("init elasticsearch: %w", err)
		}
		container.SetES(es)
		if err := container.UserIndex().EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("ensure users index failed")
		}
	}

	if opts.Broker && cfg.RabbitMQURL != "" {
		rc, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue)
		if err != nil {
			return cleanup, fmt.Errorf("dial rabbitmq: %w", err)
		}
		closers = append(closers, rc.Close)
		container.SetRabbit(rc)
	}

	helpers.LogInfo(logger, "backends ready", logrus.Fields{
		"db":       cfg.DBDriver,
		"redis":    container.GetRedis() != nil,
		"gcs":      container.GetGCS() != nil,
		"search":   container.GetES() != nil,
		"broker":   container.GetRabbit() != nil,
		"mail_out": cfg.MailSendEnabled,
	})
	container.SetMailer(NewMailSender(cfg, logger))
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, application.AccessTokenLifetime*time.Second, cfg.RefreshTTL))
	return cleanup, nil
}

// NewMailSender returns Mailgun only when sending is enabled and configured.
func NewMailSender(cfg *config.Config, logger *logrus.Logger) mailer.Sender {
	if cfg.MailSendEnabled && cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.MailgunSender != "" {
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		mg.APIBase = cfg.MailgunAPIBase
		return mg
	}
	return mailer.LogSender{Logger: logger}
}

// RunMigrations applies db/migrations through database/sql with the pgx stdlib driver.
func RunMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
