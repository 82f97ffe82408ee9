package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/config"
	"github.com/oksasatya/go-ddd-auth/internal/bootstrap"
	"github.com/oksasatya/go-ddd-auth/internal/container"
	"github.com/oksasatya/go-ddd-auth/internal/infrastructure/messaging"
	"github.com/oksasatya/go-ddd-auth/pkg/helpers"
)

// event_worker consumes user events from RabbitMQ and archives, indexes and
// mails them. The API server publishes; this process reacts.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env, cfg.LogLevel)
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured; events are handled inline by the API server")
	}
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; emails are logged, not sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.WithError(err).Fatal("event worker failed")
	}
	logger.Info("shutting down...")
}

// run owns every deferred close, so main only exits after they have run.
func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	cleanup, err := bootstrap.Init(ctx, cfg, logger, bootstrap.Options{Broker: true})
	defer cleanup()
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	rc := container.GetRabbit()
	consumer := messaging.NewConsumer(rc.Ch, rc.Queue, container.EventHandler(), logger)

	logger.Infof("event worker listening on queue=%s", rc.Queue)
	if err := consumer.Run(ctx); err != nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	return nil
}
