package messaging

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
)

// MultiPublisher fans events out to every publisher and joins their errors.
type MultiPublisher []event.Publisher

func (m MultiPublisher) Publish(ctx context.Context, events ...event.Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InlinePublisher runs a Handler in-process. Used when no broker is configured.
type InlinePublisher struct {
	Handler Handler
}

func (p InlinePublisher) Publish(ctx context.Context, events ...event.Event) error {
	var errs []error
	for _, e := range events {
		if err := p.Handler.Handle(ctx, event.NewEnvelope(e)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher records every event at info level.
type LogPublisher struct {
	Logger *logrus.Logger
}

func (p LogPublisher) Publish(_ context.Context, events ...event.Event) error {
	for _, e := range events {
		p.Logger.WithFields(logrus.Fields(e.ToMap())).WithField("event", e.Name()).Info("domain event")
	}
	return nil
}
