package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
)

// channel is the slice of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitPublisher writes each event as a persistent JSON envelope to a queue
// through the default exchange.
type RabbitPublisher struct {
	ch     channel
	queue  string
	logger *logrus.Logger
}

func NewRabbitPublisher(ch channel, queue string, logger *logrus.Logger) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, queue: queue, logger: logger}
}

func (p *RabbitPublisher) Publish(ctx context.Context, events ...event.Event) error {
	var errs []error
	for _, e := range events {
		env := event.NewEnvelope(e)
		body, err := json.Marshal(env)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", env.Name, err))
			continue
		}
		err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    env.OccurredAt,
			Type:         env.Name,
			Body:         body,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", env.Name, err))
			continue
		}
		if p.logger != nil {
			p.logger.WithFields(logrus.Fields{"event": env.Name, "user_id": env.AggregateID}).Debug("event published")
		}
	}
	return errors.Join(errs...)
}

var _ event.Publisher = (*RabbitPublisher)(nil)
