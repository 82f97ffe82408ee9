package messaging

import (
	"context"
	"encoding/json"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth/internal/domain/event"
)

const prefetch = 16

// Handler reacts to one decoded event envelope.
type Handler interface {
	Handle(ctx context.Context, env event.Envelope) error
}

type consumeChannel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Consumer drains a queue into a Handler with manual acks.
type Consumer struct {
	ch      consumeChannel
	queue   string
	handler Handler
	logger  *logrus.Logger
}

// NewConsumer accepts a nil logger; the consumer then logs nowhere.
func NewConsumer(ch consumeChannel, queue string, h Handler, logger *logrus.Logger) *Consumer {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Consumer{ch: ch, queue: queue, handler: h, logger: logger}
}

// Run blocks until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}
	msgs, err := c.ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	c.logger.WithField("queue", c.queue).Info("event consumer listening")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.deliver(ctx, d)
		}
	}
}

// deliver acks on success. Undecodable bodies are dropped; handler failures
// are requeued once and dropped on redelivery.
func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
	var env event.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil || env.Name == "" {
		c.logger.WithError(err).WithField("message_id", d.MessageId).Warn("dropping malformed event")
		_ = d.Nack(false, false)
		return
	}
	log := c.logger.WithFields(logrus.Fields{"event": env.Name, "user_id": env.AggregateID})
	if err := c.handler.Handle(ctx, env); err != nil {
		log.WithError(err).WithField("redelivered", d.Redelivered).Error("event handling failed")
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
	log.Debug("event handled")
}
