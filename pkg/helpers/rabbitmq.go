package helpers

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitChannel is a connection plus one channel bound to a durable queue.
type RabbitChannel struct {
	Conn  *amqp.Connection
	Ch    *amqp.Channel
	Queue string
}

// DialRabbit connects and declares queue as durable.
func DialRabbit(url, queue string) (*RabbitChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitChannel{Conn: conn, Ch: ch, Queue: queue}, nil
}

func (r *RabbitChannel) Close() {
	if r == nil {
		return
	}
	if r.Ch != nil {
		_ = r.Ch.Close()
	}
	if r.Conn != nil {
		_ = r.Conn.Close()
	}
}
