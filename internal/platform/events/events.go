// Package events publishes adjudication and payroll outcomes to an AMQP
// topic exchange for downstream consumers (case management, analytics).
// When no broker is configured the publisher degrades to a logging noop.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	slog.Debug("event publish skipped, no broker configured", "routingKey", routingKey)
	return nil
}

func (noopPublisher) Close() {}

type amqpPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func New(amqpURL, exchange string) (Publisher, error) {
	if amqpURL == "" {
		return noopPublisher{}, nil
	}

	conn, err := amqp.DialConfig(amqpURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &amqpPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        payload,
	})
}

func (p *amqpPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
