// Package events publishes generation status updates to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const DefaultExchange = "roadmap_updates"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Update is one status change for a generation request.
type Update struct {
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUpdate(requestID, status, message string) Update {
	return Update{
		RequestID: requestID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, u Update) error
	Close() error
}

// Nop drops every update. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Update) error { return nil }
func (Nop) Close() error                          { return nil }

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends updates to a topic exchange, one channel per publish
// over a shared connection.
type AMQPPublisher struct {
	conn     *amqp.Connection
	open     func() (channel, error)
	exchange string
}

func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	p := newAMQPPublisher(func() (channel, error) { return conn.Channel() }, exchange)
	p.conn = conn

	ch, err := p.open()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", p.exchange, err)
	}
	return p, nil
}

func newAMQPPublisher(open func() (channel, error), exchange string) *AMQPPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPPublisher{open: open, exchange: exchange}
}

func RoutingKey(requestID string) string {
	return "request." + requestID
}

func (p *AMQPPublisher) Publish(ctx context.Context, u Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	ch, err := p.open()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		RoutingKey(u.RequestID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   u.Timestamp,
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
