// Package service publishes moderation events to RabbitMQ.  Publishing is
// best effort: failures are logged and returned, and callers never block a
// user action on them.
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/campus-access-map/internal/queue"
)

// Publisher sends moderation events.
type Publisher interface {
	PublishModerated(ctx context.Context, ev q.ModerationEvent) error
}

// NopPublisher drops every event.  Used when MODERATION_EVENTS is off.
type NopPublisher struct{}

func (NopPublisher) PublishModerated(context.Context, q.ModerationEvent) error { return nil }

// AMQPPublisher publishes persistent messages on the moderation queue.  It
// dials once and redials after the connection drops.
type AMQPPublisher struct {
	url string
	log *log.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, log: log.New("moderation-publisher")}
}

func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return conn, nil
}

// PublishModerated declares the queue (idempotent) and publishes ev.
func (p *AMQPPublisher) PublishModerated(ctx context.Context, ev q.ModerationEvent) error {
	conn, err := p.connection()
	if err != nil {
		p.log.Warnf("dial failed: %v", err)
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		p.log.Warnf("channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(q.ModerationQueue, true, false, false, false, nil); err != nil {
		p.log.Warnf("queue declare failed: %v", err)
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", q.ModerationQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.log.Warnf("publish failed: %v", err)
	}
	return err
}

// Close drops the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
