package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// Recorder stores one moderation entry.  inserted is false for a duplicate.
type Recorder interface {
	Record(ctx context.Context, e model.ModerationEntry) (inserted bool, err error)
}

// errBadEvent marks messages that can never be processed.
var errBadEvent = errors.New("queue: bad moderation event")

// DefaultRetryDelay is the first wait before a failed event is requeued.
const DefaultRetryDelay = 2 * time.Second

const maxRetryDelay = time.Minute

// Consumer writes moderation events into the moderation log.  Deliveries
// are settled one at a time, so failures is only touched by that loop.
type Consumer struct {
	URL        string
	Recorder   Recorder
	RetryDelay time.Duration

	log      *log.Logger
	failures int
}

func NewConsumer(url string, r Recorder) *Consumer {
	return &Consumer{URL: url, Recorder: r, log: log.New("moderation-consumer")}
}

// Run consumes until ctx is cancelled, reconnecting with backoff when the
// broker goes away.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.log.Warnf("dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warnf("consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		c.log.Warnf("set QoS: %v", err)
	}
	if _, err := ch.QueueDeclare(ModerationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, ModerationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Infof("consuming %s", ModerationQueue)

	for d := range msgs {
		c.settle(ctx, d, c.Handle(ctx, d.Body))
	}
	return errors.New("deliveries channel closed")
}

// retryDelay grows with consecutive store failures and is capped.
func (c *Consumer) retryDelay() time.Duration {
	d := c.RetryDelay
	if d <= 0 {
		d = DefaultRetryDelay
	}
	for i := 1; i < c.failures && d < maxRetryDelay; i++ {
		d *= 2
	}
	if d > maxRetryDelay {
		d = maxRetryDelay
	}
	return d
}

// settle acks, drops or requeues d.  A store failure waits before the
// requeue so a down database is not hammered with redeliveries.
func (c *Consumer) settle(ctx context.Context, d amqp.Delivery, err error) {
	switch {
	case err == nil:
		c.failures = 0
		_ = d.Ack(false)
	case errors.Is(err, errBadEvent):
		c.log.Errorf("drop message: %v", err)
		_ = d.Nack(false, false)
	default:
		c.failures++
		delay := c.retryDelay()
		c.log.Errorf("record event: %v; requeue in %s", err, delay)
		sleep(ctx, delay)
		_ = d.Nack(false, true)
	}
}

// Handle decodes one message body and records it.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev ModerationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", errBadEvent, err)
	}
	if ev.CommentID == 0 || (ev.Status != model.StatusApproved && ev.Status != model.StatusRejected) {
		return fmt.Errorf("%w: comment %s status %q", errBadEvent, ev.CommentID, ev.Status)
	}
	inserted, err := c.Recorder.Record(ctx, ev.Entry())
	if err != nil {
		return err
	}
	if !inserted {
		c.log.Debugf("duplicate event %s ignored", ev.EventID)
	}
	return nil
}
