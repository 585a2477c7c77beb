package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
)

// Client publishes and consumes row sync events on a direct exchange with
// a durable queue. Publish failures trip a circuit breaker so a dead
// broker degrades row writes into log lines instead of stalling them.
type Client struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	// circuit breaker, all accessed atomically
	failureCount  int64
	state         int32
	lastFailureNs int64
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

// connect dials the broker and declares the exchange, queue and binding.
func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

func setup(channel *amqp091.Channel, exchangeName, queueName string) error {
	err := channel.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key equals the queue name on a direct exchange.
	err = channel.QueueBind(queueName, queueName, exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishRowEvent publishes a row sync event for the worker to replay.
func (c *Client) PublishRowEvent(ctx context.Context, event *RowEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return errors.New("circuit breaker is open, not publishing")
	}

	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.publish(ctx, body); err != nil {
		if isConnectionError(err) {
			if rerr := c.reconnect(); rerr == nil {
				err = c.publish(ctx, body)
			}
		}
		if err != nil {
			c.recordFailure()
			return fmt.Errorf("publish event: %w", err)
		}
	}

	c.recordSuccess()
	slog.InfoContext(ctx, "Published row sync event",
		"event", event.Event,
		"sheet", event.Sheet,
		"record_id", event.RecordID,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()

	if channel == nil {
		return errors.New("connection closed")
	}

	return channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// ConsumeRowEvents delivers events to the handler with manual acks:
// malformed messages are rejected without requeue, handler failures are
// requeued. A dropped broker connection is retried with backoff until the
// context ends.
func (c *Client) ConsumeRowEvents(ctx context.Context, handler func(*RowEvent) error) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.consume(ctx, handler)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		attempt++
		slog.WarnContext(ctx, "AMQP consumer lost connection, retrying",
			"error", err, "attempt", attempt, "backoff", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		if rerr := c.reconnect(); rerr != nil {
			slog.WarnContext(ctx, "AMQP reconnect failed", "error", rerr)
			continue
		}
		attempt = 0
	}
}

func (c *Client) consume(ctx context.Context, handler func(*RowEvent) error) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()

	if channel == nil {
		return errors.New("connection closed")
	}

	msgs, err := channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming row sync events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return nil
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("connection closed: delivery channel drained")
			}

			event, err := RowEventFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal event", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}
			if !event.Event.IsValid() || event.Sheet == "" || event.RecordID == "" {
				slog.ErrorContext(ctx, "Rejecting malformed event",
					"event", event.Event, "sheet", event.Sheet, "record_id", event.RecordID)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				slog.ErrorContext(ctx, "Failed to handle event",
					"error", err,
					"event", event.Event,
					"sheet", event.Sheet,
					"record_id", event.RecordID)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
			slog.InfoContext(ctx, "Processed row sync event",
				"event", event.Event,
				"sheet", event.Sheet,
				"record_id", event.RecordID)
		}
	}
}

// reconnect tears down the current connection and dials again.
func (c *Client) reconnect() error {
	c.mu.Lock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	return c.connect()
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// isCircuitOpen reports whether publishing is currently suppressed. An
// open circuit flips to half-open once the timeout passes, letting the
// next publish probe the broker.
func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		last := time.Unix(0, atomic.LoadInt64(&c.lastFailureNs))
		if time.Since(last) > openTimeout {
			atomic.StoreInt32(&c.state, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordFailure() {
	atomic.StoreInt64(&c.lastFailureNs, time.Now().UnixNano())
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		return time.Second
	}
	d := time.Second << uint(attempt)
	if d <= 0 || d > 30*time.Second {
		return 30 * time.Second
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"connection refused",
		"connection closed",
		"EOF",
		"broken pipe",
		"closed network connection",
		"channel/connection is not open",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
