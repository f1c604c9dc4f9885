package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler consumes one normalized change event. A panic inside a handler is
// recovered by the dispatch loop; it never tears down the subscription.
type Handler func(Event)

// Subscription is one live binding to a table's change stream.
type Subscription interface {
	Close() error
}

// Feed delivers change events for individual tables.
type Feed interface {
	Subscribe(table string, handler Handler) (Subscription, error)
}

// Publisher emits change events after successful mutations.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Client is a RabbitMQ-backed Feed and Publisher. Events are published to a
// topic exchange with routing key "change.<table>"; each subscription gets
// its own exclusive queue bound to that key.
type Client struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Dial connects to RabbitMQ and declares the change exchange.
func Dial(host string, port int, user, pass, exchange string) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, pass, host, port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &Client{conn: conn, ch: ch, exchange: exchange}, nil
}

// Close releases the publishing channel and the connection. Subscriptions
// hold their own channels and must be closed by their owners.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Publish sends one change event to the exchange.
func (c *Client) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return c.ch.PublishWithContext(ctx, c.exchange, routingKey(ev.Table), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
}

// Subscribe binds an exclusive queue to the table's routing key and starts a
// dispatch goroutine. The returned Subscription owns its channel, so closing
// it stops delivery without touching other subscriptions.
func (c *Client) Subscribe(table string, handler Handler) (Subscription, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel for %s: %w", table, err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue for %s: %w", table, err)
	}
	if err := ch.QueueBind(q.Name, routingKey(table), c.exchange, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("bind queue for %s: %w", table, err)
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("consume %s: %w", table, err)
	}

	go dispatch(table, deliveries, handler)

	return &amqpSubscription{ch: ch}, nil
}

func routingKey(table string) string { return "change." + table }

type amqpSubscription struct {
	ch *amqp.Channel
}

// Close stops delivery; the exclusive queue is auto-deleted by the broker.
func (s *amqpSubscription) Close() error { return s.ch.Close() }

// dispatch decodes and hands off deliveries until the channel closes. Bad
// payloads and handler failures are logged and skipped so one poisoned event
// cannot stall the stream.
func dispatch(table string, deliveries <-chan amqp.Delivery, handler Handler) {
	for d := range deliveries {
		ev, err := decodeEvent(d.Body)
		if err != nil {
			log.Printf("changefeed: dropping event on %s: %v", table, err)
			continue
		}
		safeHandle(handler, ev)
	}
	log.Printf("changefeed: delivery stream for %s closed", table)
}

func safeHandle(handler Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("changefeed: handler panic on %s %s: %v", ev.Table, ev.Op, r)
		}
	}()
	handler(ev)
}
