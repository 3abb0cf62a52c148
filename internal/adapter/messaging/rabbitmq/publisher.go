package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"alumni-platform/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialTimeout = 10 * time.Second

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.EventPublisher on a durable topic exchange.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	reopen   func() (channel, error)
	exchange string
	log      zerolog.Logger
}

// NewPublisher dials the broker and declares the exchange.
func NewPublisher(rawURL, exchange string, log zerolog.Logger) (*Publisher, error) {
	cleanURL, err := sanitizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	reopen := func() (channel, error) { return conn.Channel() }

	p, err := newPublisher(reopen, exchange, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(open func() (channel, error), exchange string, log zerolog.Logger) (*Publisher, error) {
	ch, err := open()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch, exchange); err != nil {
		ch.Close()
		return nil, err
	}
	return &Publisher{
		ch:       ch,
		reopen:   open,
		exchange: exchange,
		log:      log.With().Str("component", "rabbitmq_publisher").Logger(),
	}, nil
}

func declare(ch channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

// Publish sends event as JSON under routingKey. A failed publish reopens the
// channel and retries once.
func (p *Publisher) Publish(ctx context.Context, routingKey string, event ports.DonationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    event.DonationID,
		Type:         event.EventType,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}
	p.log.Warn().Err(err).Str("routing_key", routingKey).Msg("publish failed; reopening channel")

	ch, chErr := p.reopen()
	if chErr != nil {
		return errors.Join(err, fmt.Errorf("reopen channel: %w", chErr))
	}
	if exErr := declare(ch, p.exchange); exErr != nil {
		ch.Close()
		return errors.Join(err, exErr)
	}
	p.ch.Close()
	p.ch = ch

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogPublisher stands in when no broker is configured or reachable.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher creates a publisher that only logs events.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "rabbitmq_publisher").Str("mode", "fallback").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, routingKey string, event ports.DonationEvent) error {
	p.log.Info().
		Str("routing_key", routingKey).
		Str("donation_id", event.DonationID).
		Str("order_id", event.OrderID).
		Msg("publish skipped")
	return nil
}

// sanitizeURL trims quotes and stray prefixes that env files tend to leave behind.
func sanitizeURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("parse amqp url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("amqp url scheme must be amqp:// or amqps://")
	}
	return clean, nil
}
