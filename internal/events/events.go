package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/nats-io/nats.go"
)

const (
	StreamName = "FLIGHT_SEARCH"

	SubjectSearchCompleted  = "search.completed"
	SubjectPricingCompleted = "pricing.completed"
)

// Publisher announces search and pricing outcomes
type Publisher interface {
	PublishSearch(ctx context.Context, event models.SearchEvent) error
	PublishPricing(ctx context.Context, state models.PricingWorkflowState) error
	Close()
}

// JetStreamPublisher is the part of nats.JetStreamContext the client uses
type JetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Client publishes events to a NATS JetStream stream
type Client struct {
	conn *nats.Conn
	js   JetStreamPublisher
}

// New connects to NATS and makes sure the stream exists
func New(url string) (*Client, error) {
	nc, err := nats.Connect(url, nats.Name("skytrips-flight-search"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"search.>", "pricing.>"},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil && !strings.Contains(err.Error(), "stream name already in use") {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &Client{conn: nc, js: js}, nil
}

// NewWithJetStream wraps an existing publisher (useful for testing)
func NewWithJetStream(js JetStreamPublisher) *Client {
	return &Client{js: js}
}

// PublishSearch publishes a search.completed event
func (c *Client) PublishSearch(ctx context.Context, event models.SearchEvent) error {
	return c.publish(ctx, SubjectSearchCompleted, event)
}

// PublishPricing publishes a pricing.completed event
func (c *Client) PublishPricing(ctx context.Context, state models.PricingWorkflowState) error {
	return c.publish(ctx, SubjectPricingCompleted, state)
}

func (c *Client) publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := c.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// Close closes the NATS connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// Noop drops every event. It is used when NATS_URL is unset.
type Noop struct{}

func (Noop) PublishSearch(context.Context, models.SearchEvent) error           { return nil }
func (Noop) PublishPricing(context.Context, models.PricingWorkflowState) error { return nil }
func (Noop) Close()                                                            {}

// Connect returns a NATS client for url, or Noop when url is empty
func Connect(url string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return New(url)
}
