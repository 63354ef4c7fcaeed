// Package nats provides a jarz.Bus implementation over core NATS subjects.
// Topics map directly onto subjects, including the per-push acknowledgment
// reply topics, so the peer synchronization barrier works across processes.
package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/zoobzio/jarz"
)

// Bus is a jarz.Bus backed by a NATS connection.
type Bus struct {
	conn *nats.Conn
}

// New creates a Bus over the given NATS connection. The caller owns the
// connection and its lifecycle.
func New(conn *nats.Conn) *Bus {
	return &Bus{conn: conn}
}

// Subscribe registers a handler for a topic. Messages that fail to decode
// are dropped; a malformed peer message carries nothing a mirror could apply.
func (b *Bus) Subscribe(topic string, fn jarz.Handler) (func(), error) {
	sub, err := b.conn.Subscribe(topic, func(m *nats.Msg) {
		var msg jarz.Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			return
		}
		fn(context.Background(), msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe %s: %w", topic, err)
	}

	return func() {
		_ = sub.Unsubscribe() //nolint:errcheck // Releasing a dead subscription is fine
	}, nil
}

// Publish delivers a message to all subscribers of the topic.
func (b *Bus) Publish(_ context.Context, topic string, msg jarz.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	if err := b.conn.Publish(topic, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// Ensure Bus implements jarz.Bus.
var _ jarz.Bus = (*Bus)(nil)
