package jarz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ackTopicPrefix namespaces the per-push acknowledgment topics.
const ackTopicPrefix = "jarz.peer.ack."

// PushToPeers publishes entries to sibling mirrors and blocks until one
// acknowledges. This is the sending half of the synchronization barrier: when
// PushToPeers returns nil, the acknowledging mirror reflects the pushed
// entries and the caller may safely continue.
//
// The acknowledgment arrives on a unique reply topic, so concurrent pushes
// do not observe each other's acks. Cancellation of ctx abandons the wait;
// the push itself may still have applied.
func PushToPeers(ctx context.Context, bus Bus, entries []Entry) error {
	reply := ackTopicPrefix + uuid.NewString()

	acked := make(chan struct{}, 1)
	unsub, err := bus.Subscribe(reply, func(_ context.Context, _ Message) {
		select {
		case acked <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to ack topic: %w", err)
	}
	defer unsub()

	if err := bus.Publish(ctx, TopicPeerPush, Message{Entries: entries, Reply: reply}); err != nil {
		return fmt.Errorf("failed to publish peer push: %w", err)
	}

	select {
	case <-acked:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
