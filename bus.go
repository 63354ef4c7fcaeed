package jarz

import (
	"context"
	"sync"
)

// Topics a Mirror subscribes to. Sibling contexts and the authoritative side
// publish on these; the Mirror publishes only acknowledgment replies.
const (
	// TopicPeerPush carries entries pushed by a sibling context. The message's
	// Reply topic, when set, receives an acknowledgment once the entries are
	// merged, letting the sender block until the mirror reflects them.
	TopicPeerPush = "jarz.peer.push"

	// TopicAuthoritativeSet carries a single entry set on the authoritative
	// store out of band; it is merged into the mirror.
	TopicAuthoritativeSet = "jarz.authoritative.set"

	// TopicAuthoritativeClear names a single entry removed from the
	// authoritative store.
	TopicAuthoritativeClear = "jarz.authoritative.clear"

	// TopicAuthoritativeClearAll signals that the authoritative store was
	// emptied; the mirror discards all entries.
	TopicAuthoritativeClearAll = "jarz.authoritative.clear-all"

	// TopicSessionBoundary signals a session boundary; the mirror discards
	// all entries.
	TopicSessionBoundary = "jarz.session.boundary"
)

// Message is the payload exchanged over a Bus. Which fields are meaningful
// depends on the topic: Entries for pushes and sets, Name for single-entry
// clears, Reply for the peer-push acknowledgment topic. Acknowledgments
// themselves carry an empty Message.
type Message struct {
	Entries []Entry `json:"entries,omitempty"`
	Name    string  `json:"name,omitempty"`
	Reply   string  `json:"reply,omitempty"`
}

// Handler receives messages published on a subscribed topic.
type Handler func(ctx context.Context, msg Message)

// Bus is a topic-based publish/subscribe point connecting a Mirror to its
// sibling contexts and to the authoritative side's out-of-band updates.
type Bus interface {
	// Subscribe registers a handler for a topic and returns a function that
	// releases the subscription.
	Subscribe(topic string, fn Handler) (func(), error)

	// Publish delivers a message to all handlers subscribed to the topic.
	Publish(ctx context.Context, topic string, msg Message) error
}

// MemoryBus is an in-process Bus. Publish dispatches synchronously to every
// subscribed handler in subscription order. Useful for testing and for
// wiring mirrors within a single process; see pkg/nats for a networked Bus.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	next     int
}

type subscription struct {
	id int
	fn Handler
}

// NewMemoryBus creates an empty MemoryBus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]subscription)}
}

// Subscribe registers a handler for a topic.
func (b *MemoryBus) Subscribe(topic string, fn Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[topic]
		for i, s := range subs {
			if s.id == id {
				b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}, nil
}

// Publish invokes every handler subscribed to the topic on the caller's
// goroutine. Publishing to a topic with no subscribers is not an error.
func (b *MemoryBus) Publish(ctx context.Context, topic string, msg Message) error {
	b.mu.RLock()
	fns := make([]Handler, 0, len(b.handlers[topic]))
	for _, s := range b.handlers[topic] {
		fns = append(fns, s.fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ctx, msg)
	}
	return nil
}

// Ensure MemoryBus implements Bus.
var _ Bus = (*MemoryBus)(nil)
