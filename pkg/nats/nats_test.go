package nats

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"

	"github.com/zoobzio/jarz"
)

func setupNATS(t *testing.T) *nats.Conn {
	t.Helper()
	ctx := context.Background()

	container, err := tcnats.Run(ctx, "nats:2.10-alpine")
	if err != nil {
		t.Fatalf("failed to start nats container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get endpoint: %v", err)
	}

	nc, err := nats.Connect(endpoint)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		nc.Close()
	})
	return nc
}

func TestBus_PublishReachesSubscriber(t *testing.T) {
	nc := setupNATS(t)
	bus := New(nc)

	received := make(chan jarz.Message, 1)
	unsub, err := bus.Subscribe("jarz.test.topic", func(_ context.Context, msg jarz.Message) {
		received <- msg
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsub()

	want := jarz.Message{
		Entries: []jarz.Entry{{Name: "a", Value: "1"}},
		Reply:   "jarz.test.reply",
	}
	if err := bus.Publish(context.Background(), "jarz.test.topic", want); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got.Reply != want.Reply || len(got.Entries) != 1 || got.Entries[0] != want.Entries[0] {
			t.Errorf("expected %v, got %v", want, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	nc := setupNATS(t)
	bus := New(nc)

	received := make(chan jarz.Message, 4)
	unsub, err := bus.Subscribe("jarz.test.unsub", func(_ context.Context, msg jarz.Message) {
		received <- msg
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := bus.Publish(context.Background(), "jarz.test.unsub", jarz.Message{Name: "first"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for first message")
	}

	unsub()

	if err := bus.Publish(context.Background(), "jarz.test.unsub", jarz.Message{Name: "second"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-received:
		t.Errorf("expected no delivery after unsubscribe, got %v", msg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestBus_MalformedPayloadDropped(t *testing.T) {
	nc := setupNATS(t)
	bus := New(nc)

	received := make(chan jarz.Message, 1)
	unsub, err := bus.Subscribe("jarz.test.malformed", func(_ context.Context, msg jarz.Message) {
		received <- msg
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsub()

	if err := nc.Publish("jarz.test.malformed", []byte("not json")); err != nil {
		t.Fatalf("raw publish failed: %v", err)
	}

	select {
	case msg := <-received:
		t.Errorf("expected malformed message dropped, got %v", msg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestBus_PeerPushBarrierAcrossConnections(t *testing.T) {
	nc := setupNATS(t)

	// Receiver side: a mirror subscribed over its own bus.
	mirror := jarz.New("a=1", nil, &nullStore{}, New(nc)).SyncMode()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mirror.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer mirror.Stop()

	// Sender side blocks until the mirror acknowledges.
	err := jarz.PushToPeers(ctx, New(nc), []jarz.Entry{{Name: "b", Value: "2"}})
	if err != nil {
		t.Fatalf("PushToPeers failed: %v", err)
	}

	if got := mirror.Read(); got != "a=1; b=2" {
		t.Errorf("expected %q, got %q", "a=1; b=2", got)
	}
}

// nullStore satisfies jarz.Store for tests that never reconcile.
type nullStore struct{}

func (nullStore) GetCookies(_ context.Context, _ string) ([]jarz.Entry, error) {
	return nil, nil
}

func (nullStore) SetCookie(_ context.Context, _ string, _ jarz.Entry) error {
	return nil
}
