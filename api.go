// Package jarz provides a synchronous, locally cached view of a cookie store
// for contexts that cannot reach the real store synchronously.
//
// The core type is Mirror, which owns a serialized cookie line and keeps it
// eventually consistent with an authoritative asynchronous Store and with
// updates pushed by sibling contexts over a Bus:
//
//	Host write → Parse → Merge → mirror (+ fire-and-forget store push)
//	Reconcile tick → Store.GetCookies → wholesale replace
//	Peer push / authoritative event → Merge or reset
//
// Reads and writes are plain synchronous calls and never fail; every failure
// mode on the asynchronous side degrades to "the mirror retains its last
// known-good value".
//
// # Consistency
//
// Host writes are optimistic: they apply locally first and propagate to the
// store in the background. A reconciliation tick issued before a write may
// apply its now-stale snapshot after the write, clobbering it until the next
// tick. This race is accepted and documented; ordering is only guaranteed for
// peer pushes, whose acknowledgment reply lets the sender block until the
// mirror reflects the pushed entries (see PushToPeers).
//
// Ticks themselves are serialized: a new tick does not start until the
// previous one has applied or been discarded, so authoritative snapshots
// never apply out of order.
//
// # Example
//
//	mirror := jarz.New(document.Cookie(), nil, store, bus).
//	    Scope("https://example.com").
//	    Interval(time.Second)
//
//	if err := mirror.Start(ctx); err != nil {
//	    return err
//	}
//	defer mirror.Stop()
//
//	line := mirror.Read()           // synchronous snapshot
//	line = mirror.Write("a=1; b=2") // merged aggregate, not just the fragment
package jarz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultInterval is the default reconciliation interval.
const DefaultInterval = 500 * time.Millisecond

// Mirror owns a locally cached cookie line and keeps it eventually consistent
// with an authoritative Store and a peer Bus. All mutation goes through its
// methods; each mutation of the line is atomic with respect to the others.
type Mirror struct {
	store    Store
	bus      Bus
	pipeline pipz.Chainable[Entry]
	scope    string
	interval time.Duration
	syncMode bool
	clock    clockz.Clock
	metrics  MetricsProvider

	state     atomic.Int32
	active    atomic.Bool
	lastError atomic.Pointer[error]

	mu      sync.Mutex
	line    string
	ctx     context.Context
	started bool

	cancel context.CancelFunc
	unsubs []func()
}

// New creates a Mirror whose initial line is the host's pre-existing cookie
// line merged with the initial entry set.
//
// The store is the authoritative client reached only through asynchronous
// calls; the bus delivers peer pushes and out-of-band authoritative updates.
// Pipeline options (With*) wrap the fire-and-forget store push; instance
// configuration uses chainable methods before calling Start().
//
// Example:
//
//	mirror := jarz.New(hostLine, nil, store, bus,
//	    jarz.WithRetry(3),
//	).Scope("https://example.com")
func New(hostLine string, initial []Entry, store Store, bus Bus, opts ...Option) *Mirror {
	m := &Mirror{
		store:    store,
		bus:      bus,
		interval: DefaultInterval,
		clock:    clockz.RealClock,
		line:     Merge(hostLine, initial),
		ctx:      context.Background(),
	}
	m.state.Store(int32(StateLoading))

	terminal := pipz.Effect(pipz.Name("store-push"), func(ctx context.Context, e Entry) error {
		return m.store.SetCookie(ctx, m.scope, e)
	})
	m.pipeline = buildPipeline(terminal, opts)

	return m
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Interval sets the reconciliation interval.
// Default: 500ms. Must be called before Start().
func (m *Mirror) Interval(d time.Duration) *Mirror {
	m.interval = d
	return m
}

// Scope sets the opaque domain scope passed to the authoritative store.
// The Mirror treats it as an uninterpreted partition identifier.
// Must be called before Start().
func (m *Mirror) Scope(scope string) *Mirror {
	m.scope = scope
	return m
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic reconciliation testing.
// Must be called before Start().
func (m *Mirror) Clock(clock clockz.Clock) *Mirror {
	m.clock = clock
	return m
}

// SyncMode enables synchronous processing for testing. In sync mode no
// reconciliation goroutine runs (use Tick to trigger ticks manually) and
// store pushes happen inline on the writer's goroutine, making tests
// deterministic. Must be called before Start().
func (m *Mirror) SyncMode() *Mirror {
	m.syncMode = true
	return m
}

// Metrics sets a metrics provider for observability integration.
// The provider receives callbacks on state changes, reconciliation results,
// and applied writes. Must be called before Start().
func (m *Mirror) Metrics(provider MetricsProvider) *Mirror {
	m.metrics = provider
	return m
}

// -----------------------------------------------------------------------------
// Introspection
// -----------------------------------------------------------------------------

// State returns the current reconciliation state of the Mirror.
func (m *Mirror) State() State {
	return State(m.state.Load())
}

// LastError returns the last swallowed error, or nil. Errors never propagate
// to Read or Write callers; this is the only place they surface.
func (m *Mirror) LastError() error {
	ptr := m.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start subscribes to all bus topics and begins the reconciliation loop.
// In sync mode no loop is started; use Tick to reconcile manually.
//
// Start can only be called once. Subsequent calls return an error.
func (m *Mirror) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("mirror already started")
	}
	m.started = true
	runCtx, cancel := context.WithCancel(ctx)
	m.ctx = runCtx
	m.cancel = cancel
	m.mu.Unlock()

	if err := m.subscribe(); err != nil {
		cancel()
		return err
	}

	m.active.Store(true)
	capitan.Emit(ctx, MirrorStarted,
		KeyInterval.Field(m.interval),
		KeyScope.Field(m.scope),
	)

	if m.syncMode {
		return nil
	}

	go m.run(runCtx)
	return nil
}

// Stop tears the Mirror down: no further reconciliation results apply and
// all bus subscriptions are released. In-flight store calls are not
// cancelled; their results are discarded via the active guard. The line
// remains readable. Stop is idempotent.
func (m *Mirror) Stop() {
	if !m.active.CompareAndSwap(true, false) {
		return
	}

	m.mu.Lock()
	cancel := m.cancel
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, unsub := range unsubs {
		unsub()
	}

	m.transitionState(context.Background(), m.State(), StateStopped)
	capitan.Emit(context.Background(), MirrorStopped,
		KeyState.Field(StateStopped.String()),
	)
}

// subscribe registers all topic handlers, rolling back on failure.
func (m *Mirror) subscribe() error {
	handlers := []struct {
		topic string
		fn    Handler
	}{
		{TopicPeerPush, m.onPeerPush},
		{TopicAuthoritativeSet, func(_ context.Context, msg Message) {
			for _, e := range msg.Entries {
				m.ApplyAuthoritativeSet(e)
			}
		}},
		{TopicAuthoritativeClear, func(_ context.Context, msg Message) {
			m.ClearOne(msg.Name)
		}},
		{TopicAuthoritativeClearAll, func(_ context.Context, _ Message) {
			m.ResetAll()
		}},
		{TopicSessionBoundary, func(_ context.Context, _ Message) {
			m.ResetAll()
		}},
	}

	var unsubs []func()
	for _, h := range handlers {
		unsub, err := m.bus.Subscribe(h.topic, h.fn)
		if err != nil {
			for _, u := range unsubs {
				u()
			}
			return fmt.Errorf("failed to subscribe %s: %w", h.topic, err)
		}
		unsubs = append(unsubs, unsub)
	}

	m.mu.Lock()
	m.unsubs = unsubs
	m.mu.Unlock()
	return nil
}

// -----------------------------------------------------------------------------
// Host accessor contract
// -----------------------------------------------------------------------------

// Read returns the current line synchronously, with no side effects.
// This is the contract behind the host accessor's getter.
func (m *Mirror) Read() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.line
}

// Write parses a raw cookie line and merges it into the mirror, then pushes
// each parsed entry to the authoritative store fire-and-forget. It returns
// the full merged aggregate, not just the written fragment.
//
// Input that parses to zero entries leaves the mirror unchanged; Write never
// fails. This is the contract behind the host accessor's setter.
func (m *Mirror) Write(raw string) string {
	entries := Parse(raw)

	m.mu.Lock()
	ctx := m.ctx
	if len(entries) == 0 {
		line := m.line
		m.mu.Unlock()
		capitan.Emit(ctx, WriteIgnored)
		return line
	}
	m.line = Merge(m.line, entries)
	line := m.line
	m.mu.Unlock()

	capitan.Emit(ctx, WriteApplied,
		KeyEntryCount.Field(len(entries)),
	)
	if m.metrics != nil {
		m.metrics.OnWriteApplied(len(entries))
	}

	for _, e := range entries {
		m.push(ctx, e)
	}
	return line
}

// push sends one entry through the store pipeline. Failures are swallowed;
// they surface only via LastError and the StorePushFailed signal. The push
// runs on a detached context: teardown does not abort it, and stale results
// are handled by the active guard rather than cancellation.
func (m *Mirror) push(ctx context.Context, e Entry) {
	ctx = context.WithoutCancel(ctx)
	send := func() {
		if _, err := m.pipeline.Process(ctx, e); err != nil {
			m.setError(err)
			capitan.Emit(ctx, StorePushFailed,
				KeyName.Field(e.Name),
				KeyError.Field(err.Error()),
			)
		}
	}
	if m.syncMode {
		send()
		return
	}
	go send()
}

// -----------------------------------------------------------------------------
// Bus-driven mutation
// -----------------------------------------------------------------------------

// ApplyPeerPush merges entries pushed by a sibling context into the mirror.
func (m *Mirror) ApplyPeerPush(entries []Entry) {
	m.mu.Lock()
	m.line = Merge(m.line, entries)
	ctx := m.ctx
	m.mu.Unlock()

	capitan.Emit(ctx, PeerPushApplied,
		KeyEntryCount.Field(len(entries)),
	)
}

// ApplyAuthoritativeSet merges a single out-of-band authoritative entry.
func (m *Mirror) ApplyAuthoritativeSet(e Entry) {
	m.mu.Lock()
	m.line = Merge(m.line, []Entry{e})
	m.mu.Unlock()
}

// ClearOne removes the named entry from the mirror.
func (m *Mirror) ClearOne(name string) {
	m.mu.Lock()
	m.line = ClearOne(m.line, name)
	m.mu.Unlock()
}

// ResetAll discards all entries from the mirror.
func (m *Mirror) ResetAll() {
	m.mu.Lock()
	m.line = Reset()
	ctx := m.ctx
	m.mu.Unlock()

	capitan.Emit(ctx, SessionReset)
}

// onPeerPush merges pushed entries and acknowledges the sender. The
// acknowledgment is the synchronization barrier: once it is published the
// mirror is guaranteed to reflect the pushed entries.
func (m *Mirror) onPeerPush(ctx context.Context, msg Message) {
	m.ApplyPeerPush(msg.Entries)
	if msg.Reply != "" {
		_ = m.bus.Publish(ctx, msg.Reply, Message{}) //nolint:errcheck // Ack failure degrades to a blocked sender
	}
}

// -----------------------------------------------------------------------------
// Reconciliation
// -----------------------------------------------------------------------------

// Tick runs one reconciliation synchronously. This is only available in sync
// mode and is used for deterministic testing. Returns false if the Mirror is
// not in sync mode or is stopped.
func (m *Mirror) Tick(ctx context.Context) bool {
	if !m.syncMode || !m.active.Load() {
		return false
	}
	m.reconcile(ctx)
	return true
}

// run drives periodic reconciliation. The timer is rearmed only after a tick
// completes, so ticks never overlap and stale snapshots cannot apply after
// fresher ones.
func (m *Mirror) run(ctx context.Context) {
	timer := m.clock.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C():
			m.reconcile(ctx)
			timer.Reset(m.interval)
		}
	}
}

// reconcile fetches the authoritative entry set and replaces the mirror
// wholesale. The authoritative result is complete ground truth, so this is a
// full overwrite rather than a merge. On failure the mirror is unchanged; a
// result arriving after teardown is discarded. The fetch runs on a detached
// context so teardown leaves it to resolve on its own.
func (m *Mirror) reconcile(ctx context.Context) {
	start := m.clock.Now()
	oldState := m.State()

	entries, err := m.store.GetCookies(context.WithoutCancel(ctx), m.scope)

	if !m.active.Load() {
		capitan.Emit(ctx, ReconcileDiscarded)
		if m.metrics != nil {
			m.metrics.OnReconcileDiscarded(m.clock.Since(start))
		}
		return
	}

	if err != nil {
		m.setError(err)
		m.transitionState(ctx, oldState, StateDegraded)
		capitan.Emit(ctx, ReconcileFailed,
			KeyError.Field(err.Error()),
		)
		if m.metrics != nil {
			m.metrics.OnReconcileFailure(m.clock.Since(start))
		}
		return
	}

	m.mu.Lock()
	m.line = Stringify(entries)
	m.mu.Unlock()

	m.lastError.Store(nil)
	m.transitionState(ctx, oldState, StateSynced)
	capitan.Emit(ctx, ReconcileApplied,
		KeyEntryCount.Field(len(entries)),
	)
	if m.metrics != nil {
		m.metrics.OnReconcileSuccess(m.clock.Since(start))
	}
}

// transitionState updates the state and emits a state change event if changed.
func (m *Mirror) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	m.state.Store(int32(newState))
	capitan.Emit(ctx, MirrorStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if m.metrics != nil {
		m.metrics.OnStateChange(oldState, newState)
	}
}

// setError stores an error atomically.
func (m *Mirror) setError(err error) {
	e := err
	m.lastError.Store(&e)
}
