package jarz

import "github.com/zoobzio/capitan"

// Mirror lifecycle signals.
var (
	// MirrorStarted is emitted when a Mirror begins reconciling.
	MirrorStarted = capitan.NewSignal(
		"jarz.mirror.started",
		"Mirror reconciliation started",
	)

	// MirrorStopped is emitted when a Mirror is torn down.
	MirrorStopped = capitan.NewSignal(
		"jarz.mirror.stopped",
		"Mirror torn down",
	)

	// MirrorStateChanged is emitted when a Mirror transitions between states.
	MirrorStateChanged = capitan.NewSignal(
		"jarz.mirror.state.changed",
		"Mirror state transition",
	)
)

// Mutation signals.
var (
	// WriteApplied is emitted when a host write merges entries into the mirror.
	WriteApplied = capitan.NewSignal(
		"jarz.write.applied",
		"Host write merged into mirror",
	)

	// WriteIgnored is emitted when a host write parses to zero entries and is
	// dropped without touching the mirror.
	WriteIgnored = capitan.NewSignal(
		"jarz.write.ignored",
		"Host write yielded no entries",
	)

	// PeerPushApplied is emitted when entries pushed by a sibling context are
	// merged into the mirror.
	PeerPushApplied = capitan.NewSignal(
		"jarz.peer.push.applied",
		"Peer push merged into mirror",
	)

	// SessionReset is emitted when a session boundary or clear-all discards
	// the mirror's entries.
	SessionReset = capitan.NewSignal(
		"jarz.session.reset",
		"Mirror entries discarded",
	)
)

// Reconciliation and store signals.
var (
	// ReconcileApplied is emitted when a reconciliation tick replaces the
	// mirror with the authoritative store's entries.
	ReconcileApplied = capitan.NewSignal(
		"jarz.reconcile.applied",
		"Authoritative snapshot applied",
	)

	// ReconcileFailed is emitted when a reconciliation tick fails. The mirror
	// is left unchanged.
	ReconcileFailed = capitan.NewSignal(
		"jarz.reconcile.failed",
		"Authoritative fetch failed",
	)

	// ReconcileDiscarded is emitted when a tick's result arrives after
	// teardown and is dropped.
	ReconcileDiscarded = capitan.NewSignal(
		"jarz.reconcile.discarded",
		"Stale reconciliation result dropped",
	)

	// StorePushFailed is emitted when a fire-and-forget store write fails.
	StorePushFailed = capitan.NewSignal(
		"jarz.store.push.failed",
		"Store write failed",
	)
)
