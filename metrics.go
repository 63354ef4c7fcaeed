package jarz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key mirror events.
type MetricsProvider interface {
	// OnStateChange is called when the mirror transitions between states.
	OnStateChange(from, to State)

	// OnReconcileSuccess is called when a reconciliation tick replaces the
	// mirror. Duration is the time taken by the authoritative fetch and apply.
	OnReconcileSuccess(duration time.Duration)

	// OnReconcileFailure is called when a reconciliation tick fails.
	OnReconcileFailure(duration time.Duration)

	// OnReconcileDiscarded is called when a tick's result arrives after
	// teardown and is dropped.
	OnReconcileDiscarded(duration time.Duration)

	// OnWriteApplied is called when a host write merges entries into the
	// mirror. Entries is the number of parsed entries merged.
	OnWriteApplied(entries int)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)             {}
func (NoOpMetricsProvider) OnReconcileSuccess(_ time.Duration)   {}
func (NoOpMetricsProvider) OnReconcileFailure(_ time.Duration)   {}
func (NoOpMetricsProvider) OnReconcileDiscarded(_ time.Duration) {}
func (NoOpMetricsProvider) OnWriteApplied(_ int)                 {}
