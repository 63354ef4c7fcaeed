package jarz

import "github.com/zoobzio/capitan"

// Field keys for Mirror events.
var (
	// KeyState is the current state of the Mirror.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyInterval is the configured reconciliation interval.
	KeyInterval = capitan.NewDurationKey("interval")

	// KeyScope is the opaque domain scope passed to the authoritative store.
	KeyScope = capitan.NewStringKey("scope")

	// KeyName is the cookie name involved in a single-entry mutation.
	KeyName = capitan.NewStringKey("name")

	// KeyEntryCount is the number of entries involved in a mutation.
	KeyEntryCount = capitan.NewIntKey("entry_count")
)
