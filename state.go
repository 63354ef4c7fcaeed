package jarz

// State represents the reconciliation state of a Mirror.
type State int32

const (
	// StateLoading indicates the Mirror has not yet applied a reconciliation
	// result. Reads serve the locally merged line.
	StateLoading State = iota

	// StateSynced indicates the last reconciliation replaced the mirror with
	// the authoritative store's entries.
	StateSynced

	// StateDegraded indicates the last reconciliation failed. The mirror
	// retains its last known-good line and reconciliation continues.
	StateDegraded

	// StateStopped indicates the Mirror has been torn down. The line remains
	// readable but no further updates are applied.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSynced:
		return "synced"
	case StateDegraded:
		return "degraded"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
