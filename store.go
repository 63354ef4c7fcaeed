package jarz

import "context"

// Store is the authoritative, asynchronous source of truth for cookie
// entries. A Mirror never trusts its local line over a successful GetCookies
// result, and never surfaces a Store failure to the host.
//
// The scope argument is an opaque partition identifier obtained from the
// embedding context; the Mirror passes it through unmodified.
type Store interface {
	// GetCookies fetches the complete entry set for a scope. The result is
	// treated as ground truth: a reconciliation tick replaces the mirror
	// wholesale with it.
	GetCookies(ctx context.Context, scope string) ([]Entry, error)

	// SetCookie writes a single entry. Mirror writes call this
	// fire-and-forget; failures are observed via signals only.
	SetCookie(ctx context.Context, scope string, e Entry) error
}
