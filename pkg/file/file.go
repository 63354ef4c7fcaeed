// Package file provides a jarz.Store backed by cookie-line files, plus a
// Notifier that turns external edits to those files into authoritative bus
// events. It is intended for local development and tests where a sibling
// process edits the cookie file directly.
package file

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/zoobzio/jarz"
)

// Store is a jarz.Store that keeps one cookie-line file per scope inside a
// directory. The directory must exist.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store over the given directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(scope string) string {
	return s.dir + string(os.PathSeparator) + url.PathEscape(scope) + ".cookies"
}

// GetCookies reads and parses the scope's cookie line. A missing file is an
// empty scope, not an error.
func (s *Store) GetCookies(_ context.Context, scope string) ([]jarz.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(scope))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scope %s: %w", scope, err)
	}
	return jarz.Parse(string(data)), nil
}

// SetCookie merges a single entry into the scope's cookie line and rewrites
// the file.
func (s *Store) SetCookie(_ context.Context, scope string, e jarz.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(scope)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read scope %s: %w", scope, err)
	}

	line := jarz.Merge(string(data), []jarz.Entry{e})
	if err := os.WriteFile(path, []byte(line), 0o600); err != nil {
		return fmt.Errorf("failed to write scope %s: %w", scope, err)
	}
	return nil
}

// Ensure Store implements jarz.Store.
var _ jarz.Store = (*Store)(nil)

// Notifier watches one scope's cookie file and publishes the difference
// between successive contents as authoritative bus events: changed or added
// entries as a set, removed entries as clears, and truncation to empty as a
// clear-all.
type Notifier struct {
	store *Store
	scope string
	bus   jarz.Bus
}

// NewNotifier creates a Notifier for a scope within the store's directory.
func NewNotifier(store *Store, scope string, bus jarz.Bus) *Notifier {
	return &Notifier{
		store: store,
		scope: scope,
		bus:   bus,
	}
}

// Run watches until ctx is cancelled. The store's directory is watched
// rather than the file itself so the scope file may appear, disappear, or be
// replaced while the Notifier runs.
func (n *Notifier) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(n.store.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", n.store.dir, err)
	}

	prev, err := n.store.GetCookies(ctx, n.scope)
	if err != nil {
		return err
	}

	path := n.store.path(n.scope)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			curr, err := n.store.GetCookies(ctx, n.scope)
			if err != nil {
				continue
			}
			n.publishDiff(ctx, prev, curr)
			prev = curr

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Continue watching despite errors.
		}
	}
}

// publishDiff emits the bus events that move a mirror from prev to curr.
func (n *Notifier) publishDiff(ctx context.Context, prev, curr []jarz.Entry) {
	if len(curr) == 0 {
		if len(prev) > 0 {
			_ = n.bus.Publish(ctx, jarz.TopicAuthoritativeClearAll, jarz.Message{}) //nolint:errcheck // Best-effort notification
		}
		return
	}

	prevValues := make(map[string]string, len(prev))
	for _, e := range prev {
		prevValues[e.Name] = e.Value
	}

	var set []jarz.Entry
	currNames := make(map[string]struct{}, len(curr))
	for _, e := range curr {
		currNames[e.Name] = struct{}{}
		if v, ok := prevValues[e.Name]; !ok || v != e.Value {
			set = append(set, e)
		}
	}

	for _, e := range prev {
		if _, ok := currNames[e.Name]; !ok {
			_ = n.bus.Publish(ctx, jarz.TopicAuthoritativeClear, jarz.Message{Name: e.Name}) //nolint:errcheck // Best-effort notification
		}
	}
	if len(set) > 0 {
		_ = n.bus.Publish(ctx, jarz.TopicAuthoritativeSet, jarz.Message{Entries: set}) //nolint:errcheck // Best-effort notification
	}
}
