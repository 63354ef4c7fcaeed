// Package redis provides a jarz.Store implementation backed by Redis hashes.
// Each scope maps to one hash; fields are cookie names, values are cookie
// values.
package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/zoobzio/jarz"
)

// DefaultPrefix is the default key prefix for scope hashes.
const DefaultPrefix = "jarz:"

// Store is a jarz.Store backed by a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides the key prefix for scope hashes.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Store over the given Redis client.
func New(client *redis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(scope string) string {
	return s.prefix + scope
}

// GetCookies fetches the complete entry set for a scope. Hash field order is
// unspecified in Redis, so entries are returned sorted by name to keep
// successive snapshots stable.
func (s *Store) GetCookies(ctx context.Context, scope string) ([]jarz.Entry, error) {
	values, err := s.client.HGetAll(ctx, s.key(scope)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cookies for scope %s: %w", scope, err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]jarz.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, jarz.Entry{Name: name, Value: values[name]})
	}
	return entries, nil
}

// SetCookie writes a single entry into the scope's hash.
func (s *Store) SetCookie(ctx context.Context, scope string, e jarz.Entry) error {
	if err := s.client.HSet(ctx, s.key(scope), e.Name, e.Value).Err(); err != nil {
		return fmt.Errorf("failed to set cookie %s: %w", e.Name, err)
	}
	return nil
}

// DeleteCookie removes a single entry from the scope's hash. Authoritative
// publishers pair this with a jarz.TopicAuthoritativeClear event.
func (s *Store) DeleteCookie(ctx context.Context, scope, name string) error {
	if err := s.client.HDel(ctx, s.key(scope), name).Err(); err != nil {
		return fmt.Errorf("failed to delete cookie %s: %w", name, err)
	}
	return nil
}

// Clear removes all entries for a scope. Authoritative publishers pair this
// with a jarz.TopicAuthoritativeClearAll event.
func (s *Store) Clear(ctx context.Context, scope string) error {
	if err := s.client.Del(ctx, s.key(scope)).Err(); err != nil {
		return fmt.Errorf("failed to clear scope %s: %w", scope, err)
	}
	return nil
}

// Ensure Store implements jarz.Store.
var _ jarz.Store = (*Store)(nil)
