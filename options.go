package jarz

import (
	"time"

	"github.com/zoobzio/pipz"
)

// Option configures the store-push pipeline of a Mirror. Pipeline options
// wrap the fire-and-forget SetCookie call with middleware for retry, timeout,
// and other reliability patterns. With no options, a failed push is dropped
// after a single attempt.
//
// Instance configuration (interval, clock, scope, sync mode) is handled via
// chainable methods on the Mirror before calling Start().
type Option func(pipz.Chainable[Entry]) pipz.Chainable[Entry]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline(terminal pipz.Chainable[Entry], opts []Option) pipz.Chainable[Entry] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithRetry wraps the push pipeline with retry logic.
// Failed pushes are retried immediately up to maxAttempts times.
// For exponential backoff between retries, use WithBackoff instead.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[Entry]) pipz.Chainable[Entry] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff wraps the push pipeline with exponential backoff retry logic.
// Failed pushes are retried with increasing delays: baseDelay, 2*baseDelay,
// 4*baseDelay, etc.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[Entry]) pipz.Chainable[Entry] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout wraps the push pipeline with a deadline. A push that takes
// longer than the specified duration fails and is dropped.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[Entry]) pipz.Chainable[Entry] {
		return pipz.NewTimeout("timeout", p, d)
	}
}
