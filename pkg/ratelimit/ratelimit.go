// Package ratelimit caps accepted requests per key over a trailing window.
//
// Limiter implementations record only accepted requests, so a rejected
// caller regains capacity as soon as its oldest accepted request leaves
// the window.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether the request identified by key may proceed.
// Check-and-record must be atomic per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is how long until the next request would be accepted.
	// Zero when Allowed.
	RetryAfter time.Duration
	// ResetAt is when the window is empty again if no further request is accepted.
	ResetAt time.Time
}

// Policy is the window configuration shared by all implementations.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time
