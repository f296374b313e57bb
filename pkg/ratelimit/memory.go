package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow is an in-memory sliding log limiter.
type SlidingWindow struct {
	policy  Policy
	now     Clock
	mu      sync.Mutex
	entries map[string][]time.Time
}

type Option func(*SlidingWindow)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(s *SlidingWindow) { s.now = c }
}

func NewSlidingWindow(policy Policy, opts ...Option) *SlidingWindow {
	s := &SlidingWindow{
		policy:  policy,
		now:     time.Now,
		entries: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow implements Limiter. It never returns an error.
func (s *SlidingWindow) Allow(_ context.Context, key string) (Decision, error) {
	now := s.now()
	cutoff := now.Add(-s.policy.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	hits := prune(s.entries[key], cutoff)

	if len(hits) >= s.policy.Limit {
		s.entries[key] = hits
		d := Decision{Limit: s.policy.Limit, ResetAt: now}
		if len(hits) > 0 {
			d.RetryAfter = hits[0].Add(s.policy.Window).Sub(now)
			d.ResetAt = hits[len(hits)-1].Add(s.policy.Window)
		}
		return d, nil
	}

	hits = append(hits, now)
	s.entries[key] = hits

	return Decision{
		Allowed:   true,
		Limit:     s.policy.Limit,
		Remaining: s.policy.Limit - len(hits),
		ResetAt:   now.Add(s.policy.Window),
	}, nil
}

// Cleanup drops keys whose whole log has left the window.
func (s *SlidingWindow) Cleanup() {
	cutoff := s.now().Add(-s.policy.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, hits := range s.entries {
		hits = prune(hits, cutoff)
		if len(hits) == 0 {
			delete(s.entries, k)
			continue
		}
		s.entries[k] = hits
	}
}

// Len returns the number of tracked keys.
func (s *SlidingWindow) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (s *SlidingWindow) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// prune drops timestamps at or before cutoff. hits is sorted ascending.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0], hits[i:]...)
}
