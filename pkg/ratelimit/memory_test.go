package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter() (*SlidingWindow, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	lim := NewSlidingWindow(Policy{Limit: 5, Window: 15 * time.Minute}, WithClock(clock.Now))
	return lim, clock
}

func TestSlidingWindow_FiveThenReject(t *testing.T) {
	lim, clock := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := lim.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 4-i, d.Remaining)
		clock.Advance(time.Minute)
	}

	d, err := lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	// Oldest accepted request was 5 minutes ago
	assert.Equal(t, 10*time.Minute, d.RetryAfter)

	// Other clients are unaffected
	d, err = lim.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestSlidingWindow_Slides(t *testing.T) {
	lim, clock := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = lim.Allow(ctx, "ip")
		clock.Advance(time.Minute)
	}

	// t = 5m: full
	d, _ := lim.Allow(ctx, "ip")
	assert.False(t, d.Allowed)

	// t = 15m: the request at 0m is exactly one window old and drops out
	clock.Advance(10 * time.Minute)
	d, _ = lim.Allow(ctx, "ip")
	assert.True(t, d.Allowed)

	// Still capped by the remaining four plus the one just accepted
	d, _ = lim.Allow(ctx, "ip")
	assert.False(t, d.Allowed)
}

func TestSlidingWindow_RejectedNotCounted(t *testing.T) {
	lim, clock := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = lim.Allow(ctx, "ip")
	}
	for i := 0; i < 20; i++ {
		d, _ := lim.Allow(ctx, "ip")
		assert.False(t, d.Allowed)
	}

	clock.Advance(15*time.Minute + time.Second)
	d, _ := lim.Allow(ctx, "ip")
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestSlidingWindow_Concurrent(t *testing.T) {
	lim, _ := newTestLimiter()
	ctx := context.Background()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := lim.Allow(ctx, "same-ip")
			if d.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
}

func TestSlidingWindow_Cleanup(t *testing.T) {
	lim, clock := newTestLimiter()
	ctx := context.Background()

	_, _ = lim.Allow(ctx, "a")
	_, _ = lim.Allow(ctx, "b")
	assert.Equal(t, 2, lim.Len())

	clock.Advance(10 * time.Minute)
	_, _ = lim.Allow(ctx, "b")

	clock.Advance(6 * time.Minute)
	lim.Cleanup()
	assert.Equal(t, 1, lim.Len())
}
