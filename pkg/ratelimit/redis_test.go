package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *goredis.Client {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisSlidingWindow_FallsBackOnError(t *testing.T) {
	policy := Policy{Limit: 1, Window: time.Minute}
	fallback := NewSlidingWindow(policy)
	lim := NewRedisSlidingWindow(unreachableRedis(t), policy, "rl:contact:", fallback)
	ctx := context.Background()

	d, err := lim.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = lim.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestRedisSlidingWindow_ErrorWithoutFallback(t *testing.T) {
	lim := NewRedisSlidingWindow(unreachableRedis(t), Policy{Limit: 1, Window: time.Minute}, "rl:", nil)

	_, err := lim.Allow(context.Background(), "ip")
	assert.Error(t, err)
}

func TestRedisSlidingWindow_Script(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{now: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	lim := NewRedisSlidingWindow(client, Policy{Limit: 5, Window: 15 * time.Minute}, "rl:contact:", nil)
	lim.now = clock.Now
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := lim.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 5, d.Limit)
		assert.Equal(t, 4-i, d.Remaining)
		assert.Zero(t, d.RetryAfter)
		assert.Equal(t, clock.Now().Add(15*time.Minute), d.ResetAt)
		clock.Advance(time.Minute)
	}

	// t = 5m: oldest accepted at 0m, newest at 4m
	d, err := lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, 10*time.Minute, d.RetryAfter)
	assert.Equal(t, clock.Now().Add(14*time.Minute), d.ResetAt)

	// Rejected requests are not recorded
	card, err := client.ZCard(ctx, "rl:contact:1.2.3.4").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(5), card)

	// Keys are independent
	d, err = lim.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// t = 15m: the 0m entry leaves the window and one slot opens
	clock.Advance(10 * time.Minute)
	d, err = lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)
}
