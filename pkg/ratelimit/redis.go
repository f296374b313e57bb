package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// Lua script for an atomic sliding log on a sorted set
// KEYS[1] = log key
// ARGV[1] = now (ms)
// ARGV[2] = window (ms)
// ARGV[3] = limit
// ARGV[4] = unique member for this request
// Returns: [allowed, count, retry_after_ms, reset_after_ms]
var slidingWindowScript = goredis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, ARGV[4])
    redis.call('PEXPIRE', key, window)
    return {1, count + 1, 0, window}
end

local retry = 0
local reset = 0
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if oldest[2] then
    retry = window - (now - tonumber(oldest[2]))
end
local newest = redis.call('ZRANGE', key, -1, -1, 'WITHSCORES')
if newest[2] then
    reset = window - (now - tonumber(newest[2]))
end
return {0, count, retry, reset}
`)

// RedisSlidingWindow shares the sliding log between processes through Redis.
// Redis errors are handed to the fallback limiter when one is set.
type RedisSlidingWindow struct {
	client    goredis.Scripter
	policy    Policy
	keyPrefix string
	fallback  Limiter
	now       Clock
}

func NewRedisSlidingWindow(client goredis.Scripter, policy Policy, keyPrefix string, fallback Limiter) *RedisSlidingWindow {
	return &RedisSlidingWindow{
		client:    client,
		policy:    policy,
		keyPrefix: keyPrefix,
		fallback:  fallback,
		now:       time.Now,
	}
}

// Allow implements Limiter.
func (r *RedisSlidingWindow) Allow(ctx context.Context, key string) (Decision, error) {
	d, err := r.allow(ctx, key)
	if err != nil && r.fallback != nil {
		return r.fallback.Allow(ctx, key)
	}
	return d, err
}

func (r *RedisSlidingWindow) allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	windowMs := r.policy.Window.Milliseconds()

	result, err := slidingWindowScript.Run(ctx, r.client,
		[]string{r.keyPrefix + key},
		now.UnixMilli(), windowMs, r.policy.Limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}
	if len(result) < 4 {
		return Decision{}, fmt.Errorf("unexpected redis result format")
	}

	allowed, count := result[0] == 1, int(result[1])
	d := Decision{
		Allowed:    allowed,
		Limit:      r.policy.Limit,
		Remaining:  max(r.policy.Limit-count, 0),
		RetryAfter: time.Duration(result[2]) * time.Millisecond,
		ResetAt:    now.Add(time.Duration(result[3]) * time.Millisecond),
	}
	return d, nil
}
