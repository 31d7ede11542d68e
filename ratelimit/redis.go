// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow trims entries older than the window, then admits the request
// if fewer than limit remain. Members are unique so bursts in the same
// nanosecond still count separately. The third value is the score of the
// oldest entry still in the window, which is when the next slot frees up.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

	local current = redis.call('ZCARD', key)

	local allowed = 0
	if current < limit then
		redis.call('ZADD', key, now, member)
		redis.call('EXPIRE', key, window)
		allowed = 1
		current = current + 1
	end

	local oldest = now
	local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	if first[2] then
		oldest = tonumber(first[2])
	end
	return {allowed, current, oldest}
`)

// RedisLimiter implements a Redis-backed sliding window rate limiter
type RedisLimiter struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

// NewRedisLimiter creates a limiter sharing state across every API instance
func NewRedisLimiter(client *redis.Client, cfg Config) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &RedisLimiter{client: client, cfg: cfg, now: time.Now}, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (*RateLimitInfo, error) {
	now := r.now()
	windowStart := now.Add(-r.cfg.Window)

	windowSecs := int(r.cfg.Window.Seconds())
	if windowSecs < 1 {
		windowSecs = 1
	}

	result, err := slidingWindow.Run(ctx, r.client, []string{r.cfg.Prefix + key},
		now.UnixNano(),
		windowStart.UnixNano(),
		r.cfg.Limit,
		windowSecs,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}
	if len(result) != 3 {
		return nil, errors.New("unexpected redis script result")
	}

	remaining := r.cfg.Limit - int(result[1])
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitInfo{
		Limit:     r.cfg.Limit,
		Remaining: remaining,
		ResetAt:   time.Unix(0, result[2]).Add(r.cfg.Window),
		Allowed:   result[0] == 1,
	}, nil
}
