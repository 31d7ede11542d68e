// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package ratelimit bounds how often one caller may hit the write endpoints.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// RateLimiter defines the interface for rate limiting implementations
type RateLimiter interface {
	// Allow records one request for key and reports whether it fits the window
	Allow(ctx context.Context, key string) (*RateLimitInfo, error)
}

// RateLimitInfo contains information about the current rate limit state
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	Allowed   bool
}

// Config is shared by every limiter implementation
type Config struct {
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Window is the time window for rate limiting
	Window time.Duration
	// Prefix is the key prefix for Redis keys
	Prefix string
}

// DefaultConfig allows limit requests per minute
func DefaultConfig(limit int) Config {
	return Config{
		Limit:  limit,
		Window: time.Minute,
		Prefix: "wellness:ratelimit:",
	}
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return errors.New("limit must be greater than 0")
	}
	if c.Window <= 0 {
		return errors.New("window must be greater than 0")
	}
	return nil
}
