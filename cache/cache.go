// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cache stores computed aggregates for a bounded time, in Redis or in memory.
package cache

import (
	"context"
	"errors"
	"time"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value; a missing key returns an error matching ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL; zero uses the backend default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned when a key is not found in the cache
var ErrCacheMiss = errors.New("cache miss")

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// DefaultPrefix namespaces keys in a shared Redis
const DefaultPrefix = "wellness:"
