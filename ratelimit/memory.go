// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryLimiter is a fixed-window limiter for single-instance deployments
type MemoryLimiter struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryLimiter creates an in-process limiter
func NewMemoryLimiter(cfg Config) (*MemoryLimiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &MemoryLimiter{
		cfg:     cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}, nil
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (*RateLimitInfo, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) >= m.cfg.Window {
		w = &window{start: now}
		m.windows[key] = w
		m.evictExpired(now)
	}

	info := &RateLimitInfo{
		Limit:   m.cfg.Limit,
		ResetAt: w.start.Add(m.cfg.Window),
	}

	if w.count >= m.cfg.Limit {
		return info, nil
	}

	w.count++
	info.Allowed = true
	info.Remaining = m.cfg.Limit - w.count
	return info, nil
}

// evictExpired drops stale windows. Caller holds mu.
func (m *MemoryLimiter) evictExpired(now time.Time) {
	for k, w := range m.windows {
		if now.Sub(w.start) >= m.cfg.Window {
			delete(m.windows, k)
		}
	}
}
