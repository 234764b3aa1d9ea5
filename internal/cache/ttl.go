// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// ttl.go provides the in-process response cache (L1). Entries are never
// updated in place: a write replaces the whole entry. Expired entries are
// removed lazily when their key is next read; there is no background sweep.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long an L1 entry stays fresh unless overridden.
const DefaultTTL = 5 * time.Minute

// Entry is a single cached value with its storage and expiry times.
type Entry struct {
	Value     any
	StoredAt  time.Time
	ExpiresAt time.Time
}

// fresh reports whether the entry may still be served at now.
func (e Entry) fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// TTLCache is a concurrency-safe map of keys to expiring entries.
// Cached values are shared between readers and must be treated as read-only.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
	metrics *Metrics
}

// Option configures a TTLCache.
type Option func(*TTLCache)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) { c.now = now }
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(c *TTLCache) { c.metrics = m }
}

// NewTTLCache creates an empty cache. A ttl of zero or less uses DefaultTTL.
func NewTTLCache(ttl time.Duration, opts ...Option) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TTLCache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the default time-to-live applied by Set.
func (c *TTLCache) TTL() time.Duration {
	return c.ttl
}

// Lookup returns the fresh value under key like Get, but records no
// metrics and leaves stale entries in place. Callers that re-check after
// a metered Get use it so one read counts once.
func (c *TTLCache) Lookup(key string) (any, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.fresh(now) {
		return nil, false
	}
	return e.Value, true
}

// Get returns the value stored under key if it is still fresh. A stale
// entry is evicted and reported as a miss.
func (c *TTLCache) Get(key string) (any, bool) {
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.metrics.miss(key)
		return nil, false
	}

	if !e.fresh(now) {
		c.mu.Lock()
		// Only evict if nobody replaced the entry in between.
		if cur, still := c.entries[key]; still && cur.StoredAt.Equal(e.StoredAt) && !cur.fresh(now) {
			delete(c.entries, key)
			c.metrics.evicted("expired", 1)
		}
		c.mu.Unlock()
		slog.Debug("cache entry expired", "key", key)
		c.metrics.miss(key)
		return nil, false
	}

	slog.Debug("cache hit", "key", key)
	c.metrics.hit(key)
	return e.Value, true
}

// Set stores value under key with the default TTL.
func (c *TTLCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key, replacing any existing entry. A ttl of
// zero or less uses the cache default.
func (c *TTLCache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now()

	c.mu.Lock()
	c.entries[key] = Entry{Value: value, StoredAt: now, ExpiresAt: now.Add(ttl)}
	size := len(c.entries)
	c.mu.Unlock()

	slog.Debug("cache set", "key", key, "ttl", ttl, "size", size)
}

// Delete removes the given keys. Missing keys are ignored.
func (c *TTLCache) Delete(keys ...string) {
	c.mu.Lock()
	removed := 0
	for _, k := range keys {
		if _, ok := c.entries[k]; ok {
			delete(c.entries, k)
			removed++
		}
	}
	c.mu.Unlock()

	c.metrics.evicted("invalidated", removed)
	slog.Debug("cache invalidated", "keys", keys, "removed", removed)
}

// Clear drops every entry.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.metrics.evicted("cleared", n)
	slog.Debug("cache fully cleared", "removed", n)
}

// Len returns the number of stored entries, including stale ones that have
// not been read since they expired.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Peek returns the raw entry under key without freshness checks or
// eviction. Used by tests and diagnostics.
func (c *TTLCache) Peek(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}
