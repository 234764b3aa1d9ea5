// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go is the second cache level: encoded JSON responses for posts,
// categories, authors and the home page, stored in Valkey so a hit skips
// the query service and the encoder. Listings and search are not stored.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pageKeyPrefix = "blogpress:page:"

	// DefaultPageTTL applies when NewPageCache is given a zero TTL.
	DefaultPageTTL = 5 * time.Minute

	// unlinkBatch bounds the keys sent per UNLINK during a full clear.
	unlinkBatch = 100
)

// PageCache stores encoded responses in Valkey. Valkey errors degrade to
// misses and are logged; they never reach the caller. The nil *PageCache
// misses on every lookup and drops every write.
type PageCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *Metrics
}

// PageOption configures a PageCache.
type PageOption func(*PageCache)

// WithPageMetrics records lookups in m.
func WithPageMetrics(m *Metrics) PageOption {
	return func(pc *PageCache) { pc.metrics = m }
}

func NewPageCache(client *redis.Client, ttl time.Duration, opts ...PageOption) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	pc := &PageCache{client: client, ttl: ttl}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// Get returns the stored body for key.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}

	body, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		pc.metrics.page(key, "miss")
		return nil, false
	case err != nil:
		pc.metrics.page(key, "error")
		slog.Warn("page cache read failed", "key", key, "error", err)
		return nil, false
	}
	pc.metrics.page(key, "hit")
	return body, true
}

// Set stores body under key for the cache TTL.
func (pc *PageCache) Set(ctx context.Context, key string, body []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("page cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops keys.
func (pc *PageCache) Invalidate(ctx context.Context, keys ...string) {
	if pc == nil || len(keys) == 0 {
		return
	}
	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, pageKeyPrefix+k)
	}
	n, err := pc.client.Unlink(ctx, prefixed...).Result()
	if err != nil {
		slog.Warn("page cache invalidate failed", "keys", keys, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "keys", keys, "removed", n)
}

// InvalidatePost drops a post and the home page, whose recent and popular
// lists may include it.
func (pc *PageCache) InvalidatePost(ctx context.Context, id string) {
	pc.Invalidate(ctx, PostKey(id), HomepageKey())
}

// InvalidateAll drops every stored response. Keys outside the blogpress
// prefix are untouched, so a shared Valkey database is safe.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}

	var removed int64
	batch := make([]string, 0, unlinkBatch)
	flush := func() bool {
		if len(batch) == 0 {
			return true
		}
		n, err := pc.client.Unlink(ctx, batch...).Result()
		if err != nil {
			slog.Warn("page cache clear failed", "error", err, "removed", removed)
			return false
		}
		removed += n
		batch = batch[:0]
		return true
	}

	iter := pc.client.Scan(ctx, 0, pageKeyPrefix+"*", unlinkBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch && !flush() {
			return
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("page cache scan failed", "error", err)
		return
	}
	if flush() && removed > 0 {
		slog.Info("page cache cleared", "removed", removed)
	}
}
