// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor is one client's token bucket.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// decision is the outcome of one rate check.
type decision struct {
	ok        bool
	remaining int
	wait      time.Duration
}

// RateLimiter limits each client IP to limit requests per window using a
// token bucket: a full bucket allows a burst of limit requests and refills
// evenly over the window.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	every    rate.Limit
	now      func() time.Time
	stopCh   chan struct{}
}

// NewRateLimiter creates a rate limiter that allows limit requests per window.
// It starts a background goroutine that forgets idle clients.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	limit = max(limit, 1)
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		every:    rate.Every(window / time.Duration(limit)),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(max(window, time.Minute))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// allow takes one token for key if available. A rejected request consumes
// nothing; wait is how long until a token frees up.
func (rl *RateLimiter) allow(key string) decision {
	now := rl.now()

	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return decision{wait: rl.window}
	}
	if wait := res.DelayFrom(now); wait > 0 {
		res.CancelAt(now)
		return decision{wait: wait}
	}
	return decision{ok: true, remaining: int(v.limiter.TokensAt(now))}
}

// cleanup forgets clients idle for a full window. Their buckets would be
// full again, so a fresh one is equivalent.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		if !v.lastSeen.After(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
// Every response carries X-RateLimit-Limit; allowed ones also carry
// X-RateLimit-Remaining, and rejections get a JSON 429 with Retry-After
// in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		d := rl.allow(ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		if !d.ok {
			secs := int(math.Ceil(d.wait.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path, "retry_in", d.wait)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
