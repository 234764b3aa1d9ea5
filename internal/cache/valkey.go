// Package cache provides the in-process TTL cache used by the query
// service (L1), the Valkey-backed JSON response cache used by the HTTP
// layer (L2), and the key scheme both share.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyOptions locates the Valkey server backing the page cache.
type ValkeyOptions struct {
	Host     string
	Port     string
	Password string
	DB       int

	// DialTimeout bounds connecting and the initial ping. Zero means 5s.
	DialTimeout time.Duration
}

// ConnectValkey creates a Valkey client and verifies it with a ping. The
// client's command timeouts are kept short: a slow L2 should fall through
// to the in-process cache rather than hold requests.
func ConnectValkey(ctx context.Context, opts ValkeyOptions) (*redis.Client, error) {
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	addr := net.JoinHostPort(opts.Host, opts.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr, "db", opts.DB)
	return client, nil
}
