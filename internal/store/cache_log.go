// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Entity kinds recorded in the invalidation log.
const (
	EntityPost     = "post"
	EntityCategory = "category"
	EntityAuthor   = "author"
	EntityAll      = "all"
)

// ValidEntity reports whether kind is one of the recorded entity kinds.
func ValidEntity(kind string) bool {
	switch kind {
	case EntityPost, EntityCategory, EntityAuthor, EntityAll:
		return true
	}
	return false
}

// CacheLogEntry is one recorded cache clear.
type CacheLogEntry struct {
	ID            uuid.UUID `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Action        string    `json:"action"`
	InvalidatedAt time.Time `json:"invalidated_at"`
}

// CacheLogFilter narrows RecentEntries. An empty EntityType matches every
// kind.
type CacheLogFilter struct {
	EntityType string
	Limit      int
}

// CacheLogStore writes cache clears to the cache_invalidation_log table.
// The nil store is usable and records nothing, which is what runs without
// PostgreSQL get.
type CacheLogStore struct {
	db *sql.DB
}

func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records a clear of entityType/entityID. entityID is empty for
// EntityAll. Write errors are logged and swallowed.
func (s *CacheLogStore) Log(ctx context.Context, entityType, entityID, action string) {
	if s == nil {
		return
	}

	entry := CacheLogEntry{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO cache_invalidation_log (id, entity_type, entity_id, action)
		 VALUES ($1, $2, $3, $4)
		 RETURNING invalidated_at`,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action,
	).Scan(&entry.InvalidatedAt)

	attrs := []any{"entity_type", entityType, "entity_id", entityID, "action", action}
	if err != nil {
		slog.Warn("cache log write failed", append(attrs, "error", err)...)
		return
	}
	slog.Debug("cache clear recorded", append(attrs, "id", entry.ID)...)
}

// RecentEntries returns up to f.Limit entries, newest first. The result is
// never nil.
func (s *CacheLogStore) RecentEntries(ctx context.Context, f CacheLogFilter) ([]CacheLogEntry, error) {
	entries := []CacheLogEntry{}
	if s == nil || f.Limit < 1 {
		return entries, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, invalidated_at
		 FROM cache_invalidation_log
		 WHERE $1 = '' OR entity_type = $1
		 ORDER BY invalidated_at DESC, id
		 LIMIT $2`,
		f.EntityType, f.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache log: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than retention and returns how many went.
func (s *CacheLogStore) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if s == nil {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_invalidation_log WHERE invalidated_at < $1`,
		time.Now().Add(-retention),
	)
	if err != nil {
		return 0, fmt.Errorf("prune cache log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune cache log: %w", err)
	}
	return n, nil
}
