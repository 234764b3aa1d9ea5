// Shared PostgreSQL helper for the cache log integration tests. Tests are
// skipped when the database is unreachable.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"blogpress/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB connects to the test database with a small pool and migrates it.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dsn := "postgres://" + envOr("POSTGRES_USER", "blogpress") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "blogpress") + "?sslmode=disable&connect_timeout=2"

	db, err := database.Connect(ctx, dsn, database.Pool{MaxOpen: 4, MaxIdle: 2})
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}
