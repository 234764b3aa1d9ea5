// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the API handler
// tests. The content comes from the bundled sample dataset; the Valkey
// page cache tests are skipped when Valkey is unavailable.
package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"blogpress/internal/cache"
	"blogpress/internal/seed"
	"blogpress/internal/service"
	"blogpress/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient connects to DB 15, skipping when Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()
	client, err := cache.ConnectValkey(ctx, cache.ValkeyOptions{
		Host:        envOr("VALKEY_HOST", "localhost"),
		Port:        envOr("VALKEY_PORT", "6379"),
		Password:    os.Getenv("VALKEY_PASSWORD"),
		DB:          15,
		DialTimeout: time.Second,
	})
	if err != nil {
		t.Skipf("skipping: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "blogpress:page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Repo      *store.MemoryRepository
	Cached    *service.Cached
	PageCache *cache.PageCache
	API       *API
	Router    chi.Router
}

// newTestEnv builds the API over the sample dataset. pageCache may be nil.
func newTestEnv(t *testing.T, pageCache *cache.PageCache) *testEnv {
	t.Helper()

	data, err := seed.Sample()
	if err != nil {
		t.Fatalf("sample dataset: %v", err)
	}
	repo, err := store.NewMemoryRepository(data)
	if err != nil {
		t.Fatalf("repository: %v", err)
	}

	svc := service.New(repo, service.WithMaxLimit(50))
	cached := service.NewCached(svc, cache.NewTTLCache(time.Minute))
	api := NewAPI(cached, cached, pageCache, nil, 2)

	return &testEnv{
		Repo:      repo,
		Cached:    cached,
		PageCache: pageCache,
		API:       api,
		Router:    testRouter(api),
	}
}

// testRouter mounts the handlers on the same paths the server uses.
func testRouter(api *API) chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", api.Home)
		r.Get("/search", api.Search)
		r.Get("/posts", api.ListPosts)
		r.Get("/posts/slug/{slug}", api.GetPostBySlug)
		r.Get("/posts/{id}", api.GetPost)
		r.Get("/categories", api.ListCategories)
		r.Get("/categories/slug/{slug}", api.GetCategoryBySlug)
		r.Get("/categories/{id}", api.GetCategory)
		r.Get("/authors", api.ListAuthors)
		r.Get("/authors/{id}", api.GetAuthor)
		r.Delete("/cache", api.ClearAll)
		r.Get("/cache/log", api.CacheLog)
		r.Delete("/cache/posts/{id}", api.ClearPost)
		r.Delete("/cache/categories/{id}", api.ClearCategory)
		r.Delete("/cache/authors/{id}", api.ClearAuthor)
	})
	return r
}

// do performs a request against the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

// decode unmarshals the recorder body into v, failing the test on error.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

// errorBody returns the "error" field of a JSON error response.
func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rr, &body)
	return body["error"]
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}
