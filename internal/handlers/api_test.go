// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"blogpress/internal/cache"
	"blogpress/internal/markdown"
	"blogpress/internal/models"
	"blogpress/internal/service"
)

func ids(posts []models.Post) string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return strings.Join(out, ",")
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name       string
		target     string
		wantIDs    string
		wantTotal  int
		wantPages  int
		wantLimit  int
	}{
		{"defaults", "/api/posts", "1,2", 4, 2, 2},
		{"second page", "/api/posts?page=2", "3,4", 4, 2, 2},
		{"past the end", "/api/posts?page=9", "", 4, 2, 2},
		{"category", "/api/posts?category=2", "2", 1, 1, 2},
		{"author", "/api/posts?author=3&limit=10", "3", 1, 1, 10},
		{"tags any", "/api/posts?tags=CSS,%20AI&limit=10", "2,4", 2, 1, 10},
		{"featured", "/api/posts?featured=false&limit=10", "3,4", 2, 1, 10},
		{"search", "/api/posts?search=next.js", "3", 1, 1, 2},
		{"day range inclusive", "/api/posts?from=2024-01-10&to=2024-01-10", "2", 1, 1, 2},
		{"open-ended range", "/api/posts?from=2024-01-05&limit=10", "1,2,3", 3, 1, 10},
		{"title ascending", "/api/posts?sort=title&order=asc&limit=10", "1,3,2,4", 4, 1, 10},
		{"limit clamped", "/api/posts?limit=1000", "1,2,3,4", 4, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tt.target)
			assertStatus(t, rr, http.StatusOK)

			var res models.Response[[]models.Post]
			decode(t, rr, &res)
			if got := ids(res.Data); got != tt.wantIDs {
				t.Errorf("ids: got %q, want %q", got, tt.wantIDs)
			}
			if res.Pagination == nil {
				t.Fatal("missing pagination")
			}
			if res.Pagination.Total != tt.wantTotal || res.Pagination.TotalPages != tt.wantPages {
				t.Errorf("pagination: got total %d pages %d, want %d/%d",
					res.Pagination.Total, res.Pagination.TotalPages, tt.wantTotal, tt.wantPages)
			}
			if res.Pagination.Limit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", res.Pagination.Limit, tt.wantLimit)
			}
			if res.Meta == nil || !res.Meta.CacheExpiry.After(res.Meta.LastUpdated) {
				t.Errorf("meta: got %+v", res.Meta)
			}
		})
	}
}

func TestListPostsPageBeyondData(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/posts?page=4611686018427387904&limit=4")
	assertStatus(t, rr, http.StatusOK)

	var res models.Response[[]models.Post]
	decode(t, rr, &res)
	if res.Data == nil || len(res.Data) != 0 {
		t.Errorf("data: got %v, want an empty list", res.Data)
	}
	if res.Pagination.TotalPages != 1 {
		t.Errorf("total pages: got %d, want 1", res.Pagination.TotalPages)
	}
}

func TestListPostsBadRequest(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name    string
		target  string
		wantErr string
	}{
		{"page not a number", "/api/posts?page=abc", "invalid page"},
		{"limit not a number", "/api/posts?limit=ten", "invalid limit"},
		{"page zero", "/api/posts?page=0", service.ErrInvalidPagination.Error()},
		{"negative limit", "/api/posts?limit=-5", service.ErrInvalidPagination.Error()},
		{"unknown sort", "/api/posts?sort=likes", service.ErrInvalidSort.Error()},
		{"unknown order", "/api/posts?order=sideways", service.ErrInvalidSort.Error()},
		{"bad featured", "/api/posts?featured=maybe", "invalid featured"},
		{"bad date", "/api/posts?from=15-01-2024", "invalid from date"},
		{"inverted range", "/api/posts?from=2024-02-01&to=2024-01-01", service.ErrInvalidDateRange.Error()},
		{"search too long", "/api/posts?search=" + strings.Repeat("a", 201), "search query is too long"},
		{"too many tags", "/api/posts?tags=" + strings.Repeat("t,", 21), "too many tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tt.target)
			assertStatus(t, rr, http.StatusBadRequest)
			if got := errorBody(t, rr); !strings.Contains(got, tt.wantErr) {
				t.Errorf("error: got %q, want it to contain %q", got, tt.wantErr)
			}
		})
	}
}

func TestGetPost(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/posts/1")
	assertStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content-type: got %q", ct)
	}

	var post postDetailBody
	decode(t, rr, &post)
	if post.ID != "1" || post.Title != "Building Modern React Applications with TypeScript" {
		t.Errorf("post: got %s %q", post.ID, post.Title)
	}
	if !strings.Contains(post.ContentHTML, `<h1 id="building-modern-react-applications-with-typescript">`) {
		t.Errorf("content_html not rendered: %q", post.ContentHTML)
	}
	if len(post.TOC) != 3 || post.TOC[0].ID != "why-typescript-with-react" || post.TOC[2].Text != "Best Practices" {
		t.Errorf("toc: got %+v", post.TOC)
	}
	if got := ids(post.RelatedPosts); got != "3" {
		t.Errorf("related: got %q, want %q", got, "3")
	}
	if post.ViewCount != 1 {
		t.Errorf("view_count: got %d, want 1", post.ViewCount)
	}

	// Served from the query cache: same snapshot, no new view.
	rr = env.do(t, http.MethodGet, "/api/posts/1")
	decode(t, rr, &post)
	if post.ViewCount != 1 {
		t.Errorf("cached view_count: got %d, want 1", post.ViewCount)
	}
	stored, _ := env.Repo.PostByID(context.Background(), "1")
	if stored.ViewCount != 1 {
		t.Errorf("stored view count: got %d, want 1", stored.ViewCount)
	}
}

// postDetailBody mirrors postDetail for decoding.
type postDetailBody struct {
	models.Post
	ContentHTML string             `json:"content_html"`
	TOC         []markdown.Heading `json:"toc"`
}

func TestGetPostNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/api/posts/999", "/api/posts/slug/no-such-post"} {
		rr := env.do(t, http.MethodGet, target)
		assertStatus(t, rr, http.StatusNotFound)
		if got := errorBody(t, rr); got != "post not found" {
			t.Errorf("%s error: got %q", target, got)
		}
	}
}

func TestGetPostBySlug(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/posts/slug/mastering-css-grid-and-flexbox-for-modern-layouts")
	assertStatus(t, rr, http.StatusOK)

	var post postDetailBody
	decode(t, rr, &post)
	if post.ID != "2" {
		t.Errorf("id: got %q, want 2", post.ID)
	}
	if post.ViewCount != 1 {
		t.Errorf("view_count: got %d, want 1", post.ViewCount)
	}
}

func TestPathAndQueryLimits(t *testing.T) {
	env := newTestEnv(t, nil)

	targets := []string{
		"/api/posts/" + strings.Repeat("9", 65),
		"/api/categories/" + strings.Repeat("9", 65),
		"/api/authors/" + strings.Repeat("9", 65),
		"/api/posts/slug/" + strings.Repeat("s", 301),
		"/api/search?q=" + strings.Repeat("q", 201),
	}
	for _, target := range targets {
		rr := env.do(t, http.MethodGet, target)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%.40s...: got %d, want 400", target, rr.Code)
		}
	}

	rr := env.do(t, http.MethodDelete, "/api/cache/posts/"+strings.Repeat("9", 65))
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/categories")
	assertStatus(t, rr, http.StatusOK)
	var list models.Response[[]models.Category]
	decode(t, rr, &list)
	if len(list.Data) != 4 {
		t.Fatalf("categories: got %d, want 4", len(list.Data))
	}
	for _, c := range list.Data {
		if c.PostCount != 1 {
			t.Errorf("category %s post_count: got %d, want 1", c.ID, c.PostCount)
		}
	}

	rr = env.do(t, http.MethodGet, "/api/categories/3")
	assertStatus(t, rr, http.StatusOK)
	var cat models.CategoryWithPosts
	decode(t, rr, &cat)
	if cat.Name != "Next.js" || ids(cat.Posts) != "3" {
		t.Errorf("category: got %q with posts %q", cat.Name, ids(cat.Posts))
	}

	rr = env.do(t, http.MethodGet, "/api/categories/slug/ai-ml")
	assertStatus(t, rr, http.StatusOK)
	decode(t, rr, &cat)
	if cat.ID != "4" {
		t.Errorf("by slug: got id %q, want 4", cat.ID)
	}

	for _, target := range []string{"/api/categories/99", "/api/categories/slug/cobol"} {
		rr = env.do(t, http.MethodGet, target)
		assertStatus(t, rr, http.StatusNotFound)
	}
}

func TestAuthors(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/authors")
	assertStatus(t, rr, http.StatusOK)
	var list models.Response[[]models.Author]
	decode(t, rr, &list)
	if len(list.Data) != 4 {
		t.Fatalf("authors: got %d, want 4", len(list.Data))
	}

	rr = env.do(t, http.MethodGet, "/api/authors/2")
	assertStatus(t, rr, http.StatusOK)
	var author models.AuthorWithPosts
	decode(t, rr, &author)
	if author.Name != "Jane Smith" || ids(author.Posts) != "2" {
		t.Errorf("author: got %q with posts %q", author.Name, ids(author.Posts))
	}
	if author.SocialLinks.GitHub != "https://github.com/janesmith" {
		t.Errorf("github: got %q", author.SocialLinks.GitHub)
	}

	rr = env.do(t, http.MethodGet, "/api/authors/99")
	assertStatus(t, rr, http.StatusNotFound)
	if got := errorBody(t, rr); got != "author not found" {
		t.Errorf("error: got %q", got)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/search?q=typescript")
	assertStatus(t, rr, http.StatusOK)
	var res models.Response[[]models.Post]
	decode(t, rr, &res)
	if ids(res.Data) != "1" {
		t.Fatalf("ids: got %q, want 1", ids(res.Data))
	}
	if !strings.Contains(res.Data[0].Title, "<mark>TypeScript</mark>") {
		t.Errorf("title not highlighted: %q", res.Data[0].Title)
	}

	for _, target := range []string{"/api/search", "/api/search?q=%20%20", "/api/search?q=nonexistent-term-xyz"} {
		rr = env.do(t, http.MethodGet, target)
		assertStatus(t, rr, http.StatusOK)
		if !strings.Contains(rr.Body.String(), `"data":[]`) {
			t.Errorf("%s: want an empty data array, got %s", target, rr.Body.String())
		}
	}
}

func TestHome(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/home")
	assertStatus(t, rr, http.StatusOK)

	var home models.HomePage
	decode(t, rr, &home)
	if ids(home.FeaturedPosts) != "1,2" {
		t.Errorf("featured: got %q", ids(home.FeaturedPosts))
	}
	if ids(home.RecentPosts) != "1,2,3,4" {
		t.Errorf("recent: got %q", ids(home.RecentPosts))
	}
	if len(home.PopularPosts) != 4 || len(home.Categories) != 4 {
		t.Errorf("popular %d categories %d, want 4/4", len(home.PopularPosts), len(home.Categories))
	}
}

func TestClearPostCache(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(t, http.MethodGet, "/api/posts/4")

	rr := env.do(t, http.MethodDelete, "/api/cache/posts/4")
	assertStatus(t, rr, http.StatusOK)
	var res clearResult
	decode(t, rr, &res)
	if res.Cleared != "post" || res.ID != "4" {
		t.Errorf("clear result: got %+v", res)
	}

	// The next read recomputes and records a second view.
	rr = env.do(t, http.MethodGet, "/api/posts/4")
	var post postDetailBody
	decode(t, rr, &post)
	if post.ViewCount != 2 {
		t.Errorf("view_count after clear: got %d, want 2", post.ViewCount)
	}
}

func TestClearOtherCaches(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		target  string
		cleared string
	}{
		{"/api/cache/categories/1", "category"},
		{"/api/cache/authors/1", "author"},
		{"/api/cache", "all"},
	}
	for _, tt := range tests {
		rr := env.do(t, http.MethodDelete, tt.target)
		assertStatus(t, rr, http.StatusOK)
		var res clearResult
		decode(t, rr, &res)
		if res.Cleared != tt.cleared {
			t.Errorf("%s: cleared %q, want %q", tt.target, res.Cleared, tt.cleared)
		}
	}
}

func TestCacheLogWithoutDatabase(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodGet, "/api/cache/log?limit=5")
	assertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Errorf("body: got %s", rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/api/cache/log?entity=category")
	assertStatus(t, rr, http.StatusOK)

	rr = env.do(t, http.MethodGet, "/api/cache/log?entity=tags")
	assertStatus(t, rr, http.StatusBadRequest)
}

// failingReader fails every call.
type failingReader struct {
	service.Reader
	err error
}

func (f failingReader) ListPosts(context.Context, models.Filters, models.Pagination) (*models.Response[[]models.Post], error) {
	return nil, f.err
}

func (f failingReader) HomePage(context.Context) (*models.HomePage, error) {
	return nil, f.err
}

func TestInternalErrors(t *testing.T) {
	boom := errors.New("connection reset by peer")
	api := NewAPI(failingReader{err: boom}, nil, nil, nil, 10)
	env := &testEnv{API: api, Router: testRouter(api)}

	for _, target := range []string{"/api/posts", "/api/home"} {
		rr := env.do(t, http.MethodGet, target)
		assertStatus(t, rr, http.StatusInternalServerError)
		if got := errorBody(t, rr); got != "internal server error" {
			t.Errorf("%s: error %q leaks or differs", target, got)
		}
	}
}

func TestPageCache(t *testing.T) {
	client := testValkeyClient(t)
	env := newTestEnv(t, cache.NewPageCache(client, 0))

	rr := env.do(t, http.MethodGet, "/api/posts/2")
	assertStatus(t, rr, http.StatusOK)
	if got := rr.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first request X-Cache: got %q, want MISS", got)
	}
	first := rr.Body.String()

	rr = env.do(t, http.MethodGet, "/api/posts/2")
	if got := rr.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second request X-Cache: got %q, want HIT", got)
	}
	if rr.Body.String() != first {
		t.Error("cached body differs from the original response")
	}

	env.do(t, http.MethodDelete, "/api/cache/posts/2")
	rr = env.do(t, http.MethodGet, "/api/posts/2")
	if got := rr.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("after clear X-Cache: got %q, want MISS", got)
	}
}
