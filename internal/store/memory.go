// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"blogpress/internal/models"
	"blogpress/internal/slug"
)

// MemoryRepository serves a fixed dataset from memory. The posts,
// categories and authors never change after construction; view counts
// live in a separate counter map so that the post values themselves stay
// immutable.
type MemoryRepository struct {
	posts      []models.Post
	postIndex  map[string]int
	categories []models.Category
	authors    []models.Author

	mu    sync.RWMutex
	views map[string]int
}

// NewMemoryRepository validates and copies the dataset. Posts without a
// slug get one generated from their title, and category/author post counts
// are derived from the posts. Any ViewCount present in the dataset seeds
// the counter.
func NewMemoryRepository(data models.Dataset) (*MemoryRepository, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	r := &MemoryRepository{
		posts:      make([]models.Post, 0, len(data.Posts)),
		postIndex:  make(map[string]int, len(data.Posts)),
		categories: make([]models.Category, len(data.Categories)),
		authors:    make([]models.Author, len(data.Authors)),
		views:      make(map[string]int, len(data.Posts)),
	}

	usedSlugs := make(map[string]bool, len(data.Posts))
	for _, p := range data.Posts {
		if p.Slug != "" {
			usedSlugs[p.Slug] = true
		}
	}

	perCategory := make(map[string]int)
	perAuthor := make(map[string]int)
	for _, p := range data.Posts {
		p = p.Clone()
		p.RelatedPosts = nil
		if p.Slug == "" {
			p.Slug = slug.Unique(p.Title, p.ID, usedSlugs)
		}
		r.views[p.ID] = p.ViewCount
		p.ViewCount = 0
		r.postIndex[p.ID] = len(r.posts)
		r.posts = append(r.posts, p)
		perCategory[p.CategoryID]++
		perAuthor[p.AuthorID]++
	}

	copy(r.categories, data.Categories)
	for i := range r.categories {
		r.categories[i].PostCount = perCategory[r.categories[i].ID]
	}
	copy(r.authors, data.Authors)
	for i := range r.authors {
		r.authors[i].PostCount = perAuthor[r.authors[i].ID]
	}

	slog.Info("content repository loaded",
		"posts", len(r.posts),
		"categories", len(r.categories),
		"authors", len(r.authors),
	)
	return r, nil
}

// project returns a detached copy of p with the current view count.
// Callers must hold at least a read lock.
func (r *MemoryRepository) project(p *models.Post) models.Post {
	out := p.Clone()
	out.ViewCount = r.views[p.ID]
	return out
}

// filter returns projected copies of every post matching keep, in store order.
func (r *MemoryRepository) filter(keep func(p *models.Post) bool) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Post{}
	for i := range r.posts {
		if keep(&r.posts[i]) {
			out = append(out, r.project(&r.posts[i]))
		}
	}
	return out
}

func (r *MemoryRepository) AllPosts(_ context.Context) ([]models.Post, error) {
	return r.filter(func(*models.Post) bool { return true }), nil
}

func (r *MemoryRepository) PostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.postIndex[id]
	if !ok {
		return nil, nil
	}
	p := r.project(&r.posts[i])
	return &p, nil
}

func (r *MemoryRepository) PostBySlug(_ context.Context, slug string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.posts {
		if r.posts[i].Slug == slug {
			p := r.project(&r.posts[i])
			return &p, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) PostsByCategory(_ context.Context, categoryID string) ([]models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.CategoryID == categoryID }), nil
}

func (r *MemoryRepository) PostsByAuthor(_ context.Context, authorID string) ([]models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *MemoryRepository) FeaturedPosts(_ context.Context) ([]models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.Featured }), nil
}

// SearchPosts matches query as a literal, case-insensitive substring of the
// title, excerpt, content or any tag. An empty query matches everything;
// guarding against that is the caller's job.
func (r *MemoryRepository) SearchPosts(_ context.Context, query string) ([]models.Post, error) {
	q := strings.ToLower(query)
	return r.filter(func(p *models.Post) bool {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q) ||
			strings.Contains(strings.ToLower(p.Content), q) {
			return true
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}), nil
}

// RelatedPosts returns up to limit posts that share the source post's
// category or at least one of its tags, in store order. There is no
// relevance ranking beyond that inclusion test.
func (r *MemoryRepository) RelatedPosts(_ context.Context, postID string, limit int) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Post{}
	i, ok := r.postIndex[postID]
	if !ok || limit <= 0 {
		return out, nil
	}
	src := &r.posts[i]

	for j := range r.posts {
		if len(out) == limit {
			break
		}
		p := &r.posts[j]
		if p.ID == postID {
			continue
		}
		if p.CategoryID == src.CategoryID || p.SharesTag(src) {
			out = append(out, r.project(p))
		}
	}
	return out, nil
}

// PopularPosts returns the posts with the highest view counts first.
// Posts with equal counts keep store order.
func (r *MemoryRepository) PopularPosts(ctx context.Context, limit int) ([]models.Post, error) {
	posts, _ := r.AllPosts(ctx)
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return cmp.Compare(b.ViewCount, a.ViewCount)
	})
	return truncate(posts, limit), nil
}

// RecentPosts returns the most recently published posts first.
func (r *MemoryRepository) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	posts, _ := r.AllPosts(ctx)
	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return b.Date.Compare(a.Date)
	})
	return truncate(posts, limit), nil
}

func truncate(posts []models.Post, limit int) []models.Post {
	if limit < 0 {
		limit = 0
	}
	if len(posts) > limit {
		return posts[:limit]
	}
	return posts
}

func (r *MemoryRepository) AllCategories(_ context.Context) ([]models.Category, error) {
	return slices.Clone(r.categories), nil
}

func (r *MemoryRepository) CategoryByID(_ context.Context, id string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) CategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) AllAuthors(_ context.Context) ([]models.Author, error) {
	return slices.Clone(r.authors), nil
}

func (r *MemoryRepository) AuthorByID(_ context.Context, id string) (*models.Author, error) {
	for _, a := range r.authors {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

// IncrementViewCount bumps the counter for postID. Unknown ids are ignored.
func (r *MemoryRepository) IncrementViewCount(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.postIndex[postID]; !ok {
		return nil
	}
	r.views[postID]++
	slog.Debug("view count incremented", "post_id", postID, "views", r.views[postID])
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
