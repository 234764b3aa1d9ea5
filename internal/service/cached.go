// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"blogpress/internal/cache"
	"blogpress/internal/models"
)

// Cached memoizes the composite reads of another Reader in a TTL cache.
//
// Listings, single posts, category and author pages and the home page are
// cached; search, slug lookups and the plain category/author lists always
// go to the inner reader. Nil results and errors are never stored.
// Concurrent misses on the same key share one inner call, so a single-post
// miss records exactly one view.
//
// A cached single post is a snapshot: hits serve the view count captured on
// the miss until the entry expires or ClearPostCache is called. Values
// returned from the cache are shared and must not be modified.
type Cached struct {
	inner Reader
	cache *cache.TTLCache
	group singleflight.Group
}

// NewCached wraps inner with c.
func NewCached(inner Reader, c *cache.TTLCache) *Cached {
	return &Cached{inner: inner, cache: c}
}

var _ Reader = (*Cached)(nil)

// load returns the fresh entry under key or computes, stores and returns it.
// The shared computation runs detached from the first caller's
// cancellation, so one aborted request cannot fail the callers waiting on
// the same flight; each caller still stops waiting when its own ctx ends.
func load[T any](ctx context.Context, c *Cached, key string, compute func(context.Context) (*T, error)) (*T, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.(*T), nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// A flight that finished between our miss and DoChan may have filled it.
		if v, ok := c.cache.Lookup(key); ok {
			return v, nil
		}
		res, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if res != nil {
			c.cache.Set(key, res)
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res, _ := r.Val.(*T)
		return res, nil
	}
}

func (c *Cached) ListPosts(ctx context.Context, filters models.Filters, page models.Pagination) (*models.Response[[]models.Post], error) {
	key, err := cache.PostsKey(filters, page)
	if err != nil {
		slog.Warn("posts cache key failed, bypassing cache", "error", err)
		return c.inner.ListPosts(ctx, filters, page)
	}
	return load(ctx, c, key, func(ctx context.Context) (*models.Response[[]models.Post], error) {
		return c.inner.ListPosts(ctx, filters, page)
	})
}

func (c *Cached) PostWithRelated(ctx context.Context, id string) (*models.Post, error) {
	return load(ctx, c, cache.PostKey(id), func(ctx context.Context) (*models.Post, error) {
		return c.inner.PostWithRelated(ctx, id)
	})
}

func (c *Cached) CategoryWithPosts(ctx context.Context, id string) (*models.CategoryWithPosts, error) {
	return load(ctx, c, cache.CategoryKey(id), func(ctx context.Context) (*models.CategoryWithPosts, error) {
		return c.inner.CategoryWithPosts(ctx, id)
	})
}

func (c *Cached) AuthorWithPosts(ctx context.Context, id string) (*models.AuthorWithPosts, error) {
	return load(ctx, c, cache.AuthorKey(id), func(ctx context.Context) (*models.AuthorWithPosts, error) {
		return c.inner.AuthorWithPosts(ctx, id)
	})
}

func (c *Cached) HomePage(ctx context.Context) (*models.HomePage, error) {
	return load(ctx, c, cache.HomepageKey(), func(ctx context.Context) (*models.HomePage, error) {
		return c.inner.HomePage(ctx)
	})
}

// SearchWithHighlight is never cached.
func (c *Cached) SearchWithHighlight(ctx context.Context, query string) ([]models.Post, error) {
	return c.inner.SearchWithHighlight(ctx, query)
}

func (c *Cached) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return c.inner.PostBySlug(ctx, slug)
}

func (c *Cached) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return c.inner.CategoryBySlug(ctx, slug)
}

func (c *Cached) Categories(ctx context.Context) ([]models.Category, error) {
	return c.inner.Categories(ctx)
}

func (c *Cached) Authors(ctx context.Context) ([]models.Author, error) {
	return c.inner.Authors(ctx)
}

// ClearPostCache drops the cached post and the home page, whose recent and
// popular lists are derived from post data. Listings are left alone.
func (c *Cached) ClearPostCache(id string) {
	c.cache.Delete(cache.PostKey(id), cache.HomepageKey())
	slog.Info("post cache cleared", "post_id", id)
}

// ClearCategoryCache drops the cached category page.
func (c *Cached) ClearCategoryCache(id string) {
	c.cache.Delete(cache.CategoryKey(id))
	slog.Info("category cache cleared", "category_id", id)
}

// ClearAuthorCache drops the cached author page.
func (c *Cached) ClearAuthorCache(id string) {
	c.cache.Delete(cache.AuthorKey(id))
	slog.Info("author cache cleared", "author_id", id)
}

// ClearAllCache drops every cached entry.
func (c *Cached) ClearAllCache() {
	c.cache.Clear()
	slog.Info("cache fully cleared")
}
