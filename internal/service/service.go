// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service turns repository reads into the views the front end
// consumes: filtered, sorted and paginated post listings, a post with its
// related posts, category and author pages, highlighted search results and
// the home page bundle. Cached wraps any Reader with the TTL cache.
package service

import (
	"context"
	"errors"
	"time"

	"blogpress/internal/models"
	"blogpress/internal/store"
)

// Request validation errors. Not-found is never an error: lookups return
// a nil result instead.
var (
	ErrInvalidPagination = errors.New("page and limit must be at least 1")
	ErrInvalidDateRange  = errors.New("date range start is after end")
	ErrInvalidSort       = errors.New("unknown sort key or order")
)

const (
	// DefaultFreshness is the horizon reported in response metadata.
	DefaultFreshness = 5 * time.Minute

	relatedLimit = 3
	homeRecent   = 5
	homePopular  = 5
)

// Reader is the read surface shared by Service and Cached.
type Reader interface {
	ListPosts(ctx context.Context, filters models.Filters, page models.Pagination) (*models.Response[[]models.Post], error)
	PostWithRelated(ctx context.Context, id string) (*models.Post, error)
	PostBySlug(ctx context.Context, slug string) (*models.Post, error)
	CategoryWithPosts(ctx context.Context, id string) (*models.CategoryWithPosts, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	AuthorWithPosts(ctx context.Context, id string) (*models.AuthorWithPosts, error)
	SearchWithHighlight(ctx context.Context, query string) ([]models.Post, error)
	HomePage(ctx context.Context) (*models.HomePage, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Authors(ctx context.Context) ([]models.Author, error)
}

// Service implements Reader directly on top of a repository.
type Service struct {
	repo      store.Repository
	now       func() time.Time
	freshness time.Duration
	maxLimit  int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for response metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithFreshness sets the cache-expiry horizon reported in metadata.
func WithFreshness(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.freshness = d
		}
	}
}

// WithMaxLimit caps the page size; larger limits are clamped. Zero
// disables the cap.
func WithMaxLimit(n int) Option {
	return func(s *Service) { s.maxLimit = n }
}

// New creates a Service reading from repo.
func New(repo store.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		now:       time.Now,
		freshness: DefaultFreshness,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Reader = (*Service)(nil)
