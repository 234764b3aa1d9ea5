// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"blogpress/internal/models"
)

// ListPosts filters, sorts and paginates the full post set.
//
// Page and limit must be at least 1 (ErrInvalidPagination); a limit above
// the configured maximum is clamped. Empty sort fields mean date,
// descending. A page past the last one returns an empty slice with the
// real totals.
func (s *Service) ListPosts(ctx context.Context, filters models.Filters, page models.Pagination) (*models.Response[[]models.Post], error) {
	page, err := normalizePagination(page, s.maxLimit)
	if err != nil {
		return nil, err
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	posts, err := s.repo.AllPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts = applyFilters(posts, filters)
	sortPosts(posts, page.SortBy, page.SortOrder)
	data, totalPages := paginate(posts, page.Page, page.Limit)

	now := s.now()
	slog.Debug("posts listed",
		"page", page.Page,
		"limit", page.Limit,
		"total", len(posts),
		"returned", len(data),
	)

	return &models.Response[[]models.Post]{
		Data: data,
		Pagination: &models.PageInfo{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      len(posts),
			TotalPages: totalPages,
		},
		Meta: &models.Meta{
			LastUpdated: now,
			CacheExpiry: now.Add(s.freshness),
		},
	}, nil
}

// PostWithRelated returns the post with up to three related posts and
// records a view. The returned post already includes that view. Returns
// nil if the post does not exist, in which case no view is recorded.
func (s *Service) PostWithRelated(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.PostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if post == nil {
		return nil, nil
	}

	related, err := s.repo.RelatedPosts(ctx, id, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("related posts: %w", err)
	}

	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		return nil, fmt.Errorf("increment view count: %w", err)
	}

	post.ViewCount++
	post.RelatedPosts = related
	return post, nil
}

// PostBySlug resolves a post by slug without recording a view.
func (s *Service) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.repo.PostBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return post, nil
}

// CategoryWithPosts returns the category and every post filed under it,
// or nil if the category does not exist.
func (s *Service) CategoryWithPosts(ctx context.Context, id string) (*models.CategoryWithPosts, error) {
	category, err := s.repo.CategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, nil
	}

	posts, err := s.repo.PostsByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("posts by category: %w", err)
	}
	return &models.CategoryWithPosts{Category: *category, Posts: posts}, nil
}

// CategoryBySlug resolves a category by its slug.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.CategoryBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return category, nil
}

// AuthorWithPosts returns the author and every post they wrote, or nil if
// the author does not exist.
func (s *Service) AuthorWithPosts(ctx context.Context, id string) (*models.AuthorWithPosts, error) {
	author, err := s.repo.AuthorByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	if author == nil {
		return nil, nil
	}

	posts, err := s.repo.PostsByAuthor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("posts by author: %w", err)
	}
	return &models.AuthorWithPosts{Author: *author, Posts: posts}, nil
}

// SearchWithHighlight runs the repository search and marks every
// case-insensitive occurrence of the term in each match's title and
// excerpt with <mark>. A blank query returns no results.
func (s *Service) SearchWithHighlight(ctx context.Context, query string) ([]models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Post{}, nil
	}

	posts, err := s.repo.SearchPosts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	h := newHighlighter(query)
	for i := range posts {
		posts[i].Title = h.apply(posts[i].Title)
		posts[i].Excerpt = h.apply(posts[i].Excerpt)
	}

	slog.Debug("search completed", "query", query, "results", len(posts))
	return posts, nil
}

// HomePage gathers featured, recent and popular posts and all categories.
// The four reads are independent and run concurrently.
func (s *Service) HomePage(ctx context.Context) (*models.HomePage, error) {
	var home models.HomePage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		home.FeaturedPosts, err = s.repo.FeaturedPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		home.RecentPosts, err = s.repo.RecentPosts(gctx, homeRecent)
		return err
	})
	g.Go(func() (err error) {
		home.PopularPosts, err = s.repo.PopularPosts(gctx, homePopular)
		return err
	})
	g.Go(func() (err error) {
		home.Categories, err = s.repo.AllCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("home page: %w", err)
	}
	return &home, nil
}

// Categories returns every category.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.AllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Authors returns every author.
func (s *Service) Authors(ctx context.Context) ([]models.Author, error) {
	authors, err := s.repo.AllAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}
