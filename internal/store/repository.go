// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides read access to the blog content set. Repository
// is the capability set the query service depends on; MemoryRepository is
// the implementation backed by a dataset loaded once at startup.
package store

import (
	"context"

	"blogpress/internal/models"
)

// Repository is the read surface over posts, categories and authors plus
// the single permitted mutation, the per-post view counter.
//
// Lookups return (nil, nil) when nothing matches. Subset queries return an
// empty slice, never an error, for unknown ids. An error means the
// underlying source itself failed.
type Repository interface {
	AllPosts(ctx context.Context) ([]models.Post, error)
	PostByID(ctx context.Context, id string) (*models.Post, error)
	PostBySlug(ctx context.Context, slug string) (*models.Post, error)
	PostsByCategory(ctx context.Context, categoryID string) ([]models.Post, error)
	PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	FeaturedPosts(ctx context.Context) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	RelatedPosts(ctx context.Context, postID string, limit int) ([]models.Post, error)
	PopularPosts(ctx context.Context, limit int) ([]models.Post, error)
	RecentPosts(ctx context.Context, limit int) ([]models.Post, error)

	AllCategories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id string) (*models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)

	AllAuthors(ctx context.Context) ([]models.Author, error)
	AuthorByID(ctx context.Context, id string) (*models.Author, error)

	IncrementViewCount(ctx context.Context, postID string) error
}
