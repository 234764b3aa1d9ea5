// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"blogpress/internal/models"
)

// Load reads the whole blog from the database in one pass. Rows come back
// in their stored position order so the in-memory store order matches the
// order the dataset was seeded in.
func Load(ctx context.Context, db *sql.DB) (models.Dataset, error) {
	var d models.Dataset

	categories, err := loadCategories(ctx, db)
	if err != nil {
		return d, err
	}
	authors, err := loadAuthors(ctx, db)
	if err != nil {
		return d, err
	}
	posts, err := loadPosts(ctx, db)
	if err != nil {
		return d, err
	}

	d = models.Dataset{Posts: posts, Categories: categories, Authors: authors}
	slog.Info("dataset loaded from database",
		"posts", len(posts),
		"categories", len(categories),
		"authors", len(authors),
	)
	return d, nil
}

func loadCategories(ctx context.Context, db *sql.DB) ([]models.Category, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, slug, description, color
		FROM categories
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func loadAuthors(ctx context.Context, db *sql.DB) ([]models.Author, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, bio, avatar, twitter, linkedin, github, join_date
		FROM authors
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		var (
			a        models.Author
			joinDate sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.Avatar,
			&a.SocialLinks.Twitter, &a.SocialLinks.LinkedIn, &a.SocialLinks.GitHub, &joinDate); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		if joinDate.Valid {
			t := joinDate.Time
			a.JoinDate = &t
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func loadPosts(ctx context.Context, db *sql.DB) ([]models.Post, error) {
	tags, err := loadTags(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, slug, excerpt, content, author_id, category_id,
		       published, read_time, featured, image_url, likes, view_count
		FROM posts
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var (
			p    models.Post
			slug sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &slug, &p.Excerpt, &p.Content, &p.AuthorID, &p.CategoryID,
			&p.Date, &p.ReadTime, &p.Featured, &p.ImageURL, &p.Likes, &p.ViewCount); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.Slug = slug.String
		p.Tags = tags[p.ID]
		if p.Tags == nil {
			p.Tags = []string{}
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func loadTags(ctx context.Context, db *sql.DB) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT post_id, tag
		FROM post_tags
		ORDER BY post_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("query post tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var postID, tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		tags[postID] = append(tags[postID], tag)
	}
	return tags, rows.Err()
}
