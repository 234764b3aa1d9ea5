package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"blogpress/internal/models"
)

// Seed inserts the dataset into empty tables. If any post exists the
// database is considered seeded and nothing is written. Everything is
// inserted in one transaction.
func Seed(ctx context.Context, db *sql.DB, d models.Dataset) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for i, c := range d.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, slug, description, color, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, c.ID, c.Name, c.Slug, c.Description, c.Color, i); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}

	for i, a := range d.Authors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO authors (id, name, bio, avatar, twitter, linkedin, github, join_date, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, a.ID, a.Name, a.Bio, a.Avatar,
			a.SocialLinks.Twitter, a.SocialLinks.LinkedIn, a.SocialLinks.GitHub, a.JoinDate, i); err != nil {
			return fmt.Errorf("seed author %s: %w", a.ID, err)
		}
	}

	for i, p := range d.Posts {
		var slug sql.NullString
		if p.Slug != "" {
			slug = sql.NullString{String: p.Slug, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO posts (id, title, slug, excerpt, content, author_id, category_id,
			                   published, read_time, featured, image_url, likes, view_count, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, p.ID, p.Title, slug, p.Excerpt, p.Content, p.AuthorID, p.CategoryID,
			p.Date, p.ReadTime, p.Featured, p.ImageURL, p.Likes, p.ViewCount, i); err != nil {
			return fmt.Errorf("seed post %s: %w", p.ID, err)
		}
		for j, tag := range p.Tags {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO post_tags (post_id, tag, position)
				VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING
			`, p.ID, tag, j); err != nil {
				return fmt.Errorf("seed tag %q for post %s: %w", tag, p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with blog dataset",
		"posts", len(d.Posts),
		"categories", len(d.Categories),
		"authors", len(d.Authors),
	)
	return nil
}
