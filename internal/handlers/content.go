// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"blogpress/internal/cache"
	"blogpress/internal/markdown"
	"blogpress/internal/models"
)

// postDetail is a post as served on its own page: the Markdown body is
// also rendered to HTML, with the section outline alongside.
type postDetail struct {
	*models.Post
	ContentHTML string             `json:"content_html"`
	TOC         []markdown.Heading `json:"toc"`
}

// ListPosts serves a filtered, sorted and paginated post listing.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters, err := parseFilters(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := parsePagination(q, a.defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := a.reader.ListPosts(r.Context(), filters, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetPost serves a post with its related posts and records a view.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", validateID)
	if !ok {
		return
	}
	a.servePost(w, r, id)
}

// GetPostBySlug resolves the slug and then behaves like GetPost.
func (a *API) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	slug, ok := pathParam(w, r, "slug", validateSlug)
	if !ok {
		return
	}
	post, err := a.reader.PostBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	a.servePost(w, r, post.ID)
}

func (a *API) servePost(w http.ResponseWriter, r *http.Request, id string) {
	a.serveCached(w, r, cache.PostKey(id), "post not found", func(ctx context.Context) (any, error) {
		post, err := a.reader.PostWithRelated(ctx, id)
		if err != nil || post == nil {
			return nil, err
		}
		doc, err := markdown.Render(post.Content)
		if err != nil {
			// The raw Markdown is still usable by the client.
			slog.Warn("render post markdown failed", "post_id", id, "error", err)
		}
		return postDetail{Post: post, ContentHTML: doc.HTML, TOC: doc.Outline}, nil
	})
}

// ListCategories serves every category with its post count.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.reader.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Response[[]models.Category]{Data: categories})
}

// GetCategory serves a category with all of its posts.
func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", validateID)
	if !ok {
		return
	}
	a.serveCategory(w, r, id)
}

// GetCategoryBySlug resolves the slug and then behaves like GetCategory.
func (a *API) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	slug, ok := pathParam(w, r, "slug", validateSlug)
	if !ok {
		return
	}
	category, err := a.reader.CategoryBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	a.serveCategory(w, r, category.ID)
}

func (a *API) serveCategory(w http.ResponseWriter, r *http.Request, id string) {
	a.serveCached(w, r, cache.CategoryKey(id), "category not found", func(ctx context.Context) (any, error) {
		category, err := a.reader.CategoryWithPosts(ctx, id)
		if err != nil || category == nil {
			return nil, err
		}
		return category, nil
	})
}

// ListAuthors serves every author with their post count.
func (a *API) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := a.reader.Authors(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Response[[]models.Author]{Data: authors})
}

// GetAuthor serves an author with all of their posts.
func (a *API) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", validateID)
	if !ok {
		return
	}
	a.serveCached(w, r, cache.AuthorKey(id), "author not found", func(ctx context.Context) (any, error) {
		author, err := a.reader.AuthorWithPosts(ctx, id)
		if err != nil || author == nil {
			return nil, err
		}
		return author, nil
	})
}

// Search serves highlighted search results. A missing or blank q yields an
// empty list.
func (a *API) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if msg := validateSearch(query); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	posts, err := a.reader.SearchWithHighlight(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Response[[]models.Post]{Data: posts})
}

// Home serves the home page bundle.
func (a *API) Home(w http.ResponseWriter, r *http.Request) {
	a.serveCached(w, r, cache.HomepageKey(), "home page unavailable", func(ctx context.Context) (any, error) {
		home, err := a.reader.HomePage(ctx)
		if err != nil || home == nil {
			return nil, err
		}
		return home, nil
	})
}
