// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"blogpress/internal/cache"
	"blogpress/internal/store"
)

const (
	cacheLogDefault = 50
	cacheLogMax     = 500
)

type clearResult struct {
	Cleared string `json:"cleared"`
	ID      string `json:"id,omitempty"`
}

// ClearPost drops the cached post and home page from both cache levels.
func (a *API) ClearPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", validateID)
	if !ok {
		return
	}
	a.invalidator.ClearPostCache(id)
	a.pageCache.InvalidatePost(r.Context(), id)
	a.cacheLog.Log(r.Context(), store.EntityPost, id, "clear")
	writeJSON(w, http.StatusOK, clearResult{Cleared: "post", ID: id})
}

// ClearCategory drops the cached category page from both cache levels.
func (a *API) ClearCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", validateID)
	if !ok {
		return
	}
	a.invalidator.ClearCategoryCache(id)
	a.pageCache.Invalidate(r.Context(), cache.CategoryKey(id))
	a.cacheLog.Log(r.Context(), store.EntityCategory, id, "clear")
	writeJSON(w, http.StatusOK, clearResult{Cleared: "category", ID: id})
}

// ClearAuthor drops the cached author page from both cache levels.
func (a *API) ClearAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id", validateID)
	if !ok {
		return
	}
	a.invalidator.ClearAuthorCache(id)
	a.pageCache.Invalidate(r.Context(), cache.AuthorKey(id))
	a.cacheLog.Log(r.Context(), store.EntityAuthor, id, "clear")
	writeJSON(w, http.StatusOK, clearResult{Cleared: "author", ID: id})
}

// ClearAll empties both cache levels.
func (a *API) ClearAll(w http.ResponseWriter, r *http.Request) {
	a.invalidator.ClearAllCache()
	a.pageCache.InvalidateAll(r.Context())
	a.cacheLog.Log(r.Context(), store.EntityAll, "", "clear")
	writeJSON(w, http.StatusOK, clearResult{Cleared: "all"})
}

// CacheLog lists recent invalidations, newest first, optionally only those
// of one entity kind (?entity=post). Without PostgreSQL the list is always
// empty.
func (a *API) CacheLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entity := q.Get("entity")
	if entity != "" && !store.ValidEntity(entity) {
		writeError(w, http.StatusBadRequest, "entity must be one of post, category, author, all")
		return
	}
	entries, err := a.cacheLog.RecentEntries(r.Context(), store.CacheLogFilter{
		EntityType: entity,
		Limit:      queryInt(q, "limit", cacheLogDefault, cacheLogMax),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}
