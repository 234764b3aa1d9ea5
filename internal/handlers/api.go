// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API consumed by the blog front end.
// Handlers translate query strings into service calls and service results
// into JSON; they hold no content logic of their own.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blogpress/internal/cache"
	"blogpress/internal/service"
	"blogpress/internal/store"
)

// Invalidator drops cached query results. service.Cached implements it.
type Invalidator interface {
	ClearPostCache(id string)
	ClearCategoryCache(id string)
	ClearAuthorCache(id string)
	ClearAllCache()
}

// API groups the content and cache-management handlers. It checks the L2
// Valkey page cache before calling the reader for single-entity responses
// and stores the encoded JSON on miss.
type API struct {
	reader       service.Reader
	invalidator  Invalidator
	pageCache    *cache.PageCache
	cacheLog     *store.CacheLogStore
	defaultLimit int
}

// NewAPI creates the API handler group. pageCache and cacheLog may be nil
// when Valkey or PostgreSQL are not configured.
func NewAPI(reader service.Reader, invalidator Invalidator, pageCache *cache.PageCache, cacheLog *store.CacheLogStore, defaultLimit int) *API {
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	return &API{
		reader:       reader,
		invalidator:  invalidator,
		pageCache:    pageCache,
		cacheLog:     cacheLog,
		defaultLimit: defaultLimit,
	}
}

// writeJSON sends data as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError sends the standard {"error": "..."} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error to a response. Request
// validation failures are the caller's fault; anything else is ours.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPagination),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidSort):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// serveCached writes the L2 entry for key if present. Otherwise it calls
// load; a nil payload becomes a 404 with notFound as message, and a
// non-nil one is encoded, stored in L2 and written.
func (a *API) serveCached(w http.ResponseWriter, r *http.Request, key, notFound string, load func(ctx context.Context) (any, error)) {
	ctx := r.Context()

	if body, ok := a.pageCache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		w.Write(body)
		return
	}

	payload, err := load(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if payload == nil {
		writeError(w, http.StatusNotFound, notFound)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	body = append(body, '\n')
	a.pageCache.Set(ctx, key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}
