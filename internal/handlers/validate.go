package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
)

// Validation limits for request inputs.
const (
	maxSearchLen = 200
	maxIDLen     = 64
	maxSlugLen   = 300
	maxTags      = 20
)

// validateSearch checks a free-text search term and returns the first
// error found.
func validateSearch(q string) string {
	if utf8.RuneCountInString(q) > maxSearchLen {
		return "search query is too long (max 200 characters)"
	}
	return ""
}

// validateID checks an entity id taken from the path.
func validateID(id string) string {
	if strings.TrimSpace(id) == "" {
		return "id is required"
	}
	if utf8.RuneCountInString(id) > maxIDLen {
		return "id is too long (max 64 characters)"
	}
	return ""
}

// validateSlug checks a slug taken from the path.
func validateSlug(slug string) string {
	if strings.TrimSpace(slug) == "" {
		return "slug is required"
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "slug is too long (max 300 characters)"
	}
	return ""
}

// validateTags checks the number of tags in a listing filter.
func validateTags(tags []string) string {
	if len(tags) > maxTags {
		return "too many tags (max 20)"
	}
	return ""
}

// pathParam reads the named URL parameter and runs check on it. On failure
// it writes a 400 and returns false.
func pathParam(w http.ResponseWriter, r *http.Request, name string, check func(string) string) (string, bool) {
	v := chi.URLParam(r, name)
	if msg := check(v); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return "", false
	}
	return v, true
}
