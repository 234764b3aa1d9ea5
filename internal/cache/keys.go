// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"blogpress/internal/models"
)

const homepageKey = "homepage"

// PostsKey returns the key for a paginated listing. The filters and
// pagination are serialized to JSON with the tag set sorted, so that two
// requests selecting the same posts share an entry.
func PostsKey(filters models.Filters, page models.Pagination) (string, error) {
	if len(filters.Tags) > 0 {
		filters.Tags = slices.Clone(filters.Tags)
		slices.Sort(filters.Tags)
	}
	b, err := json.Marshal(struct {
		Filters    models.Filters    `json:"filters"`
		Pagination models.Pagination `json:"pagination"`
	}{filters, page})
	if err != nil {
		return "", fmt.Errorf("encode posts key: %w", err)
	}
	return "posts:" + string(b), nil
}

// PostKey returns the key for a single post with its related posts.
func PostKey(id string) string {
	return "post:" + id
}

// CategoryKey returns the key for a category with its posts.
func CategoryKey(id string) string {
	return "category:" + id
}

// AuthorKey returns the key for an author with their posts.
func AuthorKey(id string) string {
	return "author:" + id
}

// HomepageKey returns the key for the home page bundle.
func HomepageKey() string {
	return homepageKey
}

// keyKind returns the operation part of a key ("posts", "post", ...),
// used as a low-cardinality metrics label.
func keyKind(key string) string {
	if i := strings.IndexByte(key, ':'); i != -1 {
		return key[:i]
	}
	return key
}
