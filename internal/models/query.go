// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// SortKey selects the field a post listing is ordered by.
type SortKey string

const (
	SortByDate      SortKey = "date"
	SortByTitle     SortKey = "title"
	SortByReadTime  SortKey = "readTime"
	SortByViewCount SortKey = "viewCount"
)

// Valid reports whether k is one of the known sort keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortByDate, SortByTitle, SortByReadTime, SortByViewCount:
		return true
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// DateRange is an inclusive publication-date window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Filters narrows a post listing. Every field is optional: a zero value
// (nil pointer, empty string, empty slice) disables that predicate.
type Filters struct {
	CategoryID string     `json:"category,omitempty"`
	AuthorID   string     `json:"author,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Featured   *bool      `json:"featured,omitempty"`
	Search     string     `json:"search,omitempty"`
	DateRange  *DateRange `json:"date_range,omitempty"`
}

// Pagination selects a 1-based page of a sorted listing. Empty SortBy and
// SortOrder mean date, descending.
type Pagination struct {
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	SortBy    SortKey   `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
}

// PageInfo describes where a page sits in the full result set.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Meta carries freshness information for a response.
type Meta struct {
	LastUpdated time.Time `json:"last_updated"`
	CacheExpiry time.Time `json:"cache_expiry"`
}

// Response is the envelope returned by listing operations.
type Response[T any] struct {
	Data       T         `json:"data"`
	Pagination *PageInfo `json:"pagination,omitempty"`
	Meta       *Meta     `json:"meta,omitempty"`
}
