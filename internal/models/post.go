// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models holds the blog entities and the query/response shapes
// exchanged between the repository, the query service and its callers.
package models

import (
	"time"
)

// Post is a single blog article. Everything except ViewCount is fixed once
// the dataset is loaded; ViewCount is a projection of the repository's
// per-post counter taken at read time.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug,omitempty"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	CategoryID string    `json:"category_id"`
	Date       time.Time `json:"date"`
	Tags       []string  `json:"tags"`
	ReadTime   int       `json:"read_time"`
	Featured   bool      `json:"featured"`
	ImageURL   string    `json:"image_url,omitempty"`
	Likes      int       `json:"likes,omitempty"`
	ViewCount  int       `json:"view_count"`

	// Virtual field populated by the query service.
	RelatedPosts []Post `json:"related_posts,omitempty"`
}

// HasTag reports whether the post carries the exact tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SharesTag reports whether the two posts have at least one tag in common.
func (p *Post) SharesTag(other *Post) bool {
	for _, t := range other.Tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with p.
func (p Post) Clone() Post {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	if p.RelatedPosts != nil {
		related := make([]Post, len(p.RelatedPosts))
		for i, r := range p.RelatedPosts {
			related[i] = r.Clone()
		}
		p.RelatedPosts = related
	}
	return p
}
