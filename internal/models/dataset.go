// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
)

// Dataset is the complete, fixed content set handed to a repository at
// construction. It is the shape of the embedded seed file, of the JSON
// object fetched from S3 and of the rows read back from PostgreSQL.
type Dataset struct {
	Posts      []Post     `json:"posts"`
	Categories []Category `json:"categories"`
	Authors    []Author   `json:"authors"`
}

// Validate checks the uniqueness invariants the repository relies on:
// post ids, post slugs, category ids, category slugs and author ids.
// Dangling category or author references are allowed.
func (d *Dataset) Validate() error {
	postIDs := make(map[string]bool, len(d.Posts))
	postSlugs := make(map[string]bool, len(d.Posts))
	for _, p := range d.Posts {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("post %q: empty id", p.Title)
		}
		if postIDs[p.ID] {
			return fmt.Errorf("duplicate post id %q", p.ID)
		}
		postIDs[p.ID] = true
		if p.Slug != "" {
			if postSlugs[p.Slug] {
				return fmt.Errorf("duplicate post slug %q", p.Slug)
			}
			postSlugs[p.Slug] = true
		}
	}

	catIDs := make(map[string]bool, len(d.Categories))
	catSlugs := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if catIDs[c.ID] {
			return fmt.Errorf("duplicate category id %q", c.ID)
		}
		catIDs[c.ID] = true
		if catSlugs[c.Slug] {
			return fmt.Errorf("duplicate category slug %q", c.Slug)
		}
		catSlugs[c.Slug] = true
	}

	authorIDs := make(map[string]bool, len(d.Authors))
	for _, a := range d.Authors {
		if authorIDs[a.ID] {
			return fmt.Errorf("duplicate author id %q", a.ID)
		}
		authorIDs[a.ID] = true
	}
	return nil
}
