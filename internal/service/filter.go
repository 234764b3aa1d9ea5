package service

import (
	"cmp"
	"slices"
	"strings"

	"blogpress/internal/models"
)

// normalizePagination fills the default sort and rejects malformed
// requests. Limits above maxLimit are clamped when maxLimit > 0.
func normalizePagination(p models.Pagination, maxLimit int) (models.Pagination, error) {
	if p.Page < 1 || p.Limit < 1 {
		return p, ErrInvalidPagination
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.SortBy == "" {
		p.SortBy = models.SortByDate
	}
	if p.SortOrder == "" {
		p.SortOrder = models.SortDesc
	}
	if !p.SortBy.Valid() || !p.SortOrder.Valid() {
		return p, ErrInvalidSort
	}
	return p, nil
}

func validateFilters(f models.Filters) error {
	if f.DateRange != nil && f.DateRange.Start.After(f.DateRange.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// matches applies every active predicate in a fixed order: category,
// author, featured, tags (any), search, date range.
func matches(p *models.Post, f models.Filters) bool {
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.AuthorID != "" && p.AuthorID != f.AuthorID {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, p.HasTag) {
		return false
	}
	if f.Search != "" && !matchesSearch(p, strings.ToLower(f.Search)) {
		return false
	}
	if f.DateRange != nil && (p.Date.Before(f.DateRange.Start) || p.Date.After(f.DateRange.End)) {
		return false
	}
	return true
}

// matchesSearch is the listing search: title, excerpt or any tag. Unlike
// the repository search it does not look at the body.
func matchesSearch(p *models.Post, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Excerpt), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func applyFilters(posts []models.Post, f models.Filters) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		if matches(&posts[i], f) {
			out = append(out, posts[i])
		}
	}
	return out
}

// sortPosts orders posts in place. The sort is stable, so ties keep their
// incoming order in both directions.
func sortPosts(posts []models.Post, key models.SortKey, order models.SortOrder) {
	compare := func(a, b models.Post) int {
		switch key {
		case models.SortByTitle:
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case models.SortByReadTime:
			return cmp.Compare(a.ReadTime, b.ReadTime)
		case models.SortByViewCount:
			return cmp.Compare(a.ViewCount, b.ViewCount)
		default:
			return a.Date.Compare(b.Date)
		}
	}
	if order == models.SortDesc {
		slices.SortStableFunc(posts, func(a, b models.Post) int { return -compare(a, b) })
		return
	}
	slices.SortStableFunc(posts, compare)
}

// paginate returns the requested page and the total page count. A page past
// the end is an empty slice.
func paginate(posts []models.Post, page, limit int) ([]models.Post, int) {
	total := len(posts)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page-1 >= totalPages {
		return []models.Post{}, totalPages
	}
	start := (page - 1) * limit
	end := start + min(limit, total-start)
	return posts[start:end], totalPages
}
