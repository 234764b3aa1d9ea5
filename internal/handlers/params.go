package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogpress/internal/models"
)

const dateLayout = "2006-01-02"

// parseFilters reads the listing filters from the query string. Tags are a
// comma-separated list; from and to are calendar days, both inclusive.
func parseFilters(q url.Values) (models.Filters, error) {
	f := models.Filters{
		CategoryID: strings.TrimSpace(q.Get("category")),
		AuthorID:   strings.TrimSpace(q.Get("author")),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	if msg := validateSearch(f.Search); msg != "" {
		return f, errors.New(msg)
	}
	if msg := validateTags(f.Tags); msg != "" {
		return f, errors.New(msg)
	}

	if raw := q.Get("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("invalid featured value %q", raw)
		}
		f.Featured = &b
	}

	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" {
		var dr models.DateRange
		if from != "" {
			t, err := time.Parse(dateLayout, from)
			if err != nil {
				return f, fmt.Errorf("invalid from date %q, want YYYY-MM-DD", from)
			}
			dr.Start = t
		}
		if to != "" {
			t, err := time.Parse(dateLayout, to)
			if err != nil {
				return f, fmt.Errorf("invalid to date %q, want YYYY-MM-DD", to)
			}
			// Inclusive of the whole day.
			dr.End = t.Add(24*time.Hour - time.Nanosecond)
		} else {
			dr.End = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
		}
		f.DateRange = &dr
	}

	return f, nil
}

// parsePagination reads page, limit, sort and order. Missing page and
// limit take the defaults; sort and order are passed through for the
// service to validate.
func parsePagination(q url.Values, defaultLimit int) (models.Pagination, error) {
	p := models.Pagination{
		Page:      1,
		Limit:     defaultLimit,
		SortBy:    models.SortKey(q.Get("sort")),
		SortOrder: models.SortOrder(q.Get("order")),
	}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("invalid page %q", raw)
		}
		p.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("invalid limit %q", raw)
		}
		p.Limit = n
	}
	return p, nil
}

// queryInt reads a positive integer parameter, falling back to def and
// capping at maxVal.
func queryInt(q url.Values, key string, def, maxVal int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n < 1 {
		return def
	}
	return min(n, maxVal)
}
