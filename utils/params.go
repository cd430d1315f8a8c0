package utils

import (
	"net/http"
	"strconv"
	"strings"
)

type QueryOptions struct {
	Page       int
	Limit      int
	Category   string
	Search     string
	Featured   *bool
	New        *bool
	Discounted *bool
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 20
	}

	return QueryOptions{
		Page:       page,
		Limit:      limit,
		Category:   q.Get("category"),
		Search:     q.Get("search"),
		Featured:   boolParam(q.Get("featured")),
		New:        boolParam(q.Get("new")),
		Discounted: boolParam(q.Get("discounted")),
	}
}

func boolParam(s string) *bool {
	if s == "" {
		return nil
	}
	val := s == "true" || s == "1"
	return &val
}

// Paginate returns the page of items selected by page and limit (1-based).
func Paginate[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func ContainsIgnoreCase(str, substr string) bool {
	return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
}
