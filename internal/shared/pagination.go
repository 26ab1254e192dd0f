package shared

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// ListFilters represents standard list endpoint filters.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the SQL offset for the current page.
func (f ListFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// FiltersFromRequest reads page/limit/search query parameters with defaults.
func FiltersFromRequest(r *http.Request) ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return ListFilters{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
}

// PagedResult wraps a page of items with pagination metadata.
type PagedResult[T any] struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

// NewPagedResult computes pagination metadata for a page of items.
func NewPagedResult[T any](items []T, filters ListFilters, total int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if filters.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filters.Limit)))
	}
	return PagedResult[T]{
		Page:       filters.Page,
		PageSize:   filters.Limit,
		TotalItems: total,
		TotalPages: totalPages,
		Items:      items,
	}
}
