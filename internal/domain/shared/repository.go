package shared

import (
	"time"
)

// Filter carries paging, sorting, search and equality filters for list
// queries. Filters keys are checked against a per-repository allow-list.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
	From     *time.Time
	To       *time.Time
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Offset returns the row offset of the requested page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the page size clamped to sane bounds
func (f Filter) Limit() int {
	switch {
	case f.PageSize <= 0:
		return 20
	case f.PageSize > 100:
		return 100
	default:
		return f.PageSize
	}
}

// With returns a copy of the filter with an additional equality filter
func (f Filter) With(key string, value any) Filter {
	filters := make(map[string]any, len(f.Filters)+1)
	for k, v := range f.Filters {
		filters[k] = v
	}
	filters[key] = value
	f.Filters = filters
	return f
}

// PageCount returns how many pages of pageSize rows hold total rows
func PageCount(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
