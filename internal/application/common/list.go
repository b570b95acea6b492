package common

import (
	"github.com/bizdesk/erp/internal/domain/shared"
)

// ListQuery carries the pagination and sorting parameters accepted by every
// list endpoint
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Filter converts the query into a domain filter with defaults applied
func (q ListQuery) Filter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	return f
}

// Page is one page of a list result
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// NewPage builds a page from the filter that produced it
func NewPage[T any](items []T, total int64, f shared.Filter) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: max(f.Page, 1), PageSize: f.Limit()}
}

// MapPage converts the items of a page
func MapPage[T, R any](p Page[T], fn func(*T) R) Page[R] {
	out := make([]R, len(p.Items))
	for i := range p.Items {
		out[i] = fn(&p.Items[i])
	}
	return Page[R]{Items: out, Total: p.Total, Page: p.Page, PageSize: p.PageSize}
}
