// Package pagination holds the shared paging filter, the page envelope and
// helpers to apply them to bun select queries.
package pagination

import (
	"fmt"
	"strings"

	"github.com/brandkeep/brandkeep/pkg/errcodes"
	"github.com/uptrace/bun"
)

// Filter is the paging part of a search request.
type Filter struct {
	PageNumber int      `json:"page_number" query:"page_number" default:"1" validate:"min=1"`
	PageSize   int      `json:"page_size" query:"page_size" default:"10" validate:"min=1,max=100"`
	OrderBy    []string `json:"order_by,omitempty" query:"order_by" validate:"omitempty,max=5,dive,max=64"`
	Keyword    string   `json:"keyword,omitempty" query:"keyword" mod:"trim" validate:"max=100"`
}

// Offset returns the number of rows to skip for the filter's page.
func (f Filter) Offset() int {
	if f.PageNumber <= 1 {
		return 0
	}
	return (f.PageNumber - 1) * f.PageSize
}

// Page is one page of results plus the totals needed to page through them.
type Page[T any] struct {
	Data        []T  `json:"data"`
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasPrevious bool `json:"has_previous_page"`
	HasNext     bool `json:"has_next_page"`
}

// NewPage builds the envelope for data fetched with f out of total matches.
func NewPage[T any](data []T, total int, f Filter) *Page[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if f.PageSize > 0 {
		pages = (total + f.PageSize - 1) / f.PageSize
	}
	return &Page[T]{
		Data:        data,
		CurrentPage: f.PageNumber,
		PageSize:    f.PageSize,
		TotalCount:  total,
		TotalPages:  pages,
		HasPrevious: f.PageNumber > 1,
		HasNext:     f.PageNumber < pages,
	}
}

// Map converts the items of a page, keeping the paging fields.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	data := make([]U, len(p.Data))
	for i, item := range p.Data {
		data[i] = fn(item)
	}
	return &Page[U]{
		Data:        data,
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
		TotalCount:  p.TotalCount,
		TotalPages:  p.TotalPages,
		HasPrevious: p.HasPrevious,
		HasNext:     p.HasNext,
	}
}

// Sortable maps the field names a client may order by to their columns.
type Sortable map[string]string

// ParseOrderBy turns expressions like "name" or "created_at desc" into ORDER BY
// clauses. Unknown fields and directions are rejected with a validation error
// so that nothing from the request reaches the SQL unchecked. When exprs is
// empty, def is used.
func ParseOrderBy(exprs []string, sortable Sortable, def ...string) ([]string, error) {
	if len(exprs) == 0 {
		exprs = def
	}

	clauses := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		fields := strings.Fields(expr)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, errcodes.ValidationError(fmt.Sprintf("Invalid order expression %q", expr))
		}

		column, ok := sortable[strings.ToLower(fields[0])]
		if !ok {
			return nil, errcodes.ValidationError(fmt.Sprintf("Can't order by %q", fields[0]))
		}

		dir := "ASC"
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc", "ascending":
			case "desc", "descending":
				dir = "DESC"
			default:
				return nil, errcodes.ValidationError(fmt.Sprintf("Invalid order direction %q", fields[1]))
			}
		}

		clauses = append(clauses, column+" "+dir)
	}
	return clauses, nil
}

// Apply adds the filter's limit and offset to q.
func Apply(q *bun.SelectQuery, f Filter) *bun.SelectQuery {
	return q.Limit(f.PageSize).Offset(f.Offset())
}
