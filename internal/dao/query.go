package dao

import (
	"fmt"
	"strings"
)

// SortField names a sortable user column.
type SortField string

// Sortable columns.
const (
	SortCreatedAt SortField = "createdAt"
	SortName      SortField = "name"
	SortEmail     SortField = "email"
)

// SortFields lists the sortable columns in cycle order.
var SortFields = []SortField{SortCreatedAt, SortName, SortEmail}

// SortOrder is the sort direction.
type SortOrder string

// Sort directions.
const (
	OrderDesc SortOrder = "desc"
	OrderAsc  SortOrder = "asc"
)

// Page sizes offered by the limit control.
var Limits = []int{10, 20, 50, 100}

// Defaults used when no preference is stored.
const (
	DefaultLimit  = 10
	DefaultSortBy = SortCreatedAt
	DefaultOrder  = OrderDesc
)

// ParseSortField returns the sort field for s.
func ParseSortField(s string) (SortField, error) {
	for _, f := range SortFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid sort field %q: %w", s, ErrInvalidArg)
}

// ParseSortOrder returns the sort order for s.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case string(OrderDesc):
		return OrderDesc, nil
	case string(OrderAsc):
		return OrderAsc, nil
	}
	return "", fmt.Errorf("invalid sort order %q: %w", s, ErrInvalidArg)
}

// Toggle returns the opposite direction.
func (o SortOrder) Toggle() SortOrder {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

// Next returns the field following f in cycle order.
func (f SortField) Next() SortField {
	for i, s := range SortFields {
		if s == f {
			return SortFields[(i+1)%len(SortFields)]
		}
	}
	return DefaultSortBy
}

// NextLimit returns the page size following n in Limits.
func NextLimit(n int) int {
	for i, l := range Limits {
		if l == n {
			return Limits[(i+1)%len(Limits)]
		}
	}
	return Limits[0]
}

// Query identifies one page of results under one sort configuration.
// It is comparable and used directly as a cache key.
type Query struct {
	Page   int
	Limit  int
	SortBy SortField
	Order  SortOrder
}

// String returns the key in page-limit-sortBy-order form, for logs only.
func (q Query) String() string {
	return fmt.Sprintf("%d-%d-%s-%s", q.Page, q.Limit, q.SortBy, q.Order)
}

// Pagination holds the paging state of the list.
type Pagination struct {
	Page  int
	Limit int
	Total int
}

// PageCount returns ceil(total/limit), never less than one.
func (p Pagination) PageCount() int {
	if p.Limit < 1 || p.Total <= 0 {
		return 1
	}
	n := (p.Total + p.Limit - 1) / p.Limit
	if n < 1 {
		return 1
	}
	return n
}

// ForcePage returns the zero based page index to highlight, with the current
// page clamped into [1, PageCount].
func (p Pagination) ForcePage() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	if c := p.PageCount(); page > c {
		page = c
	}
	return page - 1
}
