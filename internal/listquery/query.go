// Package listquery translates the browsing state of a dashboard list (page,
// page size, sort columns, search text and extra filters) to the query
// parameters of a paginated list endpoint, and the endpoint's response
// envelope back to list state.
//
// Wire convention: page is 1-indexed, ordering is a comma-separated list of
// column ids with a leading "-" for descending, and responses are
// {"results": [...], "count": N}.
package listquery

import "math"

// Reserved wire parameter names.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamOrdering = "ordering"
	ParamSearch   = "search"
)

// Direction of a sort entry.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortEntry orders a list by one column.
type SortEntry struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Asc sorts by column in ascending order.
func Asc(column string) SortEntry { return SortEntry{Column: column, Direction: Ascending} }

// Desc sorts by column in descending order.
func Desc(column string) SortEntry { return SortEntry{Column: column, Direction: Descending} }

func (s SortEntry) token() string {
	if s.Direction == Descending {
		return "-" + s.Column
	}
	return s.Column
}

// ListQuery is the UI-level state of a paginated list. PageIndex is
// 0-indexed; the first entry of Sort is the primary key.
type ListQuery struct {
	PageIndex    int
	PageSize     int
	Sort         []SortEntry
	Search       string
	ExtraFilters map[string]any
}

// Offset is the number of rows skipped before the current page. It saturates
// at math.MaxInt, which is past the end of any list.
func (q ListQuery) Offset() int {
	if q.PageIndex <= 0 || q.PageSize <= 0 {
		return 0
	}
	if q.PageIndex > math.MaxInt/q.PageSize {
		return math.MaxInt
	}
	return q.PageIndex * q.PageSize
}

// StepBack returns the query for the previous page. The first page stays put.
func (q ListQuery) StepBack() ListQuery {
	if q.PageIndex > 0 {
		q.PageIndex--
	}
	return q
}

func isReserved(key string) bool {
	switch key {
	case ParamPage, ParamPageSize, ParamOrdering, ParamSearch:
		return true
	}
	return false
}
