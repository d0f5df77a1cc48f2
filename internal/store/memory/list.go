package memory

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"bizdesk/internal/listquery"
)

// listSpec is the in-process counterpart of the SQL list builder.
type listSpec[T any] struct {
	sortable map[string]func(a, b T) int
	search   func(T) []string
	filters  map[string]func(raw string) (func(T) bool, error)
	id       func(T) int64
}

func (spec listSpec[T]) apply(rows []T, q listquery.ListQuery) ([]T, int, error) {
	names := make([]string, 0, len(q.ExtraFilters))
	for name := range q.ExtraFilters {
		names = append(names, name)
	}
	sort.Strings(names)

	var preds []func(T) bool
	for _, name := range names {
		build, ok := spec.filters[name]
		if !ok {
			continue
		}
		raw, present := listquery.FormatValue(q.ExtraFilters[name])
		if !present {
			continue
		}
		pred, err := build(raw)
		if err != nil {
			return nil, 0, &listquery.ValidationError{Field: name, Message: err.Error()}
		}
		preds = append(preds, pred)
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		if !matchesAll(row, preds) {
			continue
		}
		if term != "" && spec.search != nil && !slices.ContainsFunc(spec.search(row), func(s string) bool {
			return strings.Contains(strings.ToLower(s), term)
		}) {
			continue
		}
		matched = append(matched, row)
	}

	slices.SortStableFunc(matched, func(a, b T) int {
		for _, entry := range q.Sort {
			compare, ok := spec.sortable[entry.Column]
			if !ok {
				continue
			}
			c := compare(a, b)
			if entry.Direction == listquery.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(spec.id(b), spec.id(a))
	})

	total := len(matched)
	start := q.Offset()
	if start < 0 || start >= total {
		return []T{}, total, nil
	}
	end := total
	if q.PageSize > 0 && q.PageSize < total-start {
		end = start + q.PageSize
	}
	return matched[start:end], total, nil
}

func matchesAll[T any](row T, preds []func(T) bool) bool {
	for _, pred := range preds {
		if !pred(row) {
			return false
		}
	}
	return true
}

func textEquals[T any](get func(T) string) func(string) (func(T) bool, error) {
	return func(raw string) (func(T) bool, error) {
		return func(row T) bool { return get(row) == raw }, nil
	}
}

func idEquals[T any](get func(T) int64) func(string) (func(T) bool, error) {
	return func(raw string) (func(T) bool, error) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("must be a positive integer")
		}
		return func(row T) bool { return get(row) == id }, nil
	}
}

func foldCompare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
