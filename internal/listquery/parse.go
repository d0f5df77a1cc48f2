package listquery

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const fallbackPageSize = 25

// Schema describes what a list endpoint accepts.
type Schema struct {
	DefaultPageSize int
	MaxPageSize     int
	Sortable        []string
	Filters         []string
	DefaultOrdering []SortEntry
}

// ValidationError reports a wire parameter that cannot be accepted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// Parse reads wire parameters into a ListQuery. It is the inverse of
// ToQueryParams for queries the schema accepts.
func Parse(values url.Values, schema Schema) (ListQuery, error) {
	q := ListQuery{PageSize: schema.pageSize()}

	if raw := strings.TrimSpace(values.Get(ParamPage)); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListQuery{}, &ValidationError{Field: ParamPage, Message: "must be a positive integer"}
		}
		q.PageIndex = page - 1
	}

	if raw := strings.TrimSpace(values.Get(ParamPageSize)); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return ListQuery{}, &ValidationError{Field: ParamPageSize, Message: "must be a positive integer"}
		}
		if schema.MaxPageSize > 0 && size > schema.MaxPageSize {
			size = schema.MaxPageSize
		}
		q.PageSize = size
	}

	sort := ParseOrdering(values.Get(ParamOrdering))
	for _, entry := range sort {
		if !lo.Contains(schema.Sortable, entry.Column) {
			return ListQuery{}, &ValidationError{Field: ParamOrdering, Message: fmt.Sprintf("cannot sort by %q", entry.Column)}
		}
	}
	if len(sort) == 0 {
		sort = slices.Clone(schema.DefaultOrdering)
	}
	q.Sort = sort

	q.Search = strings.TrimSpace(values.Get(ParamSearch))

	for _, name := range schema.Filters {
		value := strings.TrimSpace(values.Get(name))
		if value == "" {
			continue
		}
		if q.ExtraFilters == nil {
			q.ExtraFilters = make(map[string]any)
		}
		q.ExtraFilters[name] = value
	}
	return q, nil
}

// ParseOrdering reads an ordering parameter such as "name,-created_at".
// Blank tokens are ignored and a repeated column keeps its first position.
func ParseOrdering(raw string) []SortEntry {
	var sort []SortEntry
	seen := make(map[string]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		entry := Asc(token)
		if strings.HasPrefix(token, "-") {
			entry = Desc(strings.TrimSpace(token[1:]))
		}
		if entry.Column == "" {
			continue
		}
		if _, dup := seen[entry.Column]; dup {
			continue
		}
		seen[entry.Column] = struct{}{}
		sort = append(sort, entry)
	}
	return sort
}

func (s Schema) pageSize() int {
	size := s.DefaultPageSize
	if size <= 0 {
		size = fallbackPageSize
	}
	if s.MaxPageSize > 0 && size > s.MaxPageSize {
		size = s.MaxPageSize
	}
	return size
}
