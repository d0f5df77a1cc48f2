package listquery

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// QueryParams are the flat wire parameters of a list request. A key is either
// present with a non-empty value or absent.
type QueryParams map[string]string

// ToQueryParams renders q as wire parameters.
//
// Empty sort omits ordering, blank search omits search, and extra filters whose
// value is nil, a nil pointer or "" are dropped. Filters never replace the
// reserved page, page_size, ordering and search parameters.
func ToQueryParams(q ListQuery) QueryParams {
	params := QueryParams{
		ParamPage:     strconv.FormatUint(uint64(q.PageIndex)+1, 10),
		ParamPageSize: strconv.Itoa(q.PageSize),
	}
	if ordering := Ordering(q.Sort); ordering != "" {
		params[ParamOrdering] = ordering
	}
	if strings.TrimSpace(q.Search) != "" {
		params[ParamSearch] = q.Search
	}
	for key, value := range q.ExtraFilters {
		if key == "" || isReserved(key) {
			continue
		}
		if s, ok := FormatValue(value); ok {
			params[key] = s
		}
	}
	return params
}

// Ordering renders sort entries in the "name,-created_at" form. Entries without
// a column are skipped.
func Ordering(sort []SortEntry) string {
	tokens := lo.FilterMap(sort, func(entry SortEntry, _ int) (string, bool) {
		if entry.Column == "" {
			return "", false
		}
		return entry.token(), true
	})
	return strings.Join(tokens, ",")
}

// FormatValue renders a filter value for the wire. ok is false when the value
// is absent: nil, a nil pointer, an empty string, a zero time or an empty slice.
func FormatValue(value any) (s string, ok bool) {
	if value == nil {
		return "", false
	}
	if t, isTime := value.(time.Time); isTime {
		if t.IsZero() {
			return "", false
		}
		return t.Format(time.RFC3339), true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return FormatValue(rv.Elem().Interface())
	}
	if stringer, isStringer := value.(fmt.Stringer); isStringer {
		s = stringer.String()
		return s, s != ""
	}

	switch rv.Kind() {
	case reflect.String:
		s = rv.String()
		return s, s != ""
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if part, partOK := FormatValue(rv.Index(i).Interface()); partOK {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, ","), true
	}
	return fmt.Sprint(value), true
}

// Values converts the parameters to url.Values.
func (p QueryParams) Values() url.Values {
	values := make(url.Values, len(p))
	for key, value := range p {
		values.Set(key, value)
	}
	return values
}

// Encode renders the parameters as a query string sorted by key, so equal
// parameters always encode to the same string.
func (p QueryParams) Encode() string {
	return p.Values().Encode()
}
