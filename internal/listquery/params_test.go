package listquery

import (
	"math"
	"reflect"
	"testing"
	"time"
)

type status string

type label struct{ name string }

func (l label) String() string { return "label:" + l.name }

func TestToQueryParamsPageIsOneIndexed(t *testing.T) {
	for _, idx := range []int{0, 1, 7, 41} {
		params := ToQueryParams(ListQuery{PageIndex: idx, PageSize: 10})
		want := map[int]string{0: "1", 1: "2", 7: "8", 41: "42"}[idx]
		if params[ParamPage] != want {
			t.Fatalf("page for index %d = %q, want %q", idx, params[ParamPage], want)
		}
		if params[ParamPageSize] != "10" {
			t.Fatalf("page_size = %q", params[ParamPageSize])
		}
	}
}

func TestToQueryParamsLastPageIndex(t *testing.T) {
	params := ToQueryParams(ListQuery{PageIndex: math.MaxInt, PageSize: 10})
	if want := "9223372036854775808"; params[ParamPage] != want {
		t.Fatalf("page = %q, want %q", params[ParamPage], want)
	}
}

func TestToQueryParamsOrdering(t *testing.T) {
	tests := []struct {
		name string
		sort []SortEntry
		want string
	}{
		{"primary first", []SortEntry{Asc("name"), Desc("created_at")}, "name,-created_at"},
		{"single desc", []SortEntry{Desc("title")}, "-title"},
		{"empty column skipped", []SortEntry{Asc(""), Desc("amount")}, "-amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ToQueryParams(ListQuery{PageSize: 10, Sort: tt.sort})
			if params[ParamOrdering] != tt.want {
				t.Fatalf("ordering = %q, want %q", params[ParamOrdering], tt.want)
			}
		})
	}

	params := ToQueryParams(ListQuery{PageSize: 10})
	if _, ok := params[ParamOrdering]; ok {
		t.Fatal("empty sort must omit ordering")
	}
}

func TestToQueryParamsSearch(t *testing.T) {
	for _, blank := range []string{"", "   ", "\t\n"} {
		if _, ok := ToQueryParams(ListQuery{PageSize: 5, Search: blank})[ParamSearch]; ok {
			t.Fatalf("blank search %q must be omitted", blank)
		}
	}
	if got := ToQueryParams(ListQuery{PageSize: 5, Search: " acme "})[ParamSearch]; got != " acme " {
		t.Fatalf("search should pass through verbatim, got %q", got)
	}
}

func TestToQueryParamsDropsEmptyFilters(t *testing.T) {
	var nilPtr *string
	params := ToQueryParams(ListQuery{
		PageSize: 10,
		ExtraFilters: map[string]any{
			"status":    "",
			"client_id": nil,
			"owner":     nilPtr,
			"x":         "1",
		},
	})
	want := QueryParams{"page": "1", "page_size": "10", "x": "1"}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
}

func TestToQueryParamsFormatsScalars(t *testing.T) {
	id := int64(42)
	when := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	params := ToQueryParams(ListQuery{
		PageSize: 10,
		ExtraFilters: map[string]any{
			"client_id": &id,
			"active":    true,
			"min":       2.5,
			"status":    status("open"),
			"label":     label{name: "vip"},
			"since":     when,
			"ids":       []int{1, 2, 3},
			"none":      []string{},
		},
	})
	want := QueryParams{
		"page":      "1",
		"page_size": "10",
		"client_id": "42",
		"active":    "true",
		"min":       "2.5",
		"status":    "open",
		"label":     "label:vip",
		"since":     "2024-03-01T09:30:00Z",
		"ids":       "1,2,3",
	}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
}

func TestToQueryParamsFiltersNeverOverrideReservedKeys(t *testing.T) {
	params := ToQueryParams(ListQuery{
		PageIndex: 1,
		PageSize:  10,
		Search:    "acme",
		ExtraFilters: map[string]any{
			"page":      "99",
			"page_size": 1000,
			"ordering":  "-id",
			"search":    "other",
		},
	})
	want := QueryParams{"page": "2", "page_size": "10", "search": "acme"}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
}

func TestToQueryParamsIsPure(t *testing.T) {
	q := ListQuery{
		PageIndex:    3,
		PageSize:     20,
		Sort:         []SortEntry{Desc("created_at"), Asc("name")},
		Search:       "acme",
		ExtraFilters: map[string]any{"client_type": "lead", "status": "open"},
	}
	first := ToQueryParams(q)
	second := ToQueryParams(q)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("outputs differ: %v vs %v", first, second)
	}
	if first.Encode() != second.Encode() {
		t.Fatalf("encodings differ: %q vs %q", first.Encode(), second.Encode())
	}
	if len(q.ExtraFilters) != 2 || q.Sort[0] != Desc("created_at") {
		t.Fatal("input was mutated")
	}
}

func TestToQueryParamsEndToEnd(t *testing.T) {
	params := ToQueryParams(ListQuery{
		PageIndex:    2,
		PageSize:     5,
		Sort:         []SortEntry{Desc("title")},
		Search:       "contract",
		ExtraFilters: map[string]any{"client_type": "lead"},
	})
	want := QueryParams{
		"page":        "3",
		"page_size":   "5",
		"ordering":    "-title",
		"search":      "contract",
		"client_type": "lead",
	}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
	if got, wantEnc := params.Encode(), "client_type=lead&ordering=-title&page=3&page_size=5&search=contract"; got != wantEnc {
		t.Fatalf("Encode() = %q, want %q", got, wantEnc)
	}
}
