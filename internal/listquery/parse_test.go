package listquery

import (
	"errors"
	"net/url"
	"reflect"
	"testing"
)

var casesSchema = Schema{
	DefaultPageSize: 20,
	MaxPageSize:     100,
	Sortable:        []string{"title", "status", "created_at"},
	Filters:         []string{"status", "client_type"},
}

func TestParseDefaults(t *testing.T) {
	schema := casesSchema
	schema.DefaultOrdering = []SortEntry{Desc("created_at")}

	q, err := Parse(url.Values{}, schema)
	if err != nil {
		t.Fatal(err)
	}
	want := ListQuery{PageIndex: 0, PageSize: 20, Sort: []SortEntry{Desc("created_at")}}
	if !reflect.DeepEqual(q, want) {
		t.Fatalf("q = %#v, want %#v", q, want)
	}

	q, err = Parse(url.Values{}, Schema{})
	if err != nil {
		t.Fatal(err)
	}
	if q.PageSize != fallbackPageSize {
		t.Fatalf("page size = %d", q.PageSize)
	}
}

func TestParseRoundTrip(t *testing.T) {
	queries := []ListQuery{
		{PageIndex: 2, PageSize: 5, Sort: []SortEntry{Desc("title")}, Search: "contract",
			ExtraFilters: map[string]any{"client_type": "lead"}},
		{PageIndex: 0, PageSize: 50, Sort: []SortEntry{Asc("status"), Desc("created_at")}},
		{PageIndex: 9, PageSize: 1, Sort: []SortEntry{Asc("title")}, ExtraFilters: map[string]any{"status": "open", "client_type": "customer"}},
	}
	for _, q := range queries {
		got, err := Parse(ToQueryParams(q).Values(), casesSchema)
		if err != nil {
			t.Fatalf("parse %v: %v", q, err)
		}
		if !reflect.DeepEqual(got, q) {
			t.Fatalf("round trip\n got %#v\nwant %#v", got, q)
		}
	}
}

func TestParseClampsPageSize(t *testing.T) {
	q, err := Parse(url.Values{"page_size": {"1000"}}, casesSchema)
	if err != nil {
		t.Fatal(err)
	}
	if q.PageSize != 100 {
		t.Fatalf("page size = %d", q.PageSize)
	}
}

func TestParseOrderingTokens(t *testing.T) {
	q, err := Parse(url.Values{"ordering": {" title, ,-created_at,-title,"}}, casesSchema)
	if err != nil {
		t.Fatal(err)
	}
	want := []SortEntry{Asc("title"), Desc("created_at")}
	if !reflect.DeepEqual(q.Sort, want) {
		t.Fatalf("sort = %v, want %v", q.Sort, want)
	}
}

func TestParseKeepsOnlyKnownFilters(t *testing.T) {
	q, err := Parse(url.Values{
		"status":  {" open "},
		"secret":  {"1"},
		"search":  {"  acme  "},
		"unknown": {"x"},
	}, casesSchema)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(q.ExtraFilters, map[string]any{"status": "open"}) {
		t.Fatalf("filters = %v", q.ExtraFilters)
	}
	if q.Search != "acme" {
		t.Fatalf("search = %q", q.Search)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		field string
	}{
		{"page zero", url.Values{"page": {"0"}}, ParamPage},
		{"page not a number", url.Values{"page": {"two"}}, ParamPage},
		{"negative page size", url.Values{"page_size": {"-5"}}, ParamPageSize},
		{"unknown sort column", url.Values{"ordering": {"-password"}}, ParamOrdering},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query, casesSchema)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
