package postgres

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"bizdesk/internal/listquery"
	"bizdesk/internal/services/data"
)

func TestListSpecBuild(t *testing.T) {
	stmt, err := clientList.build(7, listquery.ListQuery{
		PageIndex:    2,
		PageSize:     5,
		Sort:         []listquery.SortEntry{listquery.Desc("name"), listquery.Asc("created_at")},
		Search:       " 50%_off ",
		ExtraFilters: map[string]any{"client_type": "lead", "ignored": "x"},
	})
	if err != nil {
		t.Fatal(err)
	}

	wantWhere := "WHERE tenant_id = $1 AND (name ILIKE $2 OR email ILIKE $2) AND client_type = $3"
	wantQuery := "SELECT " + clientColumns + " FROM clients " + wantWhere +
		" ORDER BY lower(name) DESC, created_at ASC, id DESC LIMIT $4 OFFSET $5"
	if stmt.query != wantQuery {
		t.Fatalf("query\n got %s\nwant %s", stmt.query, wantQuery)
	}
	if stmt.count != "SELECT count(*) FROM clients "+wantWhere {
		t.Fatalf("count = %s", stmt.count)
	}

	wantArgs := []any{int64(7), `%50\%\_off%`, "lead"}
	if !reflect.DeepEqual(stmt.countArgs, wantArgs) {
		t.Fatalf("count args = %#v", stmt.countArgs)
	}
	if !reflect.DeepEqual(stmt.args, append(wantArgs, 5, 10)) {
		t.Fatalf("args = %#v", stmt.args)
	}
}

func TestListSpecBuildDefaults(t *testing.T) {
	stmt, err := paymentList.build(1, listquery.ListQuery{PageSize: 25, Sort: []listquery.SortEntry{listquery.Asc("password")}})
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT " + paymentColumns + " FROM payments WHERE tenant_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3"
	if stmt.query != want {
		t.Fatalf("query = %s", stmt.query)
	}
	if !reflect.DeepEqual(stmt.args, []any{int64(1), 25, 0}) {
		t.Fatalf("args = %#v", stmt.args)
	}
}

func TestListSpecBuildHugePageOffset(t *testing.T) {
	stmt, err := clientList.build(1, listquery.ListQuery{PageIndex: 400000000000000000, PageSize: 25})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stmt.args, []any{int64(1), 25, math.MaxInt}) {
		t.Fatalf("args = %#v", stmt.args)
	}
}

func TestListSpecBuildFilterOrderIsStable(t *testing.T) {
	q := listquery.ListQuery{PageSize: 10, ExtraFilters: map[string]any{"status": "open", "client_id": "12"}}
	first, err := caseList.build(1, q)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, _ := caseList.build(1, q)
		if again.query != first.query {
			t.Fatalf("query changed between builds:\n%s\n%s", first.query, again.query)
		}
	}
	if !reflect.DeepEqual(first.countArgs, []any{int64(1), int64(12), "open"}) {
		t.Fatalf("args = %#v", first.countArgs)
	}
}

func TestListSpecBuildRejectsBadID(t *testing.T) {
	_, err := caseList.build(1, listquery.ListQuery{PageSize: 10, ExtraFilters: map[string]any{"client_id": "abc"}})
	var verr *listquery.ValidationError
	if !errors.As(err, &verr) || verr.Field != "client_id" {
		t.Fatalf("err = %v", err)
	}
}

func TestListSpecsCoverEndpointSchemas(t *testing.T) {
	schemas := data.NewSchemas(25, 100)
	for _, tc := range []struct {
		name   string
		spec   listSpec
		schema listquery.Schema
	}{
		{"clients", clientList, schemas.Clients},
		{"cases", caseList, schemas.Cases},
		{"payments", paymentList, schemas.Payments},
	} {
		for _, col := range tc.schema.Sortable {
			if _, ok := tc.spec.sortable[col]; !ok {
				t.Errorf("%s: sortable column %q has no SQL expression", tc.name, col)
			}
		}
		for _, f := range tc.schema.Filters {
			if _, ok := tc.spec.filters[f]; !ok {
				t.Errorf("%s: filter %q has no SQL column", tc.name, f)
			}
		}
	}
}
