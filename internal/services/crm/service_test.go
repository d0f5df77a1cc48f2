package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/domain/client"
	"bizdesk/internal/listquery"
	"bizdesk/internal/services/data"
	"bizdesk/internal/store/cache"
	"bizdesk/internal/store/memory"
	"bizdesk/internal/store/repositories"
)

func newService(t *testing.T) (*Service, *data.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	lists := data.NewService(store.Clients(), store.Cases(), store.Payments(), cache.NewMemory(time.Minute))
	return NewService(store.Clients(), store.Cases(), lists), lists, store
}

func TestCreateClientInvalidatesListCache(t *testing.T) {
	svc, lists, _ := newService(t)
	ctx := context.Background()
	q := listquery.ListQuery{PageSize: 10}

	before, err := lists.ListClients(ctx, 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if before.Count != 0 {
		t.Fatalf("count = %d", before.Count)
	}

	c, err := svc.CreateClient(ctx, 1, CreateClientRequest{Name: "Acme", ClientType: "customer"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Type != client.TypeCustomer {
		t.Fatalf("type = %s", c.Type)
	}

	after, err := lists.ListClients(ctx, 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if after.Count != 1 || after.Results[0].Name != "Acme" {
		t.Fatalf("after create = %+v", after)
	}
}

func TestCreateClientValidation(t *testing.T) {
	svc, _, _ := newService(t)
	var verr *ValidationError
	_, err := svc.CreateClient(context.Background(), 1, CreateClientRequest{Name: "Acme", ClientType: "vendor"})
	if !errors.As(err, &verr) || verr.Field != "client_type" {
		t.Fatalf("err = %v", err)
	}
	_, err = svc.CreateClient(context.Background(), 1, CreateClientRequest{Name: "A"})
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
}

func TestCasesLifecycle(t *testing.T) {
	svc, lists, _ := newService(t)
	ctx := context.Background()
	c, err := svc.CreateClient(ctx, 1, CreateClientRequest{Name: "Acme"})
	if err != nil {
		t.Fatal(err)
	}

	var verr *ValidationError
	if _, err := svc.CreateCase(ctx, 1, CreateCaseRequest{ClientID: c.ID + 50, Title: "Audit"}); !errors.As(err, &verr) || verr.Field != "client_id" {
		t.Fatalf("unknown client err = %v", err)
	}

	cs, err := svc.CreateCase(ctx, 1, CreateCaseRequest{ClientID: c.ID, Title: "Audit"})
	if err != nil {
		t.Fatal(err)
	}
	cs, err = svc.UpdateCaseStatus(ctx, 1, cs.ID, UpdateCaseRequest{Status: "closed"})
	if err != nil || cs.Status != casefile.StatusClosed {
		t.Fatalf("close: %v %+v", err, cs)
	}
	if _, err := svc.UpdateCaseStatus(ctx, 1, cs.ID, UpdateCaseRequest{Status: "open"}); !errors.As(err, &verr) {
		t.Fatalf("reopen err = %v", err)
	}

	page, _ := lists.ListCases(ctx, 1, listquery.ListQuery{PageSize: 10, ExtraFilters: map[string]any{"status": "closed"}})
	if page.Count != 1 {
		t.Fatalf("closed cases = %d", page.Count)
	}

	if err := svc.DeleteClient(ctx, 1, c.ID); err != nil {
		t.Fatal(err)
	}
	page, _ = lists.ListCases(ctx, 1, listquery.ListQuery{PageSize: 10})
	if page.Count != 0 {
		t.Fatalf("cases after client delete = %d", page.Count)
	}
	if err := svc.DeleteClient(ctx, 1, c.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}
