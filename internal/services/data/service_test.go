package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizdesk/internal/domain/client"
	"bizdesk/internal/listquery"
	"bizdesk/internal/store/cache"
	"bizdesk/internal/store/memory"
	"bizdesk/internal/store/repositories"
)

// countingClients wraps a repository and counts List calls. afterRead runs
// once the rows are read, before the service sees them.
type countingClients struct {
	repositories.ClientRepository
	calls     int
	err       error
	afterRead func()
}

func (c *countingClients) List(ctx context.Context, tenantID int64, q listquery.ListQuery) ([]*client.Client, int, error) {
	c.calls++
	if c.err != nil {
		return nil, 0, c.err
	}
	rows, total, err := c.ClientRepository.List(ctx, tenantID, q)
	if c.afterRead != nil {
		c.afterRead()
	}
	return rows, total, err
}

func newTestService(t *testing.T) (*Service, *countingClients, *memory.Store) {
	t.Helper()
	store := memory.New()
	clients := &countingClients{ClientRepository: store.Clients()}
	svc := NewService(clients, store.Cases(), store.Payments(), cache.NewMemory(time.Minute))
	return svc, clients, store
}

func addClient(t *testing.T, store *memory.Store, tenantID int64, name string) {
	t.Helper()
	c, err := client.NewClient(tenantID, name, "", "", client.TypeLead)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Clients().Save(context.Background(), c); err != nil {
		t.Fatal(err)
	}
}

func TestListClientsCachesPages(t *testing.T) {
	svc, clients, store := newTestService(t)
	ctx := context.Background()
	addClient(t, store, 1, "Acme")
	addClient(t, store, 1, "Globex")

	q := listquery.ListQuery{PageSize: 10, Sort: []listquery.SortEntry{listquery.Asc("name")}}
	first, err := svc.ListClients(ctx, 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if first.Count != 2 || len(first.Results) != 2 || first.Results[0].Name != "Acme" {
		t.Fatalf("first page = %+v", first)
	}

	second, err := svc.ListClients(ctx, 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if clients.calls != 1 {
		t.Fatalf("repository called %d times, want 1", clients.calls)
	}
	if second.Count != 2 || second.Results[1].Name != "Globex" {
		t.Fatalf("cached page = %+v", second)
	}

	// other tenant, other query: both miss
	_, _ = svc.ListClients(ctx, 2, q)
	_, _ = svc.ListClients(ctx, 1, listquery.ListQuery{PageIndex: 1, PageSize: 10})
	if clients.calls != 3 {
		t.Fatalf("repository called %d times, want 3", clients.calls)
	}
}

func TestInvalidateDropsCachedPages(t *testing.T) {
	svc, clients, store := newTestService(t)
	ctx := context.Background()
	addClient(t, store, 1, "Acme")

	q := listquery.ListQuery{PageSize: 10}
	if _, err := svc.ListClients(ctx, 1, q); err != nil {
		t.Fatal(err)
	}
	addClient(t, store, 1, "Globex")
	svc.Invalidate(ctx, 1, ResourceClients)

	page, err := svc.ListClients(ctx, 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if clients.calls != 2 || page.Count != 2 {
		t.Fatalf("calls = %d, count = %d", clients.calls, page.Count)
	}
}

func TestInvalidateDuringFetchIsNotUndone(t *testing.T) {
	svc, clients, store := newTestService(t)
	ctx := context.Background()
	addClient(t, store, 1, "Acme")

	// A mutation commits and invalidates after the rows were read but before
	// the page is cached.
	clients.afterRead = func() {
		clients.afterRead = nil
		addClient(t, store, 1, "Globex")
		svc.Invalidate(ctx, 1, ResourceClients)
	}

	q := listquery.ListQuery{PageSize: 10}
	stale, err := svc.ListClients(ctx, 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if stale.Count != 1 {
		t.Fatalf("in-flight page count = %d", stale.Count)
	}

	fresh, err := svc.ListClients(ctx, 1, q)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Count != 2 || clients.calls != 2 {
		t.Fatalf("count = %d, calls = %d", fresh.Count, clients.calls)
	}
}

func TestListPastTheEndIsEmpty(t *testing.T) {
	svc, _, store := newTestService(t)
	addClient(t, store, 1, "Acme")

	page, err := svc.ListClients(context.Background(), 1, listquery.ListQuery{PageIndex: 4, PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if page.Results == nil || len(page.Results) != 0 || page.Count != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestListWrapsRepositoryErrors(t *testing.T) {
	svc, clients, _ := newTestService(t)
	boom := errors.New("connection reset")
	clients.err = boom

	_, err := svc.ListClients(context.Background(), 1, listquery.ListQuery{PageSize: 10})
	var serr *ServiceError
	if !errors.As(err, &serr) || serr.Op != "list_clients" || !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestSchemasDefaults(t *testing.T) {
	schemas := NewSchemas(20, 100)
	for name, schema := range map[string]listquery.Schema{"clients": schemas.Clients, "cases": schemas.Cases, "payments": schemas.Payments} {
		if schema.DefaultPageSize != 20 || schema.MaxPageSize != 100 {
			t.Fatalf("%s bounds = %d/%d", name, schema.DefaultPageSize, schema.MaxPageSize)
		}
		if len(schema.DefaultOrdering) == 0 {
			t.Fatalf("%s has no default ordering", name)
		}
	}
}
