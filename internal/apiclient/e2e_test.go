package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"bizdesk/internal/config"
	"bizdesk/internal/domain/client"
	httpx "bizdesk/internal/http"
	"bizdesk/internal/listquery"
	"bizdesk/internal/services/crm"
	"bizdesk/internal/services/data"
	"bizdesk/internal/services/payment"
	"bizdesk/internal/services/tenant"
	"bizdesk/internal/store/cache"
	"bizdesk/internal/store/memory"
)

func TestAgainstRouter(t *testing.T) {
	store := memory.New()
	cfg := config.Cfg{
		App: config.AppCfg{Env: "test", CORSOrigins: []string{"*"}},
		Sec: config.SecurityCfg{AdminToken: "adm"},
	}
	lists := data.NewService(store.Clients(), store.Cases(), store.Payments(), cache.NewMemory(time.Minute))
	crmSvc := crm.NewService(store.Clients(), store.Cases(), lists)
	tenants := tenant.NewService(store.Tenants())
	srv := httptest.NewServer(httpx.NewRouter(httpx.RouterDependencies{
		Config:         cfg,
		TenantService:  tenants,
		DataService:    lists,
		CRMService:     crmSvc,
		PaymentService: payment.NewService(store.Payments(), store.Clients(), store.UnitOfWork(), lists),
		Schemas:        data.NewSchemas(25, 100),
	}))
	defer srv.Close()

	ctx := context.Background()
	onboarded, err := tenants.OnboardTenant(ctx, tenant.OnboardingRequest{Name: "Acme Ltd"})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Zed", "Amy", "Kim"} {
		if _, err := crmSvc.CreateClient(ctx, onboarded.TenantID, crm.CreateClientRequest{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	c := New(srv.URL, onboarded.APIKey, WithHTTPClient(srv.Client()))

	q := listquery.ListQuery{PageIndex: 1, PageSize: 2, Sort: []listquery.SortEntry{listquery.Asc("name")}}
	page, err := c.ListClients(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 3 || len(page.Items) != 1 || page.Items[0].Name != "Zed" || page.Items[0].Type != client.TypeLead {
		t.Fatalf("page = %+v", page)
	}

	// Remove the only row on page two through the API; browsing steps back.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/clients/"+strconv.FormatInt(page.Items[0].ID, 10), nil)
	req.Header.Set("Authorization", "Bearer "+onboarded.APIKey)
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", res.StatusCode)
	}

	page, used, err := Browse[client.Client](ctx, c, "/api/v1/clients", q)
	if err != nil {
		t.Fatal(err)
	}
	if used.PageIndex != 0 || page.TotalCount != 2 || page.Items[0].Name != "Amy" {
		t.Fatalf("used=%+v page=%+v", used, page)
	}
}
