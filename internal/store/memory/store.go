// Package memory implements the repositories in process. It backs sandbox
// deployments started with DB_DSN=memory:// and the service tests.
package memory

import (
	"cmp"
	"context"
	"sync"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/domain/client"
	"bizdesk/internal/domain/payment"
	"bizdesk/internal/domain/tenant"
	"bizdesk/internal/listquery"
	"bizdesk/internal/store/repositories"
)

// Store holds every table behind one lock. Values are copied on the way in
// and out so callers never share state with the store.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	nextID   int64
	tenants  map[int64]tenant.Tenant
	apiKeys  map[string]tenant.APIKey
	clients  map[int64]client.Client
	cases    map[int64]casefile.Case
	payments map[int64]payment.Payment
}

func New() *Store {
	return &Store{
		tenants:  make(map[int64]tenant.Tenant),
		apiKeys:  make(map[string]tenant.APIKey),
		clients:  make(map[int64]client.Client),
		cases:    make(map[int64]casefile.Case),
		payments: make(map[int64]payment.Payment),
	}
}

func (s *Store) Tenants() repositories.TenantRepository   { return tenantRepo{s} }
func (s *Store) Clients() repositories.ClientRepository   { return clientRepo{s} }
func (s *Store) Cases() repositories.CaseRepository       { return caseRepo{s} }
func (s *Store) Payments() repositories.PaymentRepository { return paymentRepo{s} }
func (s *Store) UnitOfWork() repositories.UnitOfWork      { return unitOfWork{s} }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

type tenantRepo struct{ s *Store }

func (r tenantRepo) Save(_ context.Context, t *tenant.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == 0 {
		t.ID = r.s.id()
	}
	r.s.tenants[t.ID] = *t
	return nil
}

func (r tenantRepo) FindByID(_ context.Context, id int64) (*tenant.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (r tenantRepo) FindByAPIKeyHash(_ context.Context, keyHash string) (*tenant.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key, ok := r.s.apiKeys[keyHash]
	if !ok || !key.IsActive {
		return nil, repositories.ErrNotFound
	}
	t, ok := r.s.tenants[key.TenantID]
	if !ok || !t.IsActive() {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (r tenantRepo) SaveAPIKey(_ context.Context, apiKey *tenant.APIKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if apiKey.ID == 0 {
		apiKey.ID = r.s.id()
	}
	r.s.apiKeys[apiKey.KeyHash] = *apiKey
	return nil
}

var clientList = listSpec[*client.Client]{
	sortable: map[string]func(a, b *client.Client) int{
		"name":        func(a, b *client.Client) int { return foldCompare(a.Name, b.Name) },
		"email":       func(a, b *client.Client) int { return cmp.Compare(a.Email, b.Email) },
		"client_type": func(a, b *client.Client) int { return cmp.Compare(a.Type, b.Type) },
		"created_at":  func(a, b *client.Client) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	search: func(c *client.Client) []string { return []string{c.Name, c.Email} },
	filters: map[string]func(string) (func(*client.Client) bool, error){
		"client_type": textEquals(func(c *client.Client) string { return string(c.Type) }),
	},
	id: func(c *client.Client) int64 { return c.ID },
}

type clientRepo struct{ s *Store }

func (r clientRepo) Save(_ context.Context, c *client.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == 0 {
		c.ID = r.s.id()
	} else if existing, ok := r.s.clients[c.ID]; !ok || existing.TenantID != c.TenantID {
		return repositories.ErrNotFound
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r clientRepo) FindByID(_ context.Context, tenantID, id int64) (*client.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok || c.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r clientRepo) Delete(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok || c.TenantID != tenantID {
		return repositories.ErrNotFound
	}
	for _, p := range r.s.payments {
		if p.ClientID == id {
			return repositories.ErrInUse
		}
	}
	for caseID, cs := range r.s.cases {
		if cs.ClientID == id {
			delete(r.s.cases, caseID)
		}
	}
	delete(r.s.clients, id)
	return nil
}

func (r clientRepo) List(_ context.Context, tenantID int64, q listquery.ListQuery) ([]*client.Client, int, error) {
	r.s.mu.RLock()
	rows := make([]*client.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		c := c
		if c.TenantID == tenantID {
			rows = append(rows, &c)
		}
	}
	r.s.mu.RUnlock()
	return clientList.apply(rows, q)
}

var caseList = listSpec[*casefile.Case]{
	sortable: map[string]func(a, b *casefile.Case) int{
		"title":      func(a, b *casefile.Case) int { return foldCompare(a.Title, b.Title) },
		"status":     func(a, b *casefile.Case) int { return cmp.Compare(a.Status, b.Status) },
		"created_at": func(a, b *casefile.Case) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
	search: func(c *casefile.Case) []string { return []string{c.Title} },
	filters: map[string]func(string) (func(*casefile.Case) bool, error){
		"status":    textEquals(func(c *casefile.Case) string { return string(c.Status) }),
		"client_id": idEquals(func(c *casefile.Case) int64 { return c.ClientID }),
	},
	id: func(c *casefile.Case) int64 { return c.ID },
}

type caseRepo struct{ s *Store }

func (r caseRepo) Save(_ context.Context, c *casefile.Case) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if owner, ok := r.s.clients[c.ClientID]; !ok || owner.TenantID != c.TenantID {
		return repositories.ErrNotFound
	}
	if c.ID == 0 {
		c.ID = r.s.id()
	} else if existing, ok := r.s.cases[c.ID]; !ok || existing.TenantID != c.TenantID {
		return repositories.ErrNotFound
	}
	r.s.cases[c.ID] = *c
	return nil
}

func (r caseRepo) FindByID(_ context.Context, tenantID, id int64) (*casefile.Case, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.cases[id]
	if !ok || c.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r caseRepo) List(_ context.Context, tenantID int64, q listquery.ListQuery) ([]*casefile.Case, int, error) {
	r.s.mu.RLock()
	rows := make([]*casefile.Case, 0, len(r.s.cases))
	for _, c := range r.s.cases {
		c := c
		if c.TenantID == tenantID {
			rows = append(rows, &c)
		}
	}
	r.s.mu.RUnlock()
	return caseList.apply(rows, q)
}

var paymentList = listSpec[*payment.Payment]{
	sortable: map[string]func(a, b *payment.Payment) int{
		"created_at": func(a, b *payment.Payment) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"amount":     func(a, b *payment.Payment) int { return cmp.Compare(a.Amount, b.Amount) },
		"status":     func(a, b *payment.Payment) int { return cmp.Compare(a.Status, b.Status) },
		"invoice_no": func(a, b *payment.Payment) int { return cmp.Compare(a.InvoiceNo, b.InvoiceNo) },
	},
	search: func(p *payment.Payment) []string { return []string{p.InvoiceNo} },
	filters: map[string]func(string) (func(*payment.Payment) bool, error){
		"status": textEquals(func(p *payment.Payment) string { return string(p.Status) }),
		"method": textEquals(func(p *payment.Payment) string { return string(p.Method) }),
	},
	id: func(p *payment.Payment) int64 { return p.ID },
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Save(_ context.Context, p *payment.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.save(p)
}

func (r paymentRepo) save(p *payment.Payment) error {
	if owner, ok := r.s.clients[p.ClientID]; !ok || owner.TenantID != p.TenantID {
		return repositories.ErrNotFound
	}
	if p.ID == 0 {
		p.ID = r.s.id()
	} else if existing, ok := r.s.payments[p.ID]; !ok || existing.TenantID != p.TenantID {
		return repositories.ErrNotFound
	}
	r.s.payments[p.ID] = clonePayment(*p)
	return nil
}

func (r paymentRepo) FindByID(_ context.Context, tenantID, id int64) (*payment.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok || p.TenantID != tenantID {
		return nil, repositories.ErrNotFound
	}
	p = clonePayment(p)
	return &p, nil
}

func (r paymentRepo) List(_ context.Context, tenantID int64, q listquery.ListQuery) ([]*payment.Payment, int, error) {
	r.s.mu.RLock()
	rows := make([]*payment.Payment, 0, len(r.s.payments))
	for _, p := range r.s.payments {
		p := p
		if p.TenantID == tenantID {
			p = clonePayment(p)
			rows = append(rows, &p)
		}
	}
	r.s.mu.RUnlock()
	return paymentList.apply(rows, q)
}

func clonePayment(p payment.Payment) payment.Payment {
	if p.CapturedAt != nil {
		at := *p.CapturedAt
		p.CapturedAt = &at
	}
	return p
}
