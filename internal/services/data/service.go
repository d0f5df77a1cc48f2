package data

import (
	"context"
	"encoding/json"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/domain/client"
	"bizdesk/internal/domain/payment"
	"bizdesk/internal/listquery"
	"bizdesk/internal/store/cache"
	"bizdesk/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// Service handles data retrieval operations
type Service struct {
	clientRepo  repositories.ClientRepository
	caseRepo    repositories.CaseRepository
	paymentRepo repositories.PaymentRepository
	cache       cache.Cache
}

// NewService creates a new data service. A nil cache disables caching.
func NewService(clientRepo repositories.ClientRepository, caseRepo repositories.CaseRepository,
	paymentRepo repositories.PaymentRepository, c cache.Cache) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		clientRepo:  clientRepo,
		caseRepo:    caseRepo,
		paymentRepo: paymentRepo,
		cache:       c,
	}
}

// ListClients retrieves one page of a tenant's clients
func (s *Service) ListClients(ctx context.Context, tenantID int64, q listquery.ListQuery) (*listquery.PageResponse[*client.Client], error) {
	return list(ctx, s.cache, tenantID, ResourceClients, q, s.clientRepo.List)
}

// ListCases retrieves one page of a tenant's cases
func (s *Service) ListCases(ctx context.Context, tenantID int64, q listquery.ListQuery) (*listquery.PageResponse[*casefile.Case], error) {
	return list(ctx, s.cache, tenantID, ResourceCases, q, s.caseRepo.List)
}

// ListPayments retrieves one page of a tenant's payments
func (s *Service) ListPayments(ctx context.Context, tenantID int64, q listquery.ListQuery) (*listquery.PageResponse[*payment.Payment], error) {
	return list(ctx, s.cache, tenantID, ResourcePayments, q, s.paymentRepo.List)
}

// Invalidate drops every cached page of the given resources for the tenant.
// Failures are logged: a stale page expires with its TTL.
func (s *Service) Invalidate(ctx context.Context, tenantID int64, resources ...string) {
	for _, resource := range resources {
		if err := s.cache.Invalidate(ctx, tenantID, resource); err != nil {
			log.Warn().Err(err).Int64("tenant_id", tenantID).Str("resource", resource).Msg("list cache invalidation failed")
		}
	}
}

// list serves one page from the cache or the repository, caching what it fetched.
// The generation is read before the fetch, so a page that raced a mutation is
// stored under the generation that mutation retired.
func list[T any](ctx context.Context, c cache.Cache, tenantID int64, resource string, q listquery.ListQuery,
	fetch func(context.Context, int64, listquery.ListQuery) ([]T, int, error)) (*listquery.PageResponse[T], error) {
	gen, err := c.Generation(ctx, tenantID, resource)
	if err != nil {
		log.Warn().Err(err).Int64("tenant_id", tenantID).Str("resource", resource).Msg("list cache generation read failed")
		c = cache.Nop{}
	}
	key := cache.Key{TenantID: tenantID, Resource: resource, Generation: gen, Query: listquery.ToQueryParams(q).Encode()}

	raw, hit, err := c.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Int64("tenant_id", tenantID).Str("resource", resource).Msg("list cache read failed")
	}
	if hit {
		var cached listquery.PageResponse[T]
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		log.Warn().Int64("tenant_id", tenantID).Str("resource", resource).Msg("discarding unreadable cached page")
	}

	items, total, err := fetch(ctx, tenantID, q)
	if err != nil {
		return nil, &ServiceError{Op: "list_" + resource, Err: err}
	}
	resp := listquery.NewPageResponse(items, total)

	if encoded, err := json.Marshal(resp); err == nil {
		if err := c.Set(ctx, key, encoded); err != nil {
			log.Warn().Err(err).Int64("tenant_id", tenantID).Str("resource", resource).Msg("list cache write failed")
		}
	}
	return &resp, nil
}

// ServiceError represents a data service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "data service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
