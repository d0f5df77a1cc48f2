package repositories

import (
	"context"
	"errors"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/domain/client"
	"bizdesk/internal/domain/payment"
	"bizdesk/internal/domain/tenant"
	"bizdesk/internal/listquery"
)

// ErrNotFound is returned when a record does not exist for the tenant.
var ErrNotFound = errors.New("record not found")

// ErrInUse is returned when a record cannot be deleted while others refer to it.
var ErrInUse = errors.New("record is still referenced")

// List operations return one page plus the total number of matching rows.
// Filter values that cannot be read are reported as *listquery.ValidationError.

// ClientRepository defines the contract for client data access
type ClientRepository interface {
	Save(ctx context.Context, c *client.Client) error
	FindByID(ctx context.Context, tenantID, id int64) (*client.Client, error)
	Delete(ctx context.Context, tenantID, id int64) error
	List(ctx context.Context, tenantID int64, q listquery.ListQuery) ([]*client.Client, int, error)
}

// CaseRepository defines the contract for case data access
type CaseRepository interface {
	Save(ctx context.Context, c *casefile.Case) error
	FindByID(ctx context.Context, tenantID, id int64) (*casefile.Case, error)
	List(ctx context.Context, tenantID int64, q listquery.ListQuery) ([]*casefile.Case, int, error)
}

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	Save(ctx context.Context, p *payment.Payment) error
	FindByID(ctx context.Context, tenantID, id int64) (*payment.Payment, error)
	List(ctx context.Context, tenantID int64, q listquery.ListQuery) ([]*payment.Payment, int, error)
}

// TenantRepository defines the contract for tenant data access
type TenantRepository interface {
	Save(ctx context.Context, t *tenant.Tenant) error
	FindByID(ctx context.Context, id int64) (*tenant.Tenant, error)
	FindByAPIKeyHash(ctx context.Context, keyHash string) (*tenant.Tenant, error)
	SaveAPIKey(ctx context.Context, apiKey *tenant.APIKey) error
}

// LockingPaymentRepository is the payment repository inside a transaction.
type LockingPaymentRepository interface {
	// FindByIDForUpdate locks the row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, tenantID, id int64) (*payment.Payment, error)
	Save(ctx context.Context, p *payment.Payment) error
}

// UnitOfWork defines transactional operations
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction defines a database transaction
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Payments() LockingPaymentRepository
}
