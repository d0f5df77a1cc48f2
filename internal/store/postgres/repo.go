package postgres

import (
	"bizdesk/internal/store/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo bundles the Postgres repositories over one pool.
type Repo struct {
	db *pgxpool.Pool

	Tenants  repositories.TenantRepository
	Clients  repositories.ClientRepository
	Cases    repositories.CaseRepository
	Payments repositories.PaymentRepository
	UoW      repositories.UnitOfWork
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:       db,
		Tenants:  NewTenantRepository(db),
		Clients:  NewClientRepository(db),
		Cases:    NewCaseRepository(db),
		Payments: NewPaymentRepository(db),
		UoW:      NewUnitOfWork(db),
	}
}

// DB exposes the underlying pool for health checks.
func (r *Repo) DB() *pgxpool.Pool { return r.db }
