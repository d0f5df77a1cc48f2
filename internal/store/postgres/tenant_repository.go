package postgres

import (
	"context"
	"errors"

	"bizdesk/internal/domain/tenant"
	"bizdesk/internal/store/repositories"

	"github.com/jackc/pgx/v5"
)

// tenantRepository implements TenantRepository interface with pure data access
type tenantRepository struct {
	db querier
}

func NewTenantRepository(db querier) *tenantRepository {
	return &tenantRepository{db: db}
}

// Save saves a tenant (insert or update)
func (r *tenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	if t.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO tenants (name, status, created_at)
			VALUES ($1, $2, $3)
			RETURNING id`,
			t.Name, string(t.Status), t.CreatedAt).Scan(&t.ID)
	}
	_, err := r.db.Exec(ctx, `UPDATE tenants SET name = $1, status = $2 WHERE id = $3`,
		t.Name, string(t.Status), t.ID)
	return err
}

func (r *tenantRepository) FindByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	return r.find(ctx, `SELECT id, name, status, created_at FROM tenants WHERE id = $1`, id)
}

// FindByAPIKeyHash resolves an active key of an active tenant.
func (r *tenantRepository) FindByAPIKeyHash(ctx context.Context, keyHash string) (*tenant.Tenant, error) {
	return r.find(ctx, `
		SELECT t.id, t.name, t.status, t.created_at
		FROM tenants t
		JOIN tenant_api_keys ak ON t.id = ak.tenant_id
		WHERE ak.key_hash = $1 AND ak.is_active AND t.status = 'active'`, keyHash)
}

// SaveAPIKey saves an API key record
func (r *tenantRepository) SaveAPIKey(ctx context.Context, apiKey *tenant.APIKey) error {
	if apiKey.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO tenant_api_keys (tenant_id, name, key_hash, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			apiKey.TenantID, apiKey.Name, apiKey.KeyHash, apiKey.IsActive).Scan(&apiKey.ID)
	}
	_, err := r.db.Exec(ctx, `UPDATE tenant_api_keys SET name = $1, is_active = $2 WHERE id = $3`,
		apiKey.Name, apiKey.IsActive, apiKey.ID)
	return err
}

func (r *tenantRepository) find(ctx context.Context, query string, arg any) (*tenant.Tenant, error) {
	var t tenant.Tenant
	var status string
	err := r.db.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &status, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Status = tenant.Status(status)
	return &t, nil
}
