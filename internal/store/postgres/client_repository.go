package postgres

import (
	"context"
	"errors"

	"bizdesk/internal/domain/client"
	"bizdesk/internal/listquery"
	"bizdesk/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

const clientColumns = `id, tenant_id, name, email, phone, client_type, created_at, updated_at`

var clientList = listSpec{
	table:   "clients",
	columns: clientColumns,
	sortable: map[string]string{
		"name":        "lower(name)",
		"email":       "email",
		"client_type": "client_type",
		"created_at":  "created_at",
	},
	search: []string{"name", "email"},
	filters: map[string]filterSpec{
		"client_type": textFilter("client_type"),
	},
	tiebreak: "id DESC",
}

// clientRepository implements ClientRepository
type clientRepository struct {
	db querier
}

func NewClientRepository(db querier) *clientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Save(ctx context.Context, c *client.Client) error {
	if c.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO clients (tenant_id, name, email, phone, client_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			c.TenantID, c.Name, c.Email, c.Phone, string(c.Type), c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, client_type = $4, updated_at = $5
		WHERE tenant_id = $6 AND id = $7`,
		c.Name, c.Email, c.Phone, string(c.Type), c.UpdatedAt, c.TenantID, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *clientRepository) FindByID(ctx context.Context, tenantID, id int64) (*client.Client, error) {
	row := r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return c, err
}

// Delete removes the client and, through the foreign key, its cases. Clients
// with payments are kept.
func (r *clientRepository) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return repositories.ErrInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, tenantID int64, q listquery.ListQuery) ([]*client.Client, int, error) {
	stmt, err := clientList.build(tenantID, q)
	if err != nil {
		return nil, 0, err
	}
	return runList(ctx, r.db, stmt, scanClient)
}

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	var clientType string
	if err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &clientType, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Type = client.Type(clientType)
	return &c, nil
}
