package postgres

import (
	"context"
	"errors"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/listquery"
	"bizdesk/internal/store/repositories"

	"github.com/jackc/pgx/v5"
)

const caseColumns = `id, tenant_id, client_id, title, description, status, created_at, updated_at`

var caseList = listSpec{
	table:   "cases",
	columns: caseColumns,
	sortable: map[string]string{
		"title":      "lower(title)",
		"status":     "status",
		"created_at": "created_at",
	},
	search: []string{"title"},
	filters: map[string]filterSpec{
		"status":    textFilter("status"),
		"client_id": idFilter("client_id"),
	},
	tiebreak: "id DESC",
}

// caseRepository implements CaseRepository
type caseRepository struct {
	db querier
}

func NewCaseRepository(db querier) *caseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Save(ctx context.Context, c *casefile.Case) error {
	if c.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO cases (tenant_id, client_id, title, description, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			c.TenantID, c.ClientID, c.Title, c.Description, string(c.Status), c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE cases
		SET title = $1, description = $2, status = $3, updated_at = $4
		WHERE tenant_id = $5 AND id = $6`,
		c.Title, c.Description, string(c.Status), c.UpdatedAt, c.TenantID, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *caseRepository) FindByID(ctx context.Context, tenantID, id int64) (*casefile.Case, error) {
	row := r.db.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	c, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return c, err
}

func (r *caseRepository) List(ctx context.Context, tenantID int64, q listquery.ListQuery) ([]*casefile.Case, int, error) {
	stmt, err := caseList.build(tenantID, q)
	if err != nil {
		return nil, 0, err
	}
	return runList(ctx, r.db, stmt, scanCase)
}

func scanCase(row pgx.Row) (*casefile.Case, error) {
	var c casefile.Case
	var status string
	if err := row.Scan(&c.ID, &c.TenantID, &c.ClientID, &c.Title, &c.Description, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = casefile.Status(status)
	return &c, nil
}
