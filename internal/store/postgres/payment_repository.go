package postgres

import (
	"context"
	"database/sql"
	"errors"

	"bizdesk/internal/domain/payment"
	"bizdesk/internal/listquery"
	"bizdesk/internal/store/repositories"

	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, tenant_id, client_id, invoice_no, amount, currency, status, method, capture_key, captured_at, created_at, updated_at`

var paymentList = listSpec{
	table:   "payments",
	columns: paymentColumns,
	sortable: map[string]string{
		"created_at": "created_at",
		"amount":     "amount",
		"status":     "status",
		"invoice_no": "invoice_no",
	},
	search: []string{"invoice_no"},
	filters: map[string]filterSpec{
		"status": textFilter("status"),
		"method": textFilter("method"),
	},
	tiebreak: "id DESC",
}

// paymentRepository implements PaymentRepository. Inside a transaction it
// also serves LockingPaymentRepository.
type paymentRepository struct {
	db querier
}

func NewPaymentRepository(db querier) *paymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	if p.ID == 0 {
		return r.insert(ctx, p)
	}
	return r.update(ctx, p)
}

func (r *paymentRepository) FindByID(ctx context.Context, tenantID, id int64) (*payment.Payment, error) {
	return r.find(ctx, `SELECT `+paymentColumns+` FROM payments WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *paymentRepository) FindByIDForUpdate(ctx context.Context, tenantID, id int64) (*payment.Payment, error) {
	return r.find(ctx, `SELECT `+paymentColumns+` FROM payments WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *paymentRepository) List(ctx context.Context, tenantID int64, q listquery.ListQuery) ([]*payment.Payment, int, error) {
	stmt, err := paymentList.build(tenantID, q)
	if err != nil {
		return nil, 0, err
	}
	return runList(ctx, r.db, stmt, scanPayment)
}

func (r *paymentRepository) find(ctx context.Context, query string, tenantID, id int64) (*payment.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, query, tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrNotFound
	}
	return p, err
}

func (r *paymentRepository) insert(ctx context.Context, p *payment.Payment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO payments (tenant_id, client_id, invoice_no, amount, currency, status, method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.TenantID, p.ClientID, p.InvoiceNo, int64(p.Amount), string(p.Currency), string(p.Status),
		string(p.Method), p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *paymentRepository) update(ctx context.Context, p *payment.Payment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET invoice_no = $1, amount = $2, status = $3, capture_key = $4, captured_at = $5, updated_at = $6
		WHERE tenant_id = $7 AND id = $8`,
		p.InvoiceNo, int64(p.Amount), string(p.Status), nullString(p.CaptureKey), p.CapturedAt, p.UpdatedAt,
		p.TenantID, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var (
		p          payment.Payment
		amount     int64
		currency   string
		status     string
		method     string
		captureKey sql.NullString
		capturedAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.TenantID, &p.ClientID, &p.InvoiceNo, &amount, &currency, &status, &method,
		&captureKey, &capturedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Amount = payment.Money(amount)
	p.Currency = payment.Currency(currency)
	p.Status = payment.Status(status)
	p.Method = payment.Method(method)
	p.CaptureKey = captureKey.String
	if capturedAt.Valid {
		t := capturedAt.Time
		p.CapturedAt = &t
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
