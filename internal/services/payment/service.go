package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizdesk/internal/domain/payment"
	"bizdesk/internal/services/data"
	"bizdesk/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// ListInvalidator drops cached list pages after a mutation.
type ListInvalidator interface {
	Invalidate(ctx context.Context, tenantID int64, resources ...string)
}

type CreatePaymentRequest struct {
	ClientID  int64  `json:"client_id"`
	InvoiceNo string `json:"invoice_no"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
}

var fieldForCode = map[string]string{
	payment.ErrInvalidTenant:   "tenant",
	payment.ErrInvalidClient:   "client_id",
	payment.ErrInvalidAmount:   "amount",
	payment.ErrInvalidCurrency: "currency",
	payment.ErrInvalidMethod:   "method",
}

// CaptureResult reports whether the capture happened now or earlier.
type CaptureResult struct {
	Payment  *payment.Payment
	Replayed bool
}

// Service handles payment business logic
type Service struct {
	paymentRepo repositories.PaymentRepository
	clientRepo  repositories.ClientRepository
	uow         repositories.UnitOfWork
	lists       ListInvalidator
	now         func() time.Time
}

func NewService(paymentRepo repositories.PaymentRepository, clientRepo repositories.ClientRepository,
	uow repositories.UnitOfWork, lists ListInvalidator) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		uow:         uow,
		lists:       lists,
		now:         time.Now,
	}
}

// CreatePayment records a pending payment for one of the tenant's clients.
func (s *Service) CreatePayment(ctx context.Context, tenantID int64, req CreatePaymentRequest) (*payment.Payment, error) {
	if _, err := s.clientRepo.FindByID(ctx, tenantID, req.ClientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &ValidationError{Field: "client_id", Message: "unknown client"}
		}
		return nil, &ServiceError{Op: "find_client", Err: err}
	}

	p, err := payment.NewPayment(tenantID, req.ClientID, req.InvoiceNo, payment.Money(req.Amount),
		payment.Currency(req.Currency), payment.Method(req.Method))
	if err != nil {
		var derr payment.DomainError
		if errors.As(err, &derr) {
			return nil, &ValidationError{Field: fieldForCode[derr.Code], Message: derr.Message}
		}
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "save_payment", Err: err}
	}
	s.lists.Invalidate(ctx, tenantID, data.ResourcePayments)
	log.Info().Int64("tenant_id", tenantID).Int64("payment_id", p.ID).Int64("amount", int64(p.Amount)).Msg("payment created")
	return p, nil
}

// CapturePayment completes a pending payment. Repeating the call returns the
// captured payment unchanged with Replayed set, whatever key it carries.
func (s *Service) CapturePayment(ctx context.Context, tenantID, paymentID int64, key string) (*CaptureResult, error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "begin_capture", Err: err}
	}
	defer tx.Rollback(ctx)

	p, err := tx.Payments().FindByIDForUpdate(ctx, tenantID, paymentID)
	if err != nil {
		return nil, &ServiceError{Op: "find_payment", Err: err}
	}

	err = p.Capture(key, s.now())
	switch {
	case errors.Is(err, payment.ErrAlreadyCaptured):
		log.Info().Int64("tenant_id", tenantID).Int64("payment_id", paymentID).Str("idempotency_key", key).Msg("capture replayed")
		return &CaptureResult{Payment: p, Replayed: true}, nil
	case err != nil:
		return nil, &ServiceError{Op: "capture_payment", Err: err}
	}

	if err := tx.Payments().Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "save_payment", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &ServiceError{Op: "commit_capture", Err: err}
	}
	s.lists.Invalidate(ctx, tenantID, data.ResourcePayments)
	log.Info().Int64("tenant_id", tenantID).Int64("payment_id", paymentID).Str("idempotency_key", key).Msg("payment captured")
	return &CaptureResult{Payment: p}, nil
}

// CancelPayment withdraws a pending payment.
func (s *Service) CancelPayment(ctx context.Context, tenantID, paymentID int64) (*payment.Payment, error) {
	tx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "begin_cancel", Err: err}
	}
	defer tx.Rollback(ctx)

	p, err := tx.Payments().FindByIDForUpdate(ctx, tenantID, paymentID)
	if err != nil {
		return nil, &ServiceError{Op: "find_payment", Err: err}
	}
	if err := p.Cancel(); err != nil {
		return nil, &ServiceError{Op: "cancel_payment", Err: err}
	}
	if err := tx.Payments().Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "save_payment", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &ServiceError{Op: "commit_cancel", Err: err}
	}
	s.lists.Invalidate(ctx, tenantID, data.ResourcePayments)
	return p, nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ServiceError represents a payment service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("payment service %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
