package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Payment is money owed by a client, captured once it is received.
type Payment struct {
	ID         int64      `json:"id"`
	TenantID   int64      `json:"-"`
	ClientID   int64      `json:"client_id"`
	InvoiceNo  string     `json:"invoice_no"`
	Amount     Money      `json:"amount"`
	Currency   Currency   `json:"currency"`
	Status     Status     `json:"status"`
	Method     Method     `json:"method"`
	CaptureKey string     `json:"-"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Money represents a monetary amount in smallest currency unit (cents)
type Money int64

type Currency string

const (
	KES Currency = "KES"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

type Method string

const (
	MethodMpesa Method = "mpesa"
	MethodCard  Method = "card"
	MethodBank  Method = "bank"
	MethodCash  Method = "cash"
)

var (
	// ErrAlreadyCaptured is returned by Capture on a completed payment. The
	// payment is unchanged and callers treat the capture as a replay.
	ErrAlreadyCaptured = errors.New("payment already captured")
	// ErrInvalidTransition is returned when the current status does not allow
	// the requested change, such as capturing a cancelled payment.
	ErrInvalidTransition = errors.New("invalid payment status transition")
)

// NewPayment creates a pending payment with validation
func NewPayment(tenantID, clientID int64, invoice string, amount Money, currency Currency, method Method) (*Payment, error) {
	if tenantID <= 0 {
		return nil, DomainError{Code: ErrInvalidTenant, Message: fmt.Sprintf("invalid tenant ID: %d", tenantID)}
	}
	if clientID <= 0 {
		return nil, DomainError{Code: ErrInvalidClient, Message: "client_id is required"}
	}
	if amount <= 0 {
		return nil, DomainError{Code: ErrInvalidAmount, Message: fmt.Sprintf("amount must be positive: %d", amount)}
	}
	currency = Currency(strings.ToUpper(strings.TrimSpace(string(currency))))
	if currency == "" {
		currency = KES
	}
	if !currency.Valid() {
		return nil, DomainError{Code: ErrInvalidCurrency, Message: fmt.Sprintf("unsupported currency %q", currency)}
	}
	if method == "" {
		method = MethodCard
	}
	if !method.Valid() {
		return nil, DomainError{Code: ErrInvalidMethod, Message: fmt.Sprintf("unsupported method %q", method)}
	}

	now := time.Now().UTC()
	return &Payment{
		TenantID:  tenantID,
		ClientID:  clientID,
		InvoiceNo: strings.TrimSpace(invoice),
		Amount:    amount,
		Currency:  currency,
		Status:    StatusPending,
		Method:    method,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Capture completes a pending payment. It succeeds exactly once.
func (p *Payment) Capture(key string, at time.Time) error {
	switch p.Status {
	case StatusPending:
		at = at.UTC()
		p.Status = StatusCompleted
		p.CaptureKey = key
		p.CapturedAt = &at
		p.UpdatedAt = at
		return nil
	case StatusCompleted:
		return ErrAlreadyCaptured
	default:
		return fmt.Errorf("%w: cannot capture a %s payment", ErrInvalidTransition, p.Status)
	}
}

// Cancel withdraws a payment that has not been captured.
func (p *Payment) Cancel() error {
	if p.Status != StatusPending {
		return fmt.Errorf("%w: cannot cancel a %s payment", ErrInvalidTransition, p.Status)
	}
	p.Status = StatusCancelled
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (c Currency) Valid() bool {
	switch c {
	case KES, USD, EUR:
		return true
	}
	return false
}

func (m Method) Valid() bool {
	switch m {
	case MethodMpesa, MethodCard, MethodBank, MethodCash:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// DomainError represents a domain-level error
type DomainError struct {
	Message string
	Code    string
}

func (e DomainError) Error() string {
	return fmt.Sprintf("domain error [%s]: %s", e.Code, e.Message)
}

// Domain error codes
const (
	ErrInvalidAmount   = "INVALID_AMOUNT"
	ErrInvalidTenant   = "INVALID_TENANT"
	ErrInvalidClient   = "INVALID_CLIENT"
	ErrInvalidCurrency = "INVALID_CURRENCY"
	ErrInvalidMethod   = "INVALID_METHOD"
)
