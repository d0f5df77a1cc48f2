package payment

import (
	"errors"
	"testing"
	"time"
)

func TestNewPaymentDefaults(t *testing.T) {
	p, err := NewPayment(1, 7, " INV-001 ", 1500, "kes", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != StatusPending || p.Currency != KES || p.Method != MethodCard || p.InvoiceNo != "INV-001" {
		t.Fatalf("payment = %+v", p)
	}
}

func TestNewPaymentValidation(t *testing.T) {
	tests := []struct {
		name     string
		tenant   int64
		client   int64
		amount   Money
		currency Currency
		method   Method
		code     string
	}{
		{"no tenant", 0, 1, 10, KES, MethodCard, ErrInvalidTenant},
		{"no client", 1, 0, 10, KES, MethodCard, ErrInvalidClient},
		{"zero amount", 1, 1, 0, KES, MethodCard, ErrInvalidAmount},
		{"bad currency", 1, 1, 10, "XYZ", MethodCard, ErrInvalidCurrency},
		{"bad method", 1, 1, 10, USD, "barter", ErrInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayment(tt.tenant, tt.client, "", tt.amount, tt.currency, tt.method)
			var derr DomainError
			if !errors.As(err, &derr) || derr.Code != tt.code {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestCaptureOnce(t *testing.T) {
	p, err := NewPayment(1, 1, "INV-9", 100, USD, MethodBank)
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := p.Capture("key-1", at); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if p.Status != StatusCompleted || p.CapturedAt == nil || !p.CapturedAt.Equal(at) || p.CaptureKey != "key-1" {
		t.Fatalf("after capture: %+v", p)
	}

	if err := p.Capture("key-2", at.Add(time.Hour)); !errors.Is(err, ErrAlreadyCaptured) {
		t.Fatalf("second capture err = %v", err)
	}
	if p.CaptureKey != "key-1" || !p.CapturedAt.Equal(at) {
		t.Fatal("replayed capture changed the payment")
	}
}

func TestCaptureRejectsTerminalStatus(t *testing.T) {
	for _, status := range []Status{StatusFailed, StatusCancelled} {
		p := &Payment{Status: status}
		if err := p.Capture("", time.Now()); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s: err = %v", status, err)
		}
		if p.Status != status {
			t.Fatalf("status changed to %s", p.Status)
		}
	}
}

func TestCancel(t *testing.T) {
	p := &Payment{ID: 3, Status: StatusPending}
	if err := p.Cancel(); err != nil || p.Status != StatusCancelled {
		t.Fatalf("cancel: %v, status %s", err, p.Status)
	}
	if err := p.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancelling twice: %v", err)
	}
}
