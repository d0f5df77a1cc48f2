package handlers

import (
	"net/http"
	"strings"

	middlewarex "bizdesk/internal/http/middleware"
	paymentsvc "bizdesk/internal/services/payment"
)

// IdempotencyKeyHeader carries the client's key on capture requests.
const IdempotencyKeyHeader = "Idempotency-Key"

// ReplayedHeader is set on capture responses that did not change anything.
const ReplayedHeader = "Idempotent-Replayed"

func CreatePayment(paymentService *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middlewarex.TenantID(r.Context())
		if !ok {
			http.Error(w, "tenant not found", http.StatusUnauthorized)
			return
		}
		var req paymentsvc.CreatePaymentRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := paymentService.CreatePayment(r.Context(), tenantID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// CapturePayment completes a pending payment. A repeated capture answers 200
// with the stored payment and the replay header.
func CapturePayment(paymentService *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middlewarex.TenantID(r.Context())
		if !ok {
			http.Error(w, "tenant not found", http.StatusUnauthorized)
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))

		res, err := paymentService.CapturePayment(r.Context(), tenantID, id, key)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if res.Replayed {
			w.Header().Set(ReplayedHeader, "true")
		}
		writeJSON(w, http.StatusOK, res.Payment)
	}
}

func CancelPayment(paymentService *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middlewarex.TenantID(r.Context())
		if !ok {
			http.Error(w, "tenant not found", http.StatusUnauthorized)
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		p, err := paymentService.CancelPayment(r.Context(), tenantID, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
