package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bizdesk/internal/domain/payment"
	"bizdesk/internal/listquery"
	"bizdesk/internal/services/crm"
	paymentsvc "bizdesk/internal/services/payment"
	"bizdesk/internal/services/tenant"
	"bizdesk/internal/store/repositories"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and hidden from the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		listErr    *listquery.ValidationError
		crmErr     *crm.ValidationError
		paymentErr *paymentsvc.ValidationError
		tenantErr  *tenant.ValidationError
	)
	switch {
	case errors.As(err, &listErr):
		http.Error(w, listErr.Error(), http.StatusBadRequest)
	case errors.As(err, &crmErr):
		http.Error(w, crmErr.Error(), http.StatusBadRequest)
	case errors.As(err, &paymentErr):
		http.Error(w, paymentErr.Error(), http.StatusBadRequest)
	case errors.As(err, &tenantErr):
		http.Error(w, tenantErr.Error(), http.StatusBadRequest)
	case errors.Is(err, repositories.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, repositories.ErrInUse):
		http.Error(w, "resource is still referenced", http.StatusConflict)
	case errors.Is(err, payment.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
