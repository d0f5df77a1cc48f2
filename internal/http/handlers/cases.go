package handlers

import (
	"net/http"

	middlewarex "bizdesk/internal/http/middleware"
	"bizdesk/internal/services/crm"
)

func CreateCase(crmService *crm.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middlewarex.TenantID(r.Context())
		if !ok {
			http.Error(w, "tenant not found", http.StatusUnauthorized)
			return
		}
		var req crm.CreateCaseRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		cs, err := crmService.CreateCase(r.Context(), tenantID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, cs)
	}
}

// UpdateCase moves a case to the requested status.
func UpdateCase(crmService *crm.Service) http.HandlerFunc {
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
		var req crm.UpdateCaseRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		cs, err := crmService.UpdateCaseStatus(r.Context(), tenantID, id, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cs)
	}
}
