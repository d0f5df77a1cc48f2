package handlers

import (
	"net/http"

	middlewarex "bizdesk/internal/http/middleware"
	"bizdesk/internal/services/crm"
)

func CreateClient(crmService *crm.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middlewarex.TenantID(r.Context())
		if !ok {
			http.Error(w, "tenant not found", http.StatusUnauthorized)
			return
		}
		var req crm.CreateClientRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := crmService.CreateClient(r.Context(), tenantID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// DeleteClient removes a client and its cases. Clients with payments stay.
func DeleteClient(crmService *crm.Service) http.HandlerFunc {
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
		if err := crmService.DeleteClient(r.Context(), tenantID, id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
