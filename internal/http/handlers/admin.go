package handlers

import (
	"net/http"

	"bizdesk/internal/services/tenant"
)

// OnboardTenant handles tenant onboarding using the tenant service. The
// admin token is checked by middleware.
func OnboardTenant(tenantService *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tenant.OnboardingRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		response, err := tenantService.OnboardTenant(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, response)
	}
}

type issueKeyReq struct {
	Name string `json:"name"`
}

type issueKeyResp struct {
	TenantID   int64  `json:"tenant_id"`
	APIKey     string `json:"api_key"`
	APIKeyName string `json:"api_key_name"`
}

// IssueAPIKey adds a key to an existing tenant.
func IssueAPIKey(tenantService *tenant.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := idParam(w, r, "id")
		if !ok {
			return
		}
		var req issueKeyReq
		if !decodeJSON(w, r, &req) {
			return
		}
		key, name, err := tenantService.IssueAPIKey(r.Context(), tenantID, req.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, issueKeyResp{TenantID: tenantID, APIKey: key, APIKeyName: name})
	}
}
