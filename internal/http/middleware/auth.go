package middlewarex

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"bizdesk/internal/config"
	"bizdesk/internal/domain/tenant"
)

// TenantResolver looks up the tenant that owns a plaintext API key.
type TenantResolver interface {
	GetTenantByAPIKey(ctx context.Context, apiKey string) (*tenant.Tenant, error)
}

func APIKeyAuth(tenants TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			key := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			ten, err := tenants.GetTenantByAPIKey(r.Context(), key)
			if err != nil {
				http.Error(w, "invalid key", http.StatusUnauthorized)
				return
			}
			if !ten.IsActive() {
				http.Error(w, "tenant inactive", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenantID(r.Context(), ten.ID)))
		})
	}
}

// AdminAuth guards operator routes with the shared X-Admin-Token. An empty
// configured token locks the routes entirely.
func AdminAuth(cfg config.Cfg) func(http.Handler) http.Handler {
	want := []byte(cfg.Sec.AdminToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("X-Admin-Token"))
			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
