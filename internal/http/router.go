package httpx

import (
	"encoding/json"
	"net/http"

	"bizdesk/internal/config"
	"bizdesk/internal/http/handlers"
	middlewarex "bizdesk/internal/http/middleware"
	"bizdesk/internal/services/crm"
	"bizdesk/internal/services/data"
	"bizdesk/internal/services/payment"
	"bizdesk/internal/services/tenant"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config         config.Cfg
	TenantService  *tenant.Service
	DataService    *data.Service
	CRMService     *crm.Service
	PaymentService *payment.Service
	Schemas        data.Schemas
}

// NewRouter creates the HTTP router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarex.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.App.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", handlers.IdempotencyKeyHeader},
		ExposedHeaders: []string{handlers.ReplayedHeader},
		MaxAge:         300,
	}))

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"env":    deps.Config.App.Env,
		})
	})

	// Admin routes (protected by admin auth)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.AdminAuth(deps.Config))

		r.Post("/tenants", handlers.OnboardTenant(deps.TenantService))
		r.Post("/tenants/{id}/api-keys", handlers.IssueAPIKey(deps.TenantService))
	})

	// API routes (protected by API key auth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.APIKeyAuth(deps.TenantService))
		r.Use(middlewarex.RateLimit(deps.Config.Sec.RateLimitPerMin))

		r.Get("/clients", handlers.ListClients(deps.DataService, deps.Schemas))
		r.Post("/clients", handlers.CreateClient(deps.CRMService))
		r.Delete("/clients/{id}", handlers.DeleteClient(deps.CRMService))

		r.Get("/cases", handlers.ListCases(deps.DataService, deps.Schemas))
		r.Post("/cases", handlers.CreateCase(deps.CRMService))
		r.Patch("/cases/{id}", handlers.UpdateCase(deps.CRMService))

		r.Get("/payments", handlers.ListPayments(deps.DataService, deps.Schemas))
		r.Post("/payments", handlers.CreatePayment(deps.PaymentService))
		r.Post("/payments/{id}/capture", handlers.CapturePayment(deps.PaymentService))
		r.Post("/payments/{id}/cancel", handlers.CancelPayment(deps.PaymentService))
	})

	return otelhttp.NewHandler(r, "bizdesk")
}
