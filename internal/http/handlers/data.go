package handlers

import (
	"context"
	"net/http"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/domain/client"
	"bizdesk/internal/domain/payment"
	middlewarex "bizdesk/internal/http/middleware"
	"bizdesk/internal/listquery"
	"bizdesk/internal/services/data"
)

// listHandler parses the wire query against schema and serves one page.
func listHandler[T any](schema listquery.Schema,
	fetch func(ctx context.Context, tenantID int64, q listquery.ListQuery) (*listquery.PageResponse[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := middlewarex.TenantID(r.Context())
		if !ok {
			http.Error(w, "tenant not found", http.StatusUnauthorized)
			return
		}

		q, err := listquery.Parse(r.URL.Query(), schema)
		if err != nil {
			writeError(w, r, err)
			return
		}

		page, err := fetch(r.Context(), tenantID, q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func ListClients(dataService *data.Service, schemas data.Schemas) http.HandlerFunc {
	return listHandler[*client.Client](schemas.Clients, dataService.ListClients)
}

func ListCases(dataService *data.Service, schemas data.Schemas) http.HandlerFunc {
	return listHandler[*casefile.Case](schemas.Cases, dataService.ListCases)
}

func ListPayments(dataService *data.Service, schemas data.Schemas) http.HandlerFunc {
	return listHandler[*payment.Payment](schemas.Payments, dataService.ListPayments)
}
