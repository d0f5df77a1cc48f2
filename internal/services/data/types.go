package data

import "bizdesk/internal/listquery"

// Resource names, used in cache keys and invalidation.
const (
	ResourceClients  = "clients"
	ResourceCases    = "cases"
	ResourcePayments = "payments"
)

// Schemas are the list contracts of the three list endpoints.
type Schemas struct {
	Clients  listquery.Schema
	Cases    listquery.Schema
	Payments listquery.Schema
}

// NewSchemas applies the configured page-size bounds to every list.
func NewSchemas(defaultPageSize, maxPageSize int) Schemas {
	return Schemas{
		Clients: listquery.Schema{
			DefaultPageSize: defaultPageSize,
			MaxPageSize:     maxPageSize,
			Sortable:        []string{"name", "email", "client_type", "created_at"},
			Filters:         []string{"client_type"},
			DefaultOrdering: []listquery.SortEntry{listquery.Desc("created_at")},
		},
		Cases: listquery.Schema{
			DefaultPageSize: defaultPageSize,
			MaxPageSize:     maxPageSize,
			Sortable:        []string{"title", "status", "created_at"},
			Filters:         []string{"status", "client_id"},
			DefaultOrdering: []listquery.SortEntry{listquery.Desc("created_at")},
		},
		Payments: listquery.Schema{
			DefaultPageSize: defaultPageSize,
			MaxPageSize:     maxPageSize,
			Sortable:        []string{"created_at", "amount", "status", "invoice_no"},
			Filters:         []string{"status", "method"},
			DefaultOrdering: []listquery.SortEntry{listquery.Desc("created_at")},
		},
	}
}
