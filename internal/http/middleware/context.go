package middlewarex

import "context"

// tenantKey scopes the authenticated tenant on a request context.
type tenantKey struct{}

// WithTenantID returns a copy of ctx carrying the tenant that owns the request.
func WithTenantID(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// TenantID returns the tenant resolved by APIKeyAuth. The second result is
// false on requests that never passed through it, or that carry a
// non-positive ID.
func TenantID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tenantKey{}).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
