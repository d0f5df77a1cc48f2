// Package cache stores rendered list pages. Pages are grouped per tenant and
// resource under a generation number; invalidating bumps the generation so a
// page fetched before a mutation can never be served after it.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is safe for concurrent use.
type Cache interface {
	// Generation returns the current generation of a tenant's resource. Read
	// it before fetching, then Get and Set with it.
	Generation(ctx context.Context, tenantID int64, resource string) (int64, error)
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte) error
	Invalidate(ctx context.Context, tenantID int64, resource string) error
}

// Key identifies one cached page. Query is the encoded wire query.
type Key struct {
	TenantID   int64
	Resource   string
	Generation int64
	Query      string
}

func (k Key) String() string {
	return fmt.Sprintf("%s%d:%s", resourcePrefix(k.TenantID, k.Resource), k.Generation, k.Query)
}

func resourcePrefix(tenantID int64, resource string) string {
	return fmt.Sprintf("bizdesk:list:%d:%s:", tenantID, resource)
}

func indexKey(tenantID int64, resource string) string {
	return fmt.Sprintf("bizdesk:list-keys:%d:%s", tenantID, resource)
}

func generationKey(tenantID int64, resource string) string {
	return fmt.Sprintf("bizdesk:list-gen:%d:%s", tenantID, resource)
}

// DefaultTTL applies when a cache is built with a non-positive ttl.
const DefaultTTL = 30 * time.Second

// Nop never stores anything.
type Nop struct{}

func (Nop) Generation(context.Context, int64, string) (int64, error) { return 0, nil }
func (Nop) Get(context.Context, Key) ([]byte, bool, error)           { return nil, false, nil }
func (Nop) Set(context.Context, Key, []byte) error                   { return nil }
func (Nop) Invalidate(context.Context, int64, string) error          { return nil }
