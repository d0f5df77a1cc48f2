package tenant

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Tenant is a business using the dashboard. Every client, case and payment
// belongs to exactly one tenant.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

// APIKey is a hashed tenant credential. The plaintext is only ever shown once.
type APIKey struct {
	ID       int64
	TenantID int64
	Name     string
	KeyHash  string
	IsActive bool
}

// NewTenant creates a new tenant with validation
func NewTenant(name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("tenant name is required")
	}
	if len(name) < 2 || len(name) > 100 {
		return nil, fmt.Errorf("tenant name must be between 2 and 100 characters")
	}
	return &Tenant{
		Name:      name,
		Status:    StatusActive,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewAPIKey creates a new API key with validation
func NewAPIKey(tenantID int64, name, keyHash string) (*APIKey, error) {
	if tenantID <= 0 {
		return nil, fmt.Errorf("invalid tenant ID: %d", tenantID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "default"
	}
	if keyHash == "" {
		return nil, fmt.Errorf("key hash is required")
	}
	return &APIKey{
		TenantID: tenantID,
		Name:     name,
		KeyHash:  keyHash,
		IsActive: true,
	}, nil
}

// GenerateKey returns a new random plaintext key and its hash.
func GenerateKey() (plain, hash string, err error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate api key: %w", err)
	}
	plain = "bd_" + hex.EncodeToString(buf)
	return plain, HashKey(plain), nil
}

// HashKey is the stored form of a plaintext key.
func HashKey(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// Suspend blocks API access until the tenant is activated again.
func (t *Tenant) Suspend() error {
	if t.Status == StatusClosed {
		return fmt.Errorf("cannot suspend closed tenant")
	}
	t.Status = StatusSuspended
	return nil
}

func (t *Tenant) Activate() error {
	if t.Status == StatusClosed {
		return fmt.Errorf("cannot activate closed tenant")
	}
	t.Status = StatusActive
	return nil
}

// Deactivate revokes the key.
func (a *APIKey) Deactivate() {
	a.IsActive = false
}
