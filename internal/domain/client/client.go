package client

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Client is a person or company a tenant does business with.
type Client struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Type      Type      `json:"client_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Type separates prospects from paying clients.
type Type string

const (
	TypeLead     Type = "lead"
	TypeCustomer Type = "customer"
)

// ParseType accepts the wire form of a client type. Empty means lead.
func ParseType(raw string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return TypeLead, nil
	case TypeLead, TypeCustomer:
		return t, nil
	default:
		return "", fmt.Errorf("unknown client type %q", raw)
	}
}

// NewClient creates a new client with validation
func NewClient(tenantID int64, name, email, phone string, clientType Type) (*Client, error) {
	if tenantID <= 0 {
		return nil, fmt.Errorf("invalid tenant ID: %d", tenantID)
	}
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 200 {
		return nil, fmt.Errorf("client name must be between 2 and 200 characters")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, fmt.Errorf("invalid email address %q", email)
		}
	}
	t, err := ParseType(string(clientType))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Client{
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		Type:      t,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
