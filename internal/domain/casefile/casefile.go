// Package casefile models the work items ("cases") a tenant tracks per client.
package casefile

import (
	"fmt"
	"strings"
	"time"
)

type Case struct {
	ID          int64     `json:"id"`
	TenantID    int64     `json:"-"`
	ClientID    int64     `json:"client_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// NewCase opens a case for a client.
func NewCase(tenantID, clientID int64, title, description string) (*Case, error) {
	if tenantID <= 0 {
		return nil, fmt.Errorf("invalid tenant ID: %d", tenantID)
	}
	if clientID <= 0 {
		return nil, fmt.Errorf("client_id is required")
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 300 {
		return nil, fmt.Errorf("case title must be between 1 and 300 characters")
	}
	now := time.Now().UTC()
	return &Case{
		TenantID:    tenantID,
		ClientID:    clientID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Transition moves the case to next. Closed cases are final.
func (c *Case) Transition(next Status) error {
	if !next.Valid() {
		return fmt.Errorf("unknown case status %q", next)
	}
	if c.Status == StatusClosed && next != StatusClosed {
		return fmt.Errorf("case %d is closed", c.ID)
	}
	c.Status = next
	c.UpdatedAt = time.Now().UTC()
	return nil
}
