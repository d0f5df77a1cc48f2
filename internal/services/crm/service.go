// Package crm manages a tenant's clients and their cases.
package crm

import (
	"context"
	"errors"
	"fmt"

	"bizdesk/internal/domain/casefile"
	"bizdesk/internal/domain/client"
	"bizdesk/internal/services/data"
	"bizdesk/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// ListInvalidator drops cached list pages after a mutation.
type ListInvalidator interface {
	Invalidate(ctx context.Context, tenantID int64, resources ...string)
}

type CreateClientRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	ClientType string `json:"client_type"`
}

type CreateCaseRequest struct {
	ClientID    int64  `json:"client_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateCaseRequest struct {
	Status string `json:"status"`
}

// Service handles client and case mutations
type Service struct {
	clientRepo repositories.ClientRepository
	caseRepo   repositories.CaseRepository
	lists      ListInvalidator
}

func NewService(clientRepo repositories.ClientRepository, caseRepo repositories.CaseRepository, lists ListInvalidator) *Service {
	return &Service{clientRepo: clientRepo, caseRepo: caseRepo, lists: lists}
}

func (s *Service) CreateClient(ctx context.Context, tenantID int64, req CreateClientRequest) (*client.Client, error) {
	clientType, err := client.ParseType(req.ClientType)
	if err != nil {
		return nil, &ValidationError{Field: "client_type", Message: err.Error()}
	}
	c, err := client.NewClient(tenantID, req.Name, req.Email, req.Phone, clientType)
	if err != nil {
		return nil, &ValidationError{Field: "client", Message: err.Error()}
	}
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, &ServiceError{Op: "save_client", Err: err}
	}
	s.lists.Invalidate(ctx, tenantID, data.ResourceClients)
	log.Info().Int64("tenant_id", tenantID).Int64("client_id", c.ID).Msg("client created")
	return c, nil
}

// DeleteClient removes a client together with its cases.
func (s *Service) DeleteClient(ctx context.Context, tenantID, clientID int64) error {
	if err := s.clientRepo.Delete(ctx, tenantID, clientID); err != nil {
		return &ServiceError{Op: "delete_client", Err: err}
	}
	s.lists.Invalidate(ctx, tenantID, data.ResourceClients, data.ResourceCases)
	log.Info().Int64("tenant_id", tenantID).Int64("client_id", clientID).Msg("client deleted")
	return nil
}

func (s *Service) CreateCase(ctx context.Context, tenantID int64, req CreateCaseRequest) (*casefile.Case, error) {
	if req.ClientID <= 0 {
		return nil, &ValidationError{Field: "client_id", Message: "client_id is required"}
	}
	if _, err := s.clientRepo.FindByID(ctx, tenantID, req.ClientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &ValidationError{Field: "client_id", Message: "unknown client"}
		}
		return nil, &ServiceError{Op: "find_client", Err: err}
	}
	c, err := casefile.NewCase(tenantID, req.ClientID, req.Title, req.Description)
	if err != nil {
		return nil, &ValidationError{Field: "case", Message: err.Error()}
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, &ServiceError{Op: "save_case", Err: err}
	}
	s.lists.Invalidate(ctx, tenantID, data.ResourceCases)
	return c, nil
}

// UpdateCaseStatus moves a case through open, in_progress and closed.
func (s *Service) UpdateCaseStatus(ctx context.Context, tenantID, caseID int64, req UpdateCaseRequest) (*casefile.Case, error) {
	c, err := s.caseRepo.FindByID(ctx, tenantID, caseID)
	if err != nil {
		return nil, &ServiceError{Op: "find_case", Err: err}
	}
	if err := c.Transition(casefile.Status(req.Status)); err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, &ServiceError{Op: "save_case", Err: err}
	}
	s.lists.Invalidate(ctx, tenantID, data.ResourceCases)
	return c, nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ServiceError represents a crm service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "crm service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
