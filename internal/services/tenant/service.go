package tenant

import (
	"context"
	"fmt"
	"strings"

	"bizdesk/internal/domain/tenant"
	"bizdesk/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

// OnboardingRequest represents tenant onboarding data
type OnboardingRequest struct {
	Name       string `json:"name"`
	APIKeyName string `json:"api_key_name,omitempty"`
}

// OnboardingResponse carries the only copy of the plaintext API key.
type OnboardingResponse struct {
	TenantID   int64  `json:"tenant_id"`
	Name       string `json:"name"`
	APIKey     string `json:"api_key"`
	APIKeyName string `json:"api_key_name"`
}

// Service handles tenant onboarding and API key resolution
type Service struct {
	tenantRepo repositories.TenantRepository
}

func NewService(tenantRepo repositories.TenantRepository) *Service {
	return &Service{tenantRepo: tenantRepo}
}

// OnboardTenant creates a tenant and its first API key.
func (s *Service) OnboardTenant(ctx context.Context, req OnboardingRequest) (*OnboardingResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "tenant name is required"}
	}
	newTenant, err := tenant.NewTenant(req.Name)
	if err != nil {
		return nil, &ValidationError{Field: "name", Message: err.Error()}
	}
	if err := s.tenantRepo.Save(ctx, newTenant); err != nil {
		return nil, &ServiceError{Op: "save_tenant", Err: err}
	}

	plain, keyName, err := s.IssueAPIKey(ctx, newTenant.ID, req.APIKeyName)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("tenant_id", newTenant.ID).Str("api_key_name", keyName).Msg("tenant onboarded")
	return &OnboardingResponse{
		TenantID:   newTenant.ID,
		Name:       newTenant.Name,
		APIKey:     plain,
		APIKeyName: keyName,
	}, nil
}

// IssueAPIKey stores a new key for the tenant and returns its plaintext.
func (s *Service) IssueAPIKey(ctx context.Context, tenantID int64, keyName string) (string, string, error) {
	if _, err := s.tenantRepo.FindByID(ctx, tenantID); err != nil {
		return "", "", &ServiceError{Op: "find_tenant", Err: err}
	}
	plain, hash, err := tenant.GenerateKey()
	if err != nil {
		return "", "", &ServiceError{Op: "create_api_key", Err: err}
	}
	apiKey, err := tenant.NewAPIKey(tenantID, keyName, hash)
	if err != nil {
		return "", "", &ServiceError{Op: "create_api_key", Err: err}
	}
	if err := s.tenantRepo.SaveAPIKey(ctx, apiKey); err != nil {
		return "", "", &ServiceError{Op: "save_api_key", Err: err}
	}
	return plain, apiKey.Name, nil
}

// GetTenantByAPIKey resolves the active tenant owning a plaintext key.
func (s *Service) GetTenantByAPIKey(ctx context.Context, apiKey string) (*tenant.Tenant, error) {
	return s.tenantRepo.FindByAPIKeyHash(ctx, tenant.HashKey(apiKey))
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("tenant service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
