package tenant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bizdesk/internal/store/memory"
	"bizdesk/internal/store/repositories"
)

func TestOnboardTenant(t *testing.T) {
	svc := NewService(memory.New().Tenants())
	ctx := context.Background()

	resp, err := svc.OnboardTenant(ctx, OnboardingRequest{Name: " Acme Ltd "})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TenantID == 0 || resp.Name != "Acme Ltd" || resp.APIKeyName != "default" {
		t.Fatalf("resp = %+v", resp)
	}
	if !strings.HasPrefix(resp.APIKey, "bd_") {
		t.Fatalf("api key = %q", resp.APIKey)
	}

	found, err := svc.GetTenantByAPIKey(ctx, resp.APIKey)
	if err != nil || found.ID != resp.TenantID {
		t.Fatalf("lookup: %v %+v", err, found)
	}
	if _, err := svc.GetTenantByAPIKey(ctx, "bd_wrong"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("wrong key err = %v", err)
	}
}

func TestOnboardTenantValidation(t *testing.T) {
	svc := NewService(memory.New().Tenants())
	for _, name := range []string{"", "  ", "A"} {
		_, err := svc.OnboardTenant(context.Background(), OnboardingRequest{Name: name})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "name" {
			t.Fatalf("name %q: err = %v", name, err)
		}
	}
}
