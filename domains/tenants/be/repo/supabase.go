package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

type tenantRow struct {
	ID       uuid.UUID      `json:"id"`
	Slug     string         `json:"slug"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Status   string         `json:"status"`
	Branding map[string]any `json:"branding"`
}

type moduleRow struct {
	TenantID  uuid.UUID      `json:"tenant_id"`
	ModuleKey string         `json:"module_key"`
	Enabled   bool           `json:"enabled"`
	Config    map[string]any `json:"config"`
}

// SupabaseRepository reads tenants through the hosted REST gateway.
type SupabaseRepository struct {
	client *supabase.Client
}

// NewSupabaseRepository constructs a REST-backed repository.
func NewSupabaseRepository(client *supabase.Client) *SupabaseRepository {
	if client == nil {
		panic("supabase client is required")
	}
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) FindBySlug(ctx context.Context, slug string) (service.Tenant, error) {
	var rows []tenantRow
	if err := r.client.Select(ctx, "tenants", map[string]string{"slug": supabase.Eq(slug)}, &rows); err != nil {
		return service.Tenant{}, err
	}
	if len(rows) == 0 {
		return service.Tenant{}, service.ErrNotFound
	}
	row := rows[0]
	return service.Tenant{
		ID:       row.ID,
		Slug:     row.Slug,
		Name:     row.Name,
		Type:     service.Type(row.Type),
		Status:   service.Status(row.Status),
		Branding: row.Branding,
	}, nil
}

func (r *SupabaseRepository) ListEnabledModules(ctx context.Context, tenantID uuid.UUID) ([]service.Module, error) {
	var rows []moduleRow
	filters := map[string]string{
		"tenant_id": supabase.Eq(tenantID.String()),
		"enabled":   supabase.Eq("true"),
	}
	if err := r.client.Select(ctx, "tenant_modules", filters, &rows); err != nil {
		return nil, err
	}
	out := make([]service.Module, 0, len(rows))
	for _, row := range rows {
		out = append(out, service.Module{TenantID: row.TenantID, Key: row.ModuleKey, Enabled: row.Enabled, Config: row.Config})
	}
	return out, nil
}
