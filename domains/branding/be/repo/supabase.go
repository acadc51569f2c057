package repo

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

type systemConfigRow struct {
	ConfigValue json.RawMessage `json:"config_value"`
}

// SupabaseRepository reads branding inputs through the hosted REST gateway.
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

func (r *SupabaseRepository) GetPlatformSettings(ctx context.Context) (service.PlatformSettings, error) {
	var rows []service.PlatformSettings
	if err := r.client.Select(ctx, "platform_settings", nil, &rows); err != nil {
		return service.PlatformSettings{}, err
	}
	if len(rows) == 0 {
		return service.PlatformSettings{}, service.ErrNotFound
	}
	return rows[0], nil
}

func (r *SupabaseRepository) GetSystemConfig(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	var rows []systemConfigRow
	filters := map[string]string{
		"tenant_id":  supabase.Eq(tenantID.String()),
		"config_key": supabase.Eq(key),
	}
	if err := r.client.Select(ctx, "system_configurations", filters, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0].ConfigValue) == 0 || string(rows[0].ConfigValue) == "null" {
		return nil, service.ErrNotFound
	}
	return rows[0].ConfigValue, nil
}
