package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
)

// PostgresRepository adapts the persistence stores to the tenants service.
type PostgresRepository struct {
	tenants *persistence.TenantStore
	modules *persistence.ModuleStore
}

// NewPostgresRepository constructs a repository backed by pgx stores.
func NewPostgresRepository(tenants *persistence.TenantStore, modules *persistence.ModuleStore) *PostgresRepository {
	if tenants == nil || modules == nil {
		panic("tenant and module stores are required")
	}
	return &PostgresRepository{tenants: tenants, modules: modules}
}

func (r *PostgresRepository) FindBySlug(ctx context.Context, slug string) (service.Tenant, error) {
	rec, err := r.tenants.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return service.Tenant{}, service.ErrNotFound
		}
		return service.Tenant{}, err
	}
	return fromRecord(rec)
}

func (r *PostgresRepository) ListEnabledModules(ctx context.Context, tenantID uuid.UUID) ([]service.Module, error) {
	records, err := r.modules.ListEnabled(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]service.Module, 0, len(records))
	for _, rec := range records {
		m := service.Module{TenantID: rec.TenantID, Key: rec.ModuleKey, Enabled: rec.Enabled}
		if len(rec.Config) > 0 {
			if err := json.Unmarshal(rec.Config, &m.Config); err != nil {
				return nil, fmt.Errorf("decode module %s config: %w", rec.ModuleKey, err)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func fromRecord(rec persistence.TenantRecord) (service.Tenant, error) {
	t := service.Tenant{
		ID:     rec.ID,
		Slug:   rec.Slug,
		Name:   rec.Name,
		Type:   service.Type(rec.Type),
		Status: service.Status(rec.Status),
	}
	if len(rec.Branding) > 0 {
		if err := json.Unmarshal(rec.Branding, &t.Branding); err != nil {
			return service.Tenant{}, fmt.Errorf("decode tenant branding: %w", err)
		}
	}
	return t, nil
}
