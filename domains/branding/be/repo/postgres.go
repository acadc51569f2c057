package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
)

// PostgresRepository reads branding inputs through the pgx settings store.
type PostgresRepository struct {
	store *persistence.SettingsStore
}

// NewPostgresRepository constructs a repository.
func NewPostgresRepository(store *persistence.SettingsStore) *PostgresRepository {
	if store == nil {
		panic("settings store is required")
	}
	return &PostgresRepository{store: store}
}

func (r *PostgresRepository) GetPlatformSettings(ctx context.Context) (service.PlatformSettings, error) {
	rec, err := r.store.GetPlatformSettings(ctx)
	if err != nil {
		return service.PlatformSettings{}, translate(err)
	}
	return service.PlatformSettings{
		SiteTitle:       rec.SiteTitle,
		SiteDescription: rec.SiteDescription,
		FaviconURL:      rec.FaviconURL,
		OgImageURL:      rec.OgImageURL,
	}, nil
}

func (r *PostgresRepository) GetSystemConfig(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	raw, err := r.store.GetSystemConfig(ctx, tenantID, key)
	if err != nil {
		return nil, translate(err)
	}
	return raw, nil
}

func translate(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return service.ErrNotFound
	}
	return err
}
