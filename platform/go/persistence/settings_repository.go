package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlatformSettingsRecord is the singleton platform_settings row.
type PlatformSettingsRecord struct {
	SiteTitle       *string `db:"site_title"`
	SiteDescription *string `db:"site_description"`
	FaviconURL      *string `db:"favicon_url"`
	OgImageURL      *string `db:"og_image_url"`
}

// SettingsStore provides access to platform_settings and system_configurations.
type SettingsStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewSettingsStore creates a store.
func NewSettingsStore(pool *pgxpool.Pool, schema string) (*SettingsStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &SettingsStore{pool: pool, schema: schema}, nil
}

// GetPlatformSettings returns the singleton row or ErrNotFound.
func (s *SettingsStore) GetPlatformSettings(ctx context.Context) (PlatformSettingsRecord, error) {
	query := fmt.Sprintf(`SELECT site_title, site_description, favicon_url, og_image_url FROM %s WHERE id = 1`,
		qualified(s.schema, "platform_settings"))

	var rec PlatformSettingsRecord
	if err := s.pool.QueryRow(ctx, query).Scan(&rec.SiteTitle, &rec.SiteDescription, &rec.FaviconURL, &rec.OgImageURL); err != nil {
		return PlatformSettingsRecord{}, mapNoRows(err)
	}
	return rec, nil
}

// PutPlatformSettings writes the singleton row.
func (s *SettingsStore) PutPlatformSettings(ctx context.Context, rec PlatformSettingsRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, site_title, site_description, favicon_url, og_image_url)
        VALUES (1, $1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET site_title = EXCLUDED.site_title, site_description = EXCLUDED.site_description,
            favicon_url = EXCLUDED.favicon_url, og_image_url = EXCLUDED.og_image_url, updated_at = now()`,
		qualified(s.schema, "platform_settings"))
	_, err := s.pool.Exec(ctx, query, rec.SiteTitle, rec.SiteDescription, rec.FaviconURL, rec.OgImageURL)
	return err
}

// GetSystemConfig returns the raw config_value for (tenantID, key) or ErrNotFound.
func (s *SettingsStore) GetSystemConfig(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT config_value FROM %s WHERE tenant_id = $1 AND config_key = $2`,
		qualified(s.schema, "system_configurations"))

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, tenantID, key).Scan(&raw); err != nil {
		return nil, mapNoRows(err)
	}
	return raw, nil
}

// PutSystemConfig writes a config row.
func (s *SettingsStore) PutSystemConfig(ctx context.Context, tenantID uuid.UUID, key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (tenant_id, config_key, config_value) VALUES ($1, $2, $3)
        ON CONFLICT (tenant_id, config_key) DO UPDATE SET config_value = EXCLUDED.config_value, updated_at = now()`,
		qualified(s.schema, "system_configurations"))
	_, err := s.pool.Exec(ctx, query, tenantID, key, string(value))
	return err
}
