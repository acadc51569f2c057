package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleRecord represents a tenant_modules row.
type ModuleRecord struct {
	TenantID  uuid.UUID `db:"tenant_id"`
	ModuleKey string    `db:"module_key"`
	Enabled   bool      `db:"enabled"`
	Config    []byte    `db:"config"`
}

// ModuleStore provides access to the tenant_modules table.
type ModuleStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewModuleStore creates a store.
func NewModuleStore(pool *pgxpool.Pool, schema string) (*ModuleStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &ModuleStore{pool: pool, schema: schema}, nil
}

// ListEnabled returns the enabled modules of a tenant ordered by key.
func (s *ModuleStore) ListEnabled(ctx context.Context, tenantID uuid.UUID) ([]ModuleRecord, error) {
	query := fmt.Sprintf(`SELECT tenant_id, module_key, enabled, config FROM %s
        WHERE tenant_id = $1 AND enabled = TRUE ORDER BY module_key`, qualified(s.schema, "tenant_modules"))

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ModuleRecord
	for rows.Next() {
		var rec ModuleRecord
		if err := rows.Scan(&rec.TenantID, &rec.ModuleKey, &rec.Enabled, &rec.Config); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Upsert writes a module flag.
func (s *ModuleStore) Upsert(ctx context.Context, rec ModuleRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (tenant_id, module_key, enabled, config) VALUES ($1, $2, $3, $4)
        ON CONFLICT (tenant_id, module_key) DO UPDATE SET enabled = EXCLUDED.enabled, config = EXCLUDED.config`,
		qualified(s.schema, "tenant_modules"))
	_, err := s.pool.Exec(ctx, query, rec.TenantID, rec.ModuleKey, rec.Enabled, nullableJSON(rec.Config))
	return err
}
