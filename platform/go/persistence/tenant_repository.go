package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantRecord represents a tenants row. Branding is the raw jsonb column.
type TenantRecord struct {
	ID        uuid.UUID `db:"id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Status    string    `db:"status"`
	Branding  []byte    `db:"branding"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TenantStore provides access to the tenants table.
type TenantStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewTenantStore creates a store; assumes BootstrapSchema already created the table.
func NewTenantStore(pool *pgxpool.Pool, schema string) (*TenantStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &TenantStore{pool: pool, schema: schema}, nil
}

const tenantColumns = `id, slug, name, type, status, branding, created_at, updated_at`

// GetBySlug returns the tenant with an exact slug match.
func (s *TenantStore) GetBySlug(ctx context.Context, slug string) (TenantRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, tenantColumns, qualified(s.schema, "tenants"))
	return scanTenantRecord(s.pool.QueryRow(ctx, query, slug))
}

// Get returns the tenant by id.
func (s *TenantStore) Get(ctx context.Context, id uuid.UUID) (TenantRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, tenantColumns, qualified(s.schema, "tenants"))
	return scanTenantRecord(s.pool.QueryRow(ctx, query, id))
}

// Upsert inserts or replaces a tenant keyed by id. The slug is normalized first.
func (s *TenantStore) Upsert(ctx context.Context, rec TenantRecord) (TenantRecord, error) {
	if rec.ID == uuid.Nil {
		return TenantRecord{}, errors.New("tenant id is required")
	}
	slug, err := NormalizeSlug(rec.Slug)
	if err != nil {
		return TenantRecord{}, err
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (id, slug, name, type, status, branding)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            slug = EXCLUDED.slug,
            name = EXCLUDED.name,
            type = EXCLUDED.type,
            status = EXCLUDED.status,
            branding = EXCLUDED.branding,
            updated_at = now()
        RETURNING %s
    `, qualified(s.schema, "tenants"), tenantColumns)

	return scanTenantRecord(s.pool.QueryRow(ctx, query,
		rec.ID, slug, rec.Name, rec.Type, rec.Status, nullableJSON(rec.Branding),
	))
}

// UpdateBranding replaces the tenant.branding column.
func (s *TenantStore) UpdateBranding(ctx context.Context, id uuid.UUID, branding []byte) error {
	query := fmt.Sprintf(`UPDATE %s SET branding = $2, updated_at = now() WHERE id = $1`, qualified(s.schema, "tenants"))
	tag, err := s.pool.Exec(ctx, query, id, nullableJSON(branding))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTenantRecord(row pgx.Row) (TenantRecord, error) {
	var rec TenantRecord
	if err := row.Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.Type, &rec.Status, &rec.Branding, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return TenantRecord{}, mapNoRows(err)
	}
	return rec, nil
}

// nullableJSON stores empty payloads as SQL NULL rather than invalid jsonb.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
