package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MembershipRecord represents a tenant_memberships row.
type MembershipRecord struct {
	TenantID uuid.UUID `db:"tenant_id"`
	UserID   string    `db:"user_id"`
	Role     string    `db:"role"`
}

// AccessStore provides access to tenant_memberships, platform_admins and the
// is_platform_admin capability function.
type AccessStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewAccessStore creates a store.
func NewAccessStore(pool *pgxpool.Pool, schema string) (*AccessStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &AccessStore{pool: pool, schema: schema}, nil
}

// IsPlatformAdmin calls the capability function. It errors (SQLSTATE 42883) when the
// function was never provisioned.
func (s *AccessStore) IsPlatformAdmin(ctx context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT %s($1)`, qualified(s.schema, "is_platform_admin"))
	var ok bool
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// PlatformAdminExists probes the platform_admins table directly.
func (s *AccessStore) PlatformAdminExists(ctx context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1)`, qualified(s.schema, "platform_admins"))
	var ok bool
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// GetMembership returns the membership row or ErrNotFound.
func (s *AccessStore) GetMembership(ctx context.Context, tenantID uuid.UUID, userID string) (MembershipRecord, error) {
	query := fmt.Sprintf(`SELECT tenant_id, user_id, role FROM %s WHERE tenant_id = $1 AND user_id = $2`,
		qualified(s.schema, "tenant_memberships"))

	var rec MembershipRecord
	if err := s.pool.QueryRow(ctx, query, tenantID, userID).Scan(&rec.TenantID, &rec.UserID, &rec.Role); err != nil {
		return MembershipRecord{}, mapNoRows(err)
	}
	return rec, nil
}

// PutMembership writes a membership row.
func (s *AccessStore) PutMembership(ctx context.Context, rec MembershipRecord) error {
	query := fmt.Sprintf(`INSERT INTO %s (tenant_id, user_id, role) VALUES ($1, $2, $3)
        ON CONFLICT (tenant_id, user_id) DO UPDATE SET role = EXCLUDED.role`, qualified(s.schema, "tenant_memberships"))
	_, err := s.pool.Exec(ctx, query, rec.TenantID, rec.UserID, rec.Role)
	return err
}

// PutPlatformAdmin writes a platform_admins row.
func (s *AccessStore) PutPlatformAdmin(ctx context.Context, userID, role string) error {
	query := fmt.Sprintf(`INSERT INTO %s (user_id, role) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`, qualified(s.schema, "platform_admins"))
	_, err := s.pool.Exec(ctx, query, userID, role)
	return err
}
