package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
)

// PostgresDirectory answers access questions from the pgx access store.
type PostgresDirectory struct {
	store *persistence.AccessStore
}

// NewPostgresDirectory constructs a directory.
func NewPostgresDirectory(store *persistence.AccessStore) *PostgresDirectory {
	if store == nil {
		panic("access store is required")
	}
	return &PostgresDirectory{store: store}
}

func (d *PostgresDirectory) IsPlatformAdmin(ctx context.Context, userID string) (bool, error) {
	return d.store.IsPlatformAdmin(ctx, userID)
}

func (d *PostgresDirectory) GetMembership(ctx context.Context, tenantID uuid.UUID, userID string) (service.Membership, error) {
	rec, err := d.store.GetMembership(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return service.Membership{}, service.ErrNotFound
		}
		return service.Membership{}, err
	}
	return service.Membership{TenantID: rec.TenantID, UserID: rec.UserID, Role: rec.Role}, nil
}

func (d *PostgresDirectory) IsRowInPlatformAdminsTable(ctx context.Context, userID string) (bool, error) {
	return d.store.PlatformAdminExists(ctx, userID)
}
