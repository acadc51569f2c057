package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/access/be/service"
)

type membershipKey struct {
	tenantID uuid.UUID
	userID   string
}

// MemoryDirectory is an in-memory directory for tests and local development.
type MemoryDirectory struct {
	mu          sync.RWMutex
	admins      map[string]string
	memberships map[membershipKey]string
}

// NewMemoryDirectory constructs an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{admins: make(map[string]string), memberships: make(map[membershipKey]string)}
}

// PutPlatformAdmin grants platform admin to userID.
func (d *MemoryDirectory) PutPlatformAdmin(userID, role string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.admins[userID] = role
}

// PutMembership links userID to tenantID.
func (d *MemoryDirectory) PutMembership(tenantID uuid.UUID, userID, role string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.memberships[membershipKey{tenantID, userID}] = role
}

func (d *MemoryDirectory) IsPlatformAdmin(ctx context.Context, userID string) (bool, error) {
	return d.IsRowInPlatformAdminsTable(ctx, userID)
}

func (d *MemoryDirectory) GetMembership(_ context.Context, tenantID uuid.UUID, userID string) (service.Membership, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	role, ok := d.memberships[membershipKey{tenantID, userID}]
	if !ok {
		return service.Membership{}, service.ErrNotFound
	}
	return service.Membership{TenantID: tenantID, UserID: userID, Role: role}, nil
}

func (d *MemoryDirectory) IsRowInPlatformAdminsTable(_ context.Context, userID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.admins[userID]
	return ok, nil
}
