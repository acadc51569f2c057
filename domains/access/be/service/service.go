package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned by directories when a membership row does not exist.
var ErrNotFound = errors.New("membership not found")

// AccessState is the guard state machine.
type AccessState string

const (
	AccessUnchecked AccessState = "unchecked"
	AccessChecking  AccessState = "checking"
	AccessGranted   AccessState = "granted"
	AccessDenied    AccessState = "denied"
)

// Terminal reports whether the check completed.
func (s AccessState) Terminal() bool { return s == AccessGranted || s == AccessDenied }

// Membership links an identity to a tenant. Any role grants tenant access.
type Membership struct {
	TenantID uuid.UUID
	UserID   string
	Role     string
}

// Directory abstracts the access data gateway.
type Directory interface {
	// IsPlatformAdmin is the capability check; it may be unprovisioned and error.
	IsPlatformAdmin(ctx context.Context, userID string) (bool, error)
	// GetMembership returns ErrNotFound when no row exists.
	GetMembership(ctx context.Context, tenantID uuid.UUID, userID string) (Membership, error)
	// IsRowInPlatformAdminsTable probes the platform_admins table directly.
	IsRowInPlatformAdminsTable(ctx context.Context, userID string) (bool, error)
}

// Checker runs one access check. Gateway failures map to states, never to errors.
type Checker struct {
	dir    Directory
	logger *zap.Logger
}

// NewChecker constructs a Checker.
func NewChecker(dir Directory, logger *zap.Logger) *Checker {
	if dir == nil {
		panic("access directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{dir: dir, logger: logger}
}

// Tenant checks platform admin first, then membership, then the admin table probe
// when the membership query fails. A failing capability check does not deny.
// Returns AccessChecking if ctx ends before a decision.
func (c *Checker) Tenant(ctx context.Context, userID string, tenantID uuid.UUID) AccessState {
	logger := c.logger.With(zap.String("user_id", userID), zap.String("tenant_id", tenantID.String()))

	admin, err := c.dir.IsPlatformAdmin(ctx, userID)
	switch {
	case err != nil:
		logger.Warn("platform admin check failed; continuing with membership", zap.Error(err))
	case admin:
		return AccessGranted
	}
	if ctx.Err() != nil {
		return AccessChecking
	}

	_, err = c.dir.GetMembership(ctx, tenantID, userID)
	if err == nil {
		return AccessGranted
	}
	if errors.Is(err, ErrNotFound) {
		return AccessDenied
	}
	if ctx.Err() != nil {
		return AccessChecking
	}

	logger.Warn("membership check failed; probing platform admins table", zap.Error(err))
	return c.probeAdminTable(ctx, logger, userID)
}

// Platform checks the platform admin capability, falling back to the table probe on error.
func (c *Checker) Platform(ctx context.Context, userID string) AccessState {
	logger := c.logger.With(zap.String("user_id", userID))

	admin, err := c.dir.IsPlatformAdmin(ctx, userID)
	if err == nil {
		if admin {
			return AccessGranted
		}
		return AccessDenied
	}
	if ctx.Err() != nil {
		return AccessChecking
	}

	logger.Warn("platform admin check failed; probing platform admins table", zap.Error(err))
	return c.probeAdminTable(ctx, logger, userID)
}

func (c *Checker) probeAdminTable(ctx context.Context, logger *zap.Logger, userID string) AccessState {
	ok, err := c.dir.IsRowInPlatformAdminsTable(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return AccessChecking
		}
		logger.Warn("platform admins table probe failed; denying", zap.Error(err))
		return AccessDenied
	}
	if ok {
		return AccessGranted
	}
	return AccessDenied
}
