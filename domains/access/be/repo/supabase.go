package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

type membershipRow struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
}

type platformAdminRow struct {
	UserID string `json:"user_id"`
}

// SupabaseDirectory answers access questions through the hosted REST gateway.
type SupabaseDirectory struct {
	client *supabase.Client
}

// NewSupabaseDirectory constructs a REST-backed directory.
func NewSupabaseDirectory(client *supabase.Client) *SupabaseDirectory {
	if client == nil {
		panic("supabase client is required")
	}
	return &SupabaseDirectory{client: client}
}

func (d *SupabaseDirectory) IsPlatformAdmin(ctx context.Context, userID string) (bool, error) {
	var ok bool
	if err := d.client.RPC(ctx, "is_platform_admin", map[string]string{"p_user_id": userID}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (d *SupabaseDirectory) GetMembership(ctx context.Context, tenantID uuid.UUID, userID string) (service.Membership, error) {
	var rows []membershipRow
	filters := map[string]string{
		"tenant_id": supabase.Eq(tenantID.String()),
		"user_id":   supabase.Eq(userID),
	}
	if err := d.client.Select(ctx, "tenant_memberships", filters, &rows); err != nil {
		return service.Membership{}, err
	}
	if len(rows) == 0 {
		return service.Membership{}, service.ErrNotFound
	}
	return service.Membership{TenantID: rows[0].TenantID, UserID: rows[0].UserID, Role: rows[0].Role}, nil
}

func (d *SupabaseDirectory) IsRowInPlatformAdminsTable(ctx context.Context, userID string) (bool, error) {
	var rows []platformAdminRow
	if err := d.client.Select(ctx, "platform_admins", map[string]string{"user_id": supabase.Eq(userID)}, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
