package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTenantStoreLifecycle(t *testing.T) {
	pool := mustTestPool(t, "rastro_tenants_test")
	ctx := context.Background()

	tenants, err := NewTenantStore(pool, "rastro_tenants_test")
	require.NoError(t, err)
	modules, err := NewModuleStore(pool, "rastro_tenants_test")
	require.NoError(t, err)

	id := uuid.New()
	rec, err := tenants.Upsert(ctx, TenantRecord{
		ID:       id,
		Slug:     "  Acme Coop ",
		Name:     "Acme Coop",
		Type:     "ig",
		Status:   "active",
		Branding: []byte(`{"primary_color":"#112233"}`),
	})
	require.NoError(t, err)
	require.Equal(t, "acme-coop", rec.Slug)
	require.JSONEq(t, `{"primary_color":"#112233"}`, string(rec.Branding))

	got, err := tenants.GetBySlug(ctx, "acme-coop")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	_, err = tenants.GetBySlug(ctx, "ACME-COOP")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, tenants.UpdateBranding(ctx, id, nil))
	got, err = tenants.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, got.Branding)

	require.ErrorIs(t, tenants.UpdateBranding(ctx, uuid.New(), nil), ErrNotFound)

	require.NoError(t, modules.Upsert(ctx, ModuleRecord{TenantID: id, ModuleKey: "traceability", Enabled: true}))
	require.NoError(t, modules.Upsert(ctx, ModuleRecord{TenantID: id, ModuleKey: "audits", Enabled: false}))
	require.NoError(t, modules.Upsert(ctx, ModuleRecord{TenantID: id, ModuleKey: "batches", Enabled: true}))

	enabled, err := modules.ListEnabled(ctx, id)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	require.Equal(t, "batches", enabled[0].ModuleKey)
	require.Equal(t, "traceability", enabled[1].ModuleKey)
}

func TestSettingsAndAccessStores(t *testing.T) {
	pool := mustTestPool(t, "rastro_access_test")
	ctx := context.Background()

	tenants, err := NewTenantStore(pool, "rastro_access_test")
	require.NoError(t, err)
	settings, err := NewSettingsStore(pool, "rastro_access_test")
	require.NoError(t, err)
	access, err := NewAccessStore(pool, "rastro_access_test")
	require.NoError(t, err)
	og, err := NewOGMetaStore(pool, "rastro_access_test")
	require.NoError(t, err)

	_, err = settings.GetPlatformSettings(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	title := "Rastro"
	image := "https://cdn.example.com/og.png"
	require.NoError(t, settings.PutPlatformSettings(ctx, PlatformSettingsRecord{SiteTitle: &title, OgImageURL: &image}))
	ps, err := settings.GetPlatformSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "Rastro", *ps.SiteTitle)
	require.Nil(t, ps.SiteDescription)

	id := uuid.New()
	_, err = tenants.Upsert(ctx, TenantRecord{ID: id, Slug: "acme", Name: "Acme", Type: "ig", Status: "active"})
	require.NoError(t, err)

	_, err = settings.GetSystemConfig(ctx, id, "branding_settings")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, settings.PutSystemConfig(ctx, id, "branding_settings", []byte(`{"siteTitle":"Acme"}`)))
	raw, err := settings.GetSystemConfig(ctx, id, "branding_settings")
	require.NoError(t, err)
	require.JSONEq(t, `{"siteTitle":"Acme"}`, string(raw))

	ok, err := access.IsPlatformAdmin(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, access.PutPlatformAdmin(ctx, "user-1", "superadmin"))
	ok, err = access.IsPlatformAdmin(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = access.PlatformAdminExists(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = access.GetMembership(ctx, id, "user-2")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, access.PutMembership(ctx, MembershipRecord{TenantID: id, UserID: "user-2", Role: "member"}))
	m, err := access.GetMembership(ctx, id, "user-2")
	require.NoError(t, err)
	require.Equal(t, "member", m.Role)

	meta, err := og.Get(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, meta.Title)
	require.Equal(t, "Acme", *meta.Title)

	_, err = og.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
