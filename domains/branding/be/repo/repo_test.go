package repo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()
	_, err := repo.GetPlatformSettings(context.Background())
	require.ErrorIs(t, err, service.ErrNotFound)

	title := "Rastro"
	repo.SetPlatformSettings(service.PlatformSettings{SiteTitle: &title})
	ps, err := repo.GetPlatformSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Rastro", *ps.SiteTitle)

	id := uuid.New()
	_, err = repo.GetSystemConfig(context.Background(), id, service.BrandingSettingsKey)
	require.ErrorIs(t, err, service.ErrNotFound)
	repo.PutSystemConfig(id, service.BrandingSettingsKey, []byte(`{}`))
	raw, err := repo.GetSystemConfig(context.Background(), id, service.BrandingSettingsKey)
	require.NoError(t, err)
	require.Equal(t, `{}`, string(raw))
}

func TestSupabaseRepository(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rest/v1/platform_settings":
			_, _ = w.Write([]byte(`[{"site_title":"Rastro","favicon_url":null}]`))
		case "/rest/v1/system_configurations":
			require.Equal(t, "eq."+tenantID.String(), r.URL.Query().Get("tenant_id"))
			if r.URL.Query().Get("config_key") == "eq.branding_settings" {
				_, _ = w.Write([]byte(`[{"config_value":{"logoUrl":"l.png"}}]`))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	client, err := supabase.New(supabase.Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)
	repo := NewSupabaseRepository(client)

	ps, err := repo.GetPlatformSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Rastro", *ps.SiteTitle)
	require.Nil(t, ps.FaviconURL)

	raw, err := repo.GetSystemConfig(context.Background(), tenantID, service.BrandingSettingsKey)
	require.NoError(t, err)
	require.JSONEq(t, `{"logoUrl":"l.png"}`, string(raw))

	_, err = repo.GetSystemConfig(context.Background(), tenantID, "other")
	require.ErrorIs(t, err, service.ErrNotFound)
}
