package repo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepository()
	id := uuid.New()
	repo.Put(service.Tenant{ID: id, Slug: "acme", Name: "Acme", Status: service.StatusActive})
	repo.PutModule(service.Module{TenantID: id, Key: "traceability", Enabled: true})
	repo.PutModule(service.Module{TenantID: id, Key: "audits", Enabled: false})

	got, err := repo.FindBySlug(context.Background(), "acme")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	_, err = repo.FindBySlug(context.Background(), "other")
	require.ErrorIs(t, err, service.ErrNotFound)

	repo.Put(service.Tenant{ID: id, Slug: "acme-2", Name: "Acme"})
	_, err = repo.FindBySlug(context.Background(), "acme")
	require.ErrorIs(t, err, service.ErrNotFound)

	modules, err := repo.ListEnabledModules(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	require.Equal(t, "traceability", modules[0].Key)
}

func TestFromRecordDecodesBranding(t *testing.T) {
	t.Parallel()

	tn, err := fromRecord(persistence.TenantRecord{ID: uuid.New(), Slug: "acme", Status: "suspended", Branding: []byte(`{"logo_url":"x"}`)})
	require.NoError(t, err)
	require.Equal(t, service.StatusSuspended, tn.Status)
	require.Equal(t, "x", tn.Branding["logo_url"])

	_, err = fromRecord(persistence.TenantRecord{Branding: []byte(`{`)})
	require.Error(t, err)
}

func TestSupabaseRepositoryNotFoundOnEmptyArray(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := supabase.New(supabase.Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	_, err = NewSupabaseRepository(client).FindBySlug(context.Background(), "ghost")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSupabaseRepositoryDecodesTenant(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rest/v1/tenants":
			_, _ = w.Write([]byte(`[{"id":"` + id.String() + `","slug":"acme","name":"Acme","type":"ig","status":"active","branding":{"primaryColor":"#fff"}}]`))
		case "/rest/v1/tenant_modules":
			require.Equal(t, "eq.true", r.URL.Query().Get("enabled"))
			_, _ = w.Write([]byte(`[{"tenant_id":"` + id.String() + `","module_key":"traceability","enabled":true}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := supabase.New(supabase.Config{URL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)
	repo := NewSupabaseRepository(client)

	tn, err := repo.FindBySlug(context.Background(), "acme")
	require.NoError(t, err)
	require.Equal(t, id, tn.ID)
	require.Equal(t, service.TypeIG, tn.Type)
	require.Equal(t, "#fff", tn.Branding["primaryColor"])

	modules, err := repo.ListEnabledModules(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, modules, 1)
}
