package tenantcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	accessrepo "github.com/zenGate-Global/rastro-saas/domains/access/be/repo"
	accessservice "github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	brandingrepo "github.com/zenGate-Global/rastro-saas/domains/branding/be/repo"
	brandingservice "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	tenantsrepo "github.com/zenGate-Global/rastro-saas/domains/tenants/be/repo"
	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
)

type event struct {
	Event string          `json:"event"`
	Value json.RawMessage `json:"value"`
}

type fixture struct {
	config    WatchConfig
	acmeID    uuid.UUID
	directory *accessrepo.MemoryDirectory
}

func newFixture(t *testing.T) fixture {
	logger := zaptest.NewLogger(t)

	tenants := tenantsrepo.NewMemoryRepository()
	acmeID := uuid.New()
	tenants.Put(service.Tenant{ID: acmeID, Slug: "acme", Name: "Acme", Type: service.TypeIG, Status: service.StatusActive,
		Branding: map[string]any{"primary_color": "#111111"}})
	tenants.PutModule(service.Module{TenantID: acmeID, Key: "traceability", Enabled: true})

	branding := brandingrepo.NewMemoryRepository()
	title := "Rastro Portal"
	branding.SetPlatformSettings(brandingservice.PlatformSettings{SiteTitle: &title})

	directory := accessrepo.NewMemoryDirectory()
	return fixture{
		config: WatchConfig{
			Resolver: service.NewResolver(tenants, logger),
			Composer: brandingservice.NewComposer(branding, nil, logger),
			Checker:  accessservice.NewChecker(directory, logger),
		},
		acmeID:    acmeID,
		directory: directory,
	}
}

func runWatch(t *testing.T, cfg WatchConfig, input string) []event {
	var out bytes.Buffer
	require.NoError(t, Watch(context.Background(), strings.NewReader(input), &out, cfg))

	var events []event
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var e event
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		events = append(events, e)
	}
	return events
}

func last[T any](t *testing.T, events []event, kind string) (T, bool) {
	var v T
	found := false
	for _, e := range events {
		if e.Event == kind {
			require.NoError(t, json.Unmarshal(e.Value, &v))
			found = true
		}
	}
	return v, found
}

func TestWatchPrintsTransitions(t *testing.T) {
	f := newFixture(t)
	cfg := f.config
	cfg.Checker = nil

	events := runWatch(t, cfg, "acme\n")

	lastTenant, ok := last[StateView](t, events, "tenant")
	require.True(t, ok)
	require.Equal(t, service.PhaseResolved, lastTenant.Phase)
	require.Equal(t, []string{"traceability"}, lastTenant.Modules)

	lastBranding, ok := last[brandingservice.Config](t, events, "branding")
	require.True(t, ok)
	require.Equal(t, "#111111", lastBranding.PrimaryColor)

	_, ok = last[accessservice.Decision](t, events, "access")
	require.False(t, ok)
}

func TestWatchFollowsTenantAccess(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		wantView accessservice.View
		wantName string
	}{
		{name: "member renders", user: "member", wantView: accessservice.ViewRender},
		{name: "outsider is denied", user: "outsider", wantView: accessservice.ViewDenied, wantName: "Acme"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.directory.PutMembership(f.acmeID, "member", "producer")
			cfg := f.config
			cfg.UserID = tc.user

			events := runWatch(t, cfg, "acme\n")

			decision, ok := last[accessservice.Decision](t, events, "access")
			require.True(t, ok)
			require.Equal(t, tc.wantView, decision.View)
			require.Equal(t, tc.wantName, decision.TenantName)
		})
	}
}

func TestWatchFollowsPlatformAccess(t *testing.T) {
	f := newFixture(t)
	f.directory.PutPlatformAdmin("root", "owner")

	cfg := f.config
	cfg.UserID = "root"
	decision, ok := last[accessservice.Decision](t, runWatch(t, cfg, "platform\n"), "access")
	require.True(t, ok)
	require.Equal(t, accessservice.ViewRender, decision.View)

	cfg.UserID = "member"
	decision, ok = last[accessservice.Decision](t, runWatch(t, cfg, "platform\n"), "access")
	require.True(t, ok)
	require.Equal(t, accessservice.ViewRestricted, decision.View)
}

func TestToStateViewCarriesError(t *testing.T) {
	v := ToStateView(service.State{Phase: service.PhaseNotFound, Slug: "ghost", Err: service.ErrNotFound})
	require.Equal(t, "tenant not found", v.Error)
	require.Empty(t, v.Modules)
}
