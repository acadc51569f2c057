package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	tenantsvc "github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
)

type stubRepo struct {
	platformFn func(ctx context.Context) (PlatformSettings, error)
	configFn   func(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error)

	mu            sync.Mutex
	platformCalls int
	configCalls   int
}

func (s *stubRepo) GetPlatformSettings(ctx context.Context) (PlatformSettings, error) {
	s.mu.Lock()
	s.platformCalls++
	s.mu.Unlock()
	return s.platformFn(ctx)
}

func (s *stubRepo) GetSystemConfig(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error) {
	s.mu.Lock()
	s.configCalls++
	s.mu.Unlock()
	if s.configFn == nil {
		return nil, ErrNotFound
	}
	return s.configFn(ctx, tenantID, key)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]Config
}

func (c *mapCache) Get(_ context.Context, key string) (Config, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg, ok := c.data[key]
	return cfg, ok
}

func (c *mapCache) Set(_ context.Context, key string, cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]Config)
	}
	c.data[key] = cfg
}

func platformOK(context.Context) (PlatformSettings, error) { return platformFixture(), nil }

func TestLoadActiveTenantWithoutOverrideEqualsPlatformDefaults(t *testing.T) {
	repo := &stubRepo{platformFn: platformOK}
	c := NewComposer(repo, nil, zaptest.NewLogger(t))

	tenant := &tenantsvc.Tenant{ID: uuid.New(), Slug: "acme", Status: tenantsvc.StatusActive}
	require.Equal(t, Merge(platformFixture(), nil), c.Load(context.Background(), tenant))
	require.Equal(t, c.LoadPlatform(context.Background()), c.Load(context.Background(), tenant))
}

func TestLoadPrefersSystemConfigOverTenantColumn(t *testing.T) {
	repo := &stubRepo{
		platformFn: platformOK,
		configFn: func(_ context.Context, _ uuid.UUID, key string) ([]byte, error) {
			require.Equal(t, BrandingSettingsKey, key)
			return []byte(`{"siteTitle":"From settings","logo_url":"settings.png"}`), nil
		},
	}
	c := NewComposer(repo, nil, zaptest.NewLogger(t))

	tenant := &tenantsvc.Tenant{ID: uuid.New(), Branding: map[string]any{"site_title": "From column"}}
	cfg := c.Load(context.Background(), tenant)
	require.Equal(t, "From settings", cfg.SiteTitle)
	require.Equal(t, "settings.png", *cfg.LogoURL)
}

func TestLoadUsesTenantColumnWhenSettingsInvalid(t *testing.T) {
	repo := &stubRepo{
		platformFn: platformOK,
		configFn: func(context.Context, uuid.UUID, string) ([]byte, error) {
			return []byte(`{"siteTitle":false}`), nil
		},
	}
	c := NewComposer(repo, nil, zaptest.NewLogger(t))

	cfg := c.Load(context.Background(), &tenantsvc.Tenant{ID: uuid.New(), Branding: map[string]any{"siteTitle": "Column"}})
	require.Equal(t, "Column", cfg.SiteTitle)
}

func TestLoadDegradesToPlatformThenStatic(t *testing.T) {
	configErr := errors.New("permission denied")
	repo := &stubRepo{
		platformFn: platformOK,
		configFn:   func(context.Context, uuid.UUID, string) ([]byte, error) { return nil, configErr },
	}
	c := NewComposer(repo, nil, zaptest.NewLogger(t))
	tenant := &tenantsvc.Tenant{ID: uuid.New(), Branding: map[string]any{"siteTitle": "Acme"}}

	require.Equal(t, Merge(platformFixture(), nil), c.Load(context.Background(), tenant))

	repo.platformFn = func(context.Context) (PlatformSettings, error) { return PlatformSettings{}, errors.New("down") }
	require.Equal(t, Defaults(), c.Load(context.Background(), tenant))
}

func TestLoadCachesByTenantID(t *testing.T) {
	repo := &stubRepo{platformFn: platformOK}
	cache := &mapCache{}
	c := NewComposer(repo, cache, zaptest.NewLogger(t))
	tenant := &tenantsvc.Tenant{ID: uuid.New(), Branding: map[string]any{"siteTitle": "Acme"}}

	first := c.Load(context.Background(), tenant)
	second := c.Load(context.Background(), tenant)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.platformCalls)

	_, ok := cache.Get(context.Background(), tenant.ID.String())
	require.True(t, ok)
}

func TestLoadDoesNotCacheDegradedResult(t *testing.T) {
	repo := &stubRepo{platformFn: func(context.Context) (PlatformSettings, error) { return PlatformSettings{}, errors.New("down") }}
	cache := &mapCache{}
	c := NewComposer(repo, cache, zaptest.NewLogger(t))

	c.Load(context.Background(), &tenantsvc.Tenant{ID: uuid.New()})
	require.Empty(t, cache.data)
}

func TestSessionDiscardsStaleTenantLoad(t *testing.T) {
	slowID := uuid.New()
	release := make(chan struct{})
	repo := &stubRepo{
		platformFn: platformOK,
		configFn: func(ctx context.Context, id uuid.UUID, _ string) ([]byte, error) {
			if id == slowID {
				select {
				case <-release:
				case <-ctx.Done():
				}
				return []byte(`{"siteTitle":"Slow"}`), nil
			}
			return []byte(`{"siteTitle":"Fast"}`), nil
		},
	}
	s := NewSession(NewComposer(repo, nil, zaptest.NewLogger(t)))
	defer s.Close()

	slow := s.Apply(context.Background(), tenantsvc.State{Phase: tenantsvc.PhaseResolved, Tenant: &tenantsvc.Tenant{ID: slowID}})
	fastID := uuid.New()
	fast := s.Apply(context.Background(), tenantsvc.State{Phase: tenantsvc.PhaseResolved, Tenant: &tenantsvc.Tenant{ID: fastID}})
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, slow.Wait(ctx))
	require.NoError(t, fast.Wait(ctx))

	require.Equal(t, "Fast", s.Config().SiteTitle)
	require.Equal(t, fastID.String(), s.LoadedFor())
}

func TestSessionDropsLoadWhileNextSlugResolves(t *testing.T) {
	tenantA := uuid.New()
	started := make(chan struct{})
	release := make(chan struct{})
	repo := &stubRepo{
		platformFn: platformOK,
		configFn: func(ctx context.Context, _ uuid.UUID, _ string) ([]byte, error) {
			close(started)
			<-release
			return []byte(`{"siteTitle":"Tenant A"}`), nil
		},
	}
	s := NewSession(NewComposer(repo, nil, zaptest.NewLogger(t)))
	defer s.Close()

	load := s.Apply(context.Background(), tenantsvc.State{Phase: tenantsvc.PhaseResolved, Slug: "a", Tenant: &tenantsvc.Tenant{ID: tenantA}})
	<-started

	// navigation to "b" is still resolving when A's fetch returns
	require.Nil(t, s.Apply(context.Background(), tenantsvc.State{Phase: tenantsvc.PhaseLoading, Slug: "b"}))
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, load.Wait(ctx))

	require.Equal(t, Defaults(), s.Config())
	require.Empty(t, s.LoadedFor())
}

func TestSessionResetsWhenTenantCleared(t *testing.T) {
	repo := &stubRepo{
		platformFn: platformOK,
		configFn: func(context.Context, uuid.UUID, string) ([]byte, error) {
			return []byte(`{"siteTitle":"Acme"}`), nil
		},
	}
	s := NewSession(NewComposer(repo, nil, zaptest.NewLogger(t)))
	defer s.Close()

	var seen []string
	unsubscribe := s.Subscribe(func(cfg Config) { seen = append(seen, cfg.SiteTitle) })
	defer unsubscribe()

	task := s.Apply(context.Background(), tenantsvc.State{Phase: tenantsvc.PhaseResolved, Tenant: &tenantsvc.Tenant{ID: uuid.New()}})
	require.NoError(t, task.Wait(context.Background()))
	require.Equal(t, "Acme", s.Config().SiteTitle)

	// A resolution in flight keeps the previous branding.
	require.Nil(t, s.Apply(context.Background(), tenantsvc.State{Phase: tenantsvc.PhaseLoading}))
	require.Equal(t, "Acme", s.Config().SiteTitle)

	require.Nil(t, s.Apply(context.Background(), tenantsvc.State{Phase: tenantsvc.PhaseNotFound}))
	require.Equal(t, Defaults(), s.Config())
	require.Equal(t, []string{"Acme", PlatformName}, seen)
}
