package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	accessrepo "github.com/zenGate-Global/rastro-saas/domains/access/be/repo"
	accessservice "github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	brandingcache "github.com/zenGate-Global/rastro-saas/domains/branding/be/cache"
	brandingrepo "github.com/zenGate-Global/rastro-saas/domains/branding/be/repo"
	brandingservice "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	tenantsrepo "github.com/zenGate-Global/rastro-saas/domains/tenants/be/repo"
	tenantsservice "github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

// gateway bundles the per-entity repositories of one data backend.
type gateway struct {
	tenants   tenantsservice.Repository
	branding  brandingservice.Repository
	directory accessservice.Directory
	close     func()
}

func buildGateway(ctx context.Context, cfg config, logger *zap.Logger) (gateway, error) {
	switch cfg.GatewayBackend {
	case "postgres":
		return buildPostgresGateway(ctx, cfg)
	case "supabase":
		client, err := supabase.New(supabase.Config{
			URL:        cfg.SupabaseURL,
			APIKey:     cfg.SupabaseServiceKey,
			Timeout:    cfg.GatewayTimeout,
			RetryCount: 1,
		}, logger.Named("supabase"))
		if err != nil {
			return gateway{}, err
		}
		return gateway{
			tenants:   tenantsrepo.NewSupabaseRepository(client),
			branding:  brandingrepo.NewSupabaseRepository(client),
			directory: accessrepo.NewSupabaseDirectory(client),
			close:     func() {},
		}, nil
	default:
		return gateway{}, fmt.Errorf("invalid GATEWAY_BACKEND %q (use postgres or supabase)", cfg.GatewayBackend)
	}
}

func buildPostgresGateway(ctx context.Context, cfg config) (gateway, error) {
	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
	if err != nil {
		return gateway{}, fmt.Errorf("init postgres pool: %w", err)
	}
	fail := func(err error) (gateway, error) {
		persistence.ClosePool(pool)
		return gateway{}, err
	}

	tenantStore, err := persistence.NewTenantStore(pool, cfg.DatabaseSchema)
	if err != nil {
		return fail(err)
	}
	moduleStore, err := persistence.NewModuleStore(pool, cfg.DatabaseSchema)
	if err != nil {
		return fail(err)
	}
	settingsStore, err := persistence.NewSettingsStore(pool, cfg.DatabaseSchema)
	if err != nil {
		return fail(err)
	}
	accessStore, err := persistence.NewAccessStore(pool, cfg.DatabaseSchema)
	if err != nil {
		return fail(err)
	}

	return gateway{
		tenants:   tenantsrepo.NewPostgresRepository(tenantStore, moduleStore),
		branding:  brandingrepo.NewPostgresRepository(settingsStore),
		directory: accessrepo.NewPostgresDirectory(accessStore),
		close:     func() { persistence.ClosePool(pool) },
	}, nil
}

// buildBrandingCache returns a Redis-backed cache when REDIS_URL is set, else a process-local one.
func buildBrandingCache(ctx context.Context, cfg config, logger *zap.Logger) (brandingservice.Cache, func()) {
	if cfg.RedisURL == "" {
		return brandingcache.NewMemory(cfg.BrandingCacheTTL), func() {}
	}
	client, err := brandingcache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable; using in-process branding cache", zap.Error(err))
		return brandingcache.NewMemory(cfg.BrandingCacheTTL), func() {}
	}
	shared := brandingcache.NewShared(brandingcache.NewRedisKVStore(client), cfg.BrandingCacheTTL, logger.Named("branding-cache"))
	return shared, func() { _ = client.Close() }
}
