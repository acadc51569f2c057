package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	tenantsvc "github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
)

// ErrNotFound is returned by repositories when a settings row does not exist.
var ErrNotFound = errors.New("branding settings not found")

// BrandingSettingsKey is the system_configurations key holding structured tenant branding.
const BrandingSettingsKey = "branding_settings"

// Repository abstracts the branding data gateway.
type Repository interface {
	GetPlatformSettings(ctx context.Context) (PlatformSettings, error)
	GetSystemConfig(ctx context.Context, tenantID uuid.UUID, key string) ([]byte, error)
}

// Cache stores composed branding keyed by tenant id.
type Cache interface {
	Get(ctx context.Context, key string) (Config, bool)
	Set(ctx context.Context, key string, cfg Config)
}

// Composer loads and composes branding for tenants. It never returns errors.
type Composer struct {
	repo   Repository
	cache  Cache
	logger *zap.Logger
}

// NewComposer constructs a Composer. cache may be nil.
func NewComposer(repo Repository, cache Cache, logger *zap.Logger) *Composer {
	if repo == nil {
		panic("branding repo is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{repo: repo, cache: cache, logger: logger}
}

// LoadPlatform returns platform-only branding, or the static defaults if settings are unavailable.
func (c *Composer) LoadPlatform(ctx context.Context) Config {
	ps, err := c.platformSettings(ctx)
	if err != nil {
		c.logger.Warn("platform settings unavailable; using static branding", zap.Error(err))
		return Defaults()
	}
	return Merge(ps, nil)
}

// Load composes branding for t. A nil tenant yields platform branding.
func (c *Composer) Load(ctx context.Context, t *tenantsvc.Tenant) Config {
	if t == nil {
		return c.LoadPlatform(ctx)
	}

	key := t.ID.String()
	if c.cache != nil {
		if cfg, ok := c.cache.Get(ctx, key); ok {
			return cfg
		}
	}

	var (
		platform PlatformSettings
		stored   []byte
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps, err := c.platformSettings(gctx)
		platform = ps
		return err
	})
	g.Go(func() error {
		raw, err := c.repo.GetSystemConfig(gctx, t.ID, BrandingSettingsKey)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		stored = raw
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Warn("tenant branding unavailable; falling back to platform branding",
			zap.String("tenant_id", key), zap.Error(err))
		return c.LoadPlatform(ctx)
	}

	cfg := Merge(platform, c.override(t, stored))
	if c.cache != nil && ctx.Err() == nil {
		c.cache.Set(ctx, key, cfg)
	}
	return cfg
}

// override prefers the structured branding_settings row over the tenant.branding column.
func (c *Composer) override(t *tenantsvc.Tenant, stored []byte) *Override {
	if len(stored) > 0 {
		settings, err := DecodeBrandingSettings(stored)
		if err == nil {
			return Normalize(settings)
		}
		c.logger.Warn("ignoring invalid branding_settings row",
			zap.String("tenant_id", t.ID.String()), zap.Error(err))
	}
	return Normalize(t.Branding)
}

func (c *Composer) platformSettings(ctx context.Context) (PlatformSettings, error) {
	ps, err := c.repo.GetPlatformSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		return PlatformSettings{}, nil
	}
	return ps, err
}
