package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	platformlogging "github.com/zenGate-Global/rastro-saas/platform/go/logging"
	"github.com/zenGate-Global/rastro-saas/platform/go/problems"
	"github.com/zenGate-Global/rastro-saas/platform/go/requesttrace"
	"github.com/zenGate-Global/rastro-saas/platform/go/tenant"
)

// Resolver defines the lookup capability required to populate a tenant Space.
// It returns tenant.ErrNotFound or tenant.ErrSuspended for the terminal states and
// tenant.ErrUnavailable when resolution was cut short.
type Resolver interface {
	ResolveSpace(ctx context.Context, slug string) (tenant.Space, error)
}

// Config controls middleware behavior.
type Config struct {
	// URLParam is the chi route parameter carrying the slug. Defaults to "slug".
	URLParam string
	// Optional small in-memory TTL cache to avoid gateway hits; zero disables caching.
	CacheTTL time.Duration
}

// WithTenant resolves the slug route parameter and attaches tenant.Space to the context.
// Unknown slugs answer 404, suspended tenants 403 and unfinished resolutions 503.
func WithTenant(resolver Resolver, cfg Config) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("tenant middleware: resolver is required")
	}
	if cfg.URLParam == "" {
		cfg.URLParam = "slug"
	}

	var cache *tenantCache
	if cfg.CacheTTL > 0 {
		cache = newTenantCache(cfg.CacheTTL)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, cfg.URLParam)
			if !tenant.IsResolvable(slug) {
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := cache.get(slug); ok {
				next.ServeHTTP(w, r.WithContext(withSpace(r, cached)))
				return
			}

			space, err := resolver.ResolveSpace(r.Context(), slug)
			switch {
			case errors.Is(err, tenant.ErrSuspended):
				problems.Write(w, r, problems.New(http.StatusForbidden, problems.TypeTenantSuspended, "Tenant suspended", "tenant "+slug+" is suspended"))
				return
			case errors.Is(err, tenant.ErrUnavailable):
				problems.Write(w, r, problems.New(http.StatusServiceUnavailable, problems.TypeInternal, "Tenant unavailable", "tenant resolution did not complete"))
				return
			case err != nil:
				if !errors.Is(err, tenant.ErrNotFound) {
					platformlogging.FromContextOr(r.Context(), nil).Warn("tenant resolution failed", zap.String("slug", slug), zap.Error(err))
				}
				problems.Write(w, r, problems.New(http.StatusNotFound, problems.TypeTenantNotFound, "Tenant not found", "no tenant with slug "+slug))
				return
			}

			cache.put(slug, space)
			next.ServeHTTP(w, r.WithContext(withSpace(r, space)))
		})
	}
}

// withSpace attaches the space and scopes the audit info and logger to the tenant.
func withSpace(r *http.Request, space tenant.Space) context.Context {
	ctx := tenant.WithSpace(r.Context(), space)
	ctx = requesttrace.WithTenantSlug(ctx, space.Slug)
	if logger := platformlogging.FromRequest(r, nil); logger != nil {
		ctx = platformlogging.WithLogger(ctx, logger.With(
			zap.String("tenant_slug", space.Slug),
			zap.String("tenant_id", space.TenantID.String()),
		))
	}
	return ctx
}

type tenantCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	space     tenant.Space
	expiresAt time.Time
}

func newTenantCache(ttl time.Duration) *tenantCache {
	return &tenantCache{ttl: ttl, items: make(map[string]cacheItem)}
}

func (c *tenantCache) get(slug string) (tenant.Space, bool) {
	if c == nil {
		return tenant.Space{}, false
	}
	c.mu.RLock()
	item, ok := c.items[slug]
	c.mu.RUnlock()
	if !ok || time.Now().After(item.expiresAt) {
		return tenant.Space{}, false
	}
	return item.space, true
}

func (c *tenantCache) put(slug string, space tenant.Space) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items[slug] = cacheItem{space: space, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
