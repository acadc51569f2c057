package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zenGate-Global/rastro-saas/contracts"
	accesshandler "github.com/zenGate-Global/rastro-saas/domains/access/be/handler"
	"github.com/zenGate-Global/rastro-saas/domains/access/be/ledger"
	accessservice "github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	brandinghandler "github.com/zenGate-Global/rastro-saas/domains/branding/be/handler"
	brandingservice "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	tenantshandler "github.com/zenGate-Global/rastro-saas/domains/tenants/be/handler"
	tenantsservice "github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	platformauth "github.com/zenGate-Global/rastro-saas/platform/go/auth"
	platformlogging "github.com/zenGate-Global/rastro-saas/platform/go/logging"
	platformmiddleware "github.com/zenGate-Global/rastro-saas/platform/go/middleware"
	tenantmiddleware "github.com/zenGate-Global/rastro-saas/platform/go/tenant/middleware"
)

type config struct {
	Port               string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	GatewayBackend     string        `env:"GATEWAY_BACKEND" envDefault:"postgres"` // postgres | supabase
	GatewayTimeout     time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	DatabaseSchema     string        `env:"DATABASE_SCHEMA" envDefault:"public"`
	SupabaseURL        string        `env:"SUPABASE_URL"`
	SupabaseServiceKey string        `env:"SUPABASE_SERVICE_KEY"`
	AuthProvider       string        `env:"AUTH_PROVIDER" envDefault:"firebase"` // firebase | supabase | dev
	SupabaseJWTSecret  string        `env:"SUPABASE_JWT_SECRET"`
	SessionSecret      string        `env:"SESSION_SECRET,required"`
	SessionBlockKey    string        `env:"SESSION_BLOCK_KEY"`
	CookieSecure       bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CORSOrigins        []string      `env:"CORS_ORIGINS" envSeparator:","`
	RedisURL           string        `env:"REDIS_URL"`
	BrandingCacheTTL   time.Duration `env:"BRANDING_CACHE_TTL" envDefault:"5m"`
	AccessCacheTTL     time.Duration `env:"ACCESS_CACHE_TTL" envDefault:"30s"`
	TenantCacheTTL     time.Duration `env:"TENANT_CACHE_TTL" envDefault:"1m"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "portal-api",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	gw, err := buildGateway(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init data gateway", zap.String("backend", cfg.GatewayBackend), zap.Error(err))
	}
	defer gw.close()

	brandingCache, closeCache := buildBrandingCache(ctx, cfg, logger)
	defer closeCache()

	resolver := tenantsservice.NewResolver(gw.tenants, logger.Named("tenants"))
	composer := brandingservice.NewComposer(gw.branding, brandingCache, logger.Named("branding"))
	checker := accessservice.NewCachedChecker(accessservice.NewChecker(gw.directory, logger.Named("access")), cfg.AccessCacheTTL)

	ledgerCookies, err := ledger.NewCookies(ledger.CookieConfig{
		HashKey:  []byte(cfg.SessionSecret),
		BlockKey: []byte(cfg.SessionBlockKey),
		Secure:   cfg.CookieSecure,
	})
	if err != nil {
		logger.Fatal("init login ledger cookies", zap.Error(err))
	}

	tenantHTTPHandler := tenantshandler.New(resolver, composer, logger)
	brandingHTTPHandler := brandinghandler.New(composer, logger)
	accessHTTPHandler := accesshandler.New(checker, ledgerCookies, logger)

	spec, err := contracts.LoadPortal()
	if err != nil {
		logger.Fatal("load portal contract", zap.Error(err))
	}

	cors := platformmiddleware.DefaultCORS()
	if len(cfg.CORSOrigins) > 0 {
		cors = platformmiddleware.CORS(cfg.CORSOrigins...)
	}

	rootRouter := chi.NewRouter()
	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		cors,
	)
	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	registerDocsRoutes(rootRouter, spec, logger)

	apiRouter := chi.NewRouter()
	apiRouter.Use(buildAuthMiddleware(ctx, cfg, logger))
	apiRouter.Use(platformmiddleware.RequestTrace)
	apiRouter.Use(platformmiddleware.NewSpecValidator(logger, spec))

	apiRouter.Get("/tenants/{slug}", tenantHTTPHandler.TenantsGet)
	apiRouter.Get("/platform/branding", brandingHTTPHandler.PlatformBrandingGet)
	apiRouter.Get("/platform/access", accessHTTPHandler.PlatformAccess)
	apiRouter.Post("/auth/sign-out", accessHTTPHandler.SignOut)

	apiRouter.Group(func(r chi.Router) {
		r.Use(tenantmiddleware.WithTenant(resolver, tenantmiddleware.Config{CacheTTL: cfg.TenantCacheTTL}))
		r.Get("/tenants/{slug}/access", accessHTTPHandler.TenantAccess)
		r.With(platformauth.RequireIdentity).Post("/tenants/{slug}/logins", accessHTTPHandler.RecordLogin)
	})

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting portal api", zap.String("port", cfg.Port), zap.String("gateway", cfg.GatewayBackend))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
