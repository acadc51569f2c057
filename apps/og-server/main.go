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

	brandingservice "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	oghandler "github.com/zenGate-Global/rastro-saas/domains/ogmeta/be/handler"
	ogrepo "github.com/zenGate-Global/rastro-saas/domains/ogmeta/be/repo"
	ogservice "github.com/zenGate-Global/rastro-saas/domains/ogmeta/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/gcp"
	platformlogging "github.com/zenGate-Global/rastro-saas/platform/go/logging"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
	"github.com/zenGate-Global/rastro-saas/platform/go/staticfs"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

type config struct {
	Port               string        `env:"PORT" envDefault:"80"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	StaticBackend      string        `env:"STATIC_BACKEND" envDefault:"local"` // local | gcs
	StaticRoot         string        `env:"STATIC_ROOT" envDefault:"./dist"`
	StaticBucket       string        `env:"STATIC_BUCKET"`
	StaticPrefix       string        `env:"STATIC_PREFIX"`
	SupabaseURL        string        `env:"SUPABASE_URL"`
	ViteSupabaseURL    string        `env:"VITE_SUPABASE_URL"`
	SupabaseAnonKey    string        `env:"SUPABASE_ANON_KEY"`
	ViteSupabaseAnon   string        `env:"VITE_SUPABASE_ANON_KEY"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	DatabaseSchema     string        `env:"DATABASE_SCHEMA" envDefault:"public"`
	FetchTimeout       time.Duration `env:"OG_FETCH_TIMEOUT" envDefault:"3s"`
	DefaultTitle       string        `env:"DEFAULT_TITLE"`
	DefaultDescription string        `env:"DEFAULT_DESCRIPTION"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "og-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	var files staticfs.FS
	switch cfg.StaticBackend {
	case "local":
		files = staticfs.NewLocal(cfg.StaticRoot)
	case "gcs":
		if cfg.StaticBucket == "" {
			logger.Fatal("STATIC_BUCKET required when STATIC_BACKEND=gcs")
		}
		client, err := gcp.NewStorageClient(ctx, gcp.CredentialsPathFromEnv())
		if err != nil {
			logger.Fatal("init gcs client", zap.Error(err))
		}
		defer client.Close()
		bucketFS := staticfs.NewGCS(client, cfg.StaticBucket, cfg.StaticPrefix)
		if err := bucketFS.Check(ctx); err != nil {
			logger.Fatal("static bucket unreachable", zap.String("bucket", cfg.StaticBucket), zap.Error(err))
		}
		files = bucketFS
	default:
		logger.Fatal("invalid STATIC_BACKEND (use local or gcs)", zap.String("backend", cfg.StaticBackend))
	}

	fetcher, closeFetcher := buildFetcher(ctx, cfg, logger)
	defer closeFetcher()

	handler := oghandler.New(files, fetcher, oghandler.Config{
		Defaults: ogservice.Defaults{
			Title:       firstNonEmpty(cfg.DefaultTitle, brandingservice.PlatformName),
			Description: firstNonEmpty(cfg.DefaultDescription, brandingservice.PlatformDescription),
		},
		FetchTimeout: cfg.FetchTimeout,
	}, logger)

	router := chi.NewRouter()
	router.Use(chimw.RequestID, chimw.Recoverer)
	router.Use(platformlogging.RequestLogger(logger))
	router.Handle("/*", handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting og server", zap.String("port", cfg.Port), zap.String("static_backend", cfg.StaticBackend))
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

// buildFetcher prefers the hosted RPC endpoint, then a direct database connection.
// Without either, crawlers receive the default metadata.
func buildFetcher(ctx context.Context, cfg config, logger *zap.Logger) (ogservice.Fetcher, func()) {
	url := firstNonEmpty(cfg.SupabaseURL, cfg.ViteSupabaseURL)
	key := firstNonEmpty(cfg.SupabaseAnonKey, cfg.ViteSupabaseAnon)
	if url != "" && key != "" {
		client, err := supabase.New(supabase.Config{URL: url, APIKey: key, Timeout: cfg.FetchTimeout}, logger.Named("supabase"))
		if err != nil {
			logger.Fatal("init supabase client", zap.Error(err))
		}
		return ogrepo.NewRPCFetcher(client), func() {}
	}

	if cfg.DatabaseURL != "" {
		pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
		if err != nil {
			logger.Fatal("init postgres pool", zap.Error(err))
		}
		store, err := persistence.NewOGMetaStore(pool, cfg.DatabaseSchema)
		if err != nil {
			logger.Fatal("init og meta store", zap.Error(err))
		}
		return ogrepo.NewPostgresFetcher(store), func() { persistence.ClosePool(pool) }
	}

	logger.Warn("no metadata backend configured; crawlers get default metadata")
	return nil, func() {}
}
