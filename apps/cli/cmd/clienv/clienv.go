// Package clienv opens the data gateway shared by the CLI commands.
package clienv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	accessrepo "github.com/zenGate-Global/rastro-saas/domains/access/be/repo"
	accessservice "github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	brandingrepo "github.com/zenGate-Global/rastro-saas/domains/branding/be/repo"
	brandingservice "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	tenantsrepo "github.com/zenGate-Global/rastro-saas/domains/tenants/be/repo"
	tenantsservice "github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	platformlogging "github.com/zenGate-Global/rastro-saas/platform/go/logging"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
	"github.com/zenGate-Global/rastro-saas/platform/go/supabase"
)

// ErrPostgresRequired is returned by commands that write directly to the database.
var ErrPostgresRequired = errors.New("--database-url (or DATABASE_URL) is required for this command")

// Options selects the backend. A database URL wins over the hosted gateway.
type Options struct {
	DatabaseURL string
	Schema      string
	SupabaseURL string
	SupabaseKey string
	LogLevel    string
}

// Bind registers the options as persistent flags defaulting to the API's env vars.
func Bind(cmd *cobra.Command, o *Options) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flags.StringVar(&o.Schema, "schema", envOr("DATABASE_SCHEMA", "public"), "Schema holding the platform tables")
	flags.StringVar(&o.SupabaseURL, "supabase-url", os.Getenv("SUPABASE_URL"), "Hosted gateway URL (used when no database URL is set)")
	flags.StringVar(&o.SupabaseKey, "supabase-key", os.Getenv("SUPABASE_SERVICE_KEY"), "Hosted gateway key")
	flags.StringVar(&o.LogLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level written to stderr")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Env is an opened gateway.
type Env struct {
	Logger    *zap.Logger
	Pool      *pgxpool.Pool
	Schema    string
	Tenants   tenantsservice.Repository
	Branding  brandingservice.Repository
	Directory accessservice.Directory
}

// Open connects to the configured backend.
func Open(ctx context.Context, o Options) (*Env, error) {
	logger, err := platformlogging.NewLogger(platformlogging.Config{Component: "cli", Level: o.LogLevel, Output: os.Stderr})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if o.DatabaseURL != "" {
		pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: o.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("init pool: %w", err)
		}
		env := &Env{Logger: logger, Pool: pool, Schema: o.Schema}
		if err := env.bindPostgres(); err != nil {
			persistence.ClosePool(pool)
			return nil, err
		}
		return env, nil
	}

	client, err := supabase.New(supabase.Config{URL: o.SupabaseURL, APIKey: o.SupabaseKey}, logger)
	if err != nil {
		return nil, fmt.Errorf("no backend configured: %w", err)
	}
	return &Env{
		Logger:    logger,
		Schema:    o.Schema,
		Tenants:   tenantsrepo.NewSupabaseRepository(client),
		Branding:  brandingrepo.NewSupabaseRepository(client),
		Directory: accessrepo.NewSupabaseDirectory(client),
	}, nil
}

func (e *Env) bindPostgres() error {
	tenantStore, err := persistence.NewTenantStore(e.Pool, e.Schema)
	if err != nil {
		return err
	}
	moduleStore, err := persistence.NewModuleStore(e.Pool, e.Schema)
	if err != nil {
		return err
	}
	settingsStore, err := persistence.NewSettingsStore(e.Pool, e.Schema)
	if err != nil {
		return err
	}
	accessStore, err := persistence.NewAccessStore(e.Pool, e.Schema)
	if err != nil {
		return err
	}
	e.Tenants = tenantsrepo.NewPostgresRepository(tenantStore, moduleStore)
	e.Branding = brandingrepo.NewPostgresRepository(settingsStore)
	e.Directory = accessrepo.NewPostgresDirectory(accessStore)
	return nil
}

// RequirePool returns the pool or ErrPostgresRequired.
func (e *Env) RequirePool() (*pgxpool.Pool, error) {
	if e.Pool == nil {
		return nil, ErrPostgresRequired
	}
	return e.Pool, nil
}

// Resolver builds a tenant resolver over the gateway.
func (e *Env) Resolver() *tenantsservice.Resolver {
	return tenantsservice.NewResolver(e.Tenants, e.Logger.Named("tenants"))
}

// Composer builds an uncached branding composer over the gateway.
func (e *Env) Composer() *brandingservice.Composer {
	return brandingservice.NewComposer(e.Branding, nil, e.Logger.Named("branding"))
}

// Close releases the connection pool and flushes the logger.
func (e *Env) Close() {
	if e.Pool != nil {
		persistence.ClosePool(e.Pool)
	}
	_ = e.Logger.Sync()
}
