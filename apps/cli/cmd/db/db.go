package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/rastro-saas/apps/cli/cmd/clienv"
	brandingservice "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/persistence"
)

// Command groups direct database maintenance (schema bootstrap and seeding).
func Command() *cobra.Command {
	var opts clienv.Options
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Bootstrap and seed the platform schema",
	}
	clienv.Bind(cmd, &opts)

	cmd.AddCommand(bootstrapCommand(&opts))
	cmd.AddCommand(seedTenantCommand(&opts))
	cmd.AddCommand(grantCommand(&opts))
	cmd.AddCommand(setBrandingCommand(&opts))
	cmd.AddCommand(platformSettingsCommand(&opts))
	return cmd
}

func withPool(ctx context.Context, opts *clienv.Options, fn func(env *clienv.Env) error) error {
	env, err := clienv.Open(ctx, *opts)
	if err != nil {
		return err
	}
	defer env.Close()
	if _, err := env.RequirePool(); err != nil {
		return err
	}
	return fn(env)
}

func bootstrapCommand(opts *clienv.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the platform tables and functions (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withPool(ctx, opts, func(env *clienv.Env) error {
				if err := persistence.BootstrapSchema(ctx, env.Pool, env.Schema); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema %q bootstrapped.\n", env.Schema)
				return nil
			})
		},
	}
}

func seedTenantCommand(opts *clienv.Options) *cobra.Command {
	var (
		slug         string
		name         string
		tenantType   string
		status       string
		modules      []string
		brandingJSON string
	)

	c := &cobra.Command{
		Use:   "seed-tenant",
		Short: "Create or update a tenant and enable its modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withPool(ctx, opts, func(env *clienv.Env) error {
				tenants, err := persistence.NewTenantStore(env.Pool, env.Schema)
				if err != nil {
					return err
				}
				moduleStore, err := persistence.NewModuleStore(env.Pool, env.Schema)
				if err != nil {
					return err
				}

				var branding []byte
				if strings.TrimSpace(brandingJSON) != "" {
					if !json.Valid([]byte(brandingJSON)) {
						return errors.New("--branding must be a JSON object")
					}
					branding = []byte(brandingJSON)
				}

				rec, err := tenants.Upsert(ctx, persistence.TenantRecord{
					Slug:     slug,
					Name:     name,
					Type:     tenantType,
					Status:   status,
					Branding: branding,
				})
				if err != nil {
					return fmt.Errorf("upsert tenant: %w", err)
				}

				for _, key := range modules {
					key = strings.TrimSpace(key)
					if key == "" {
						continue
					}
					if err := moduleStore.Upsert(ctx, persistence.ModuleRecord{TenantID: rec.ID, ModuleKey: key, Enabled: true}); err != nil {
						return fmt.Errorf("enable module %s: %w", key, err)
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Tenant %s (%s) status=%s modules=%v\n", rec.Slug, rec.ID, rec.Status, modules)
				return nil
			})
		},
	}

	c.Flags().StringVar(&slug, "slug", "", "Tenant slug")
	c.Flags().StringVar(&name, "name", "", "Display name")
	c.Flags().StringVar(&tenantType, "type", "ig", "Tenant type (ig | marca_coletiva)")
	c.Flags().StringVar(&status, "status", "active", "Tenant status (active | suspended)")
	c.Flags().StringSliceVar(&modules, "module", nil, "Module key to enable (repeatable)")
	c.Flags().StringVar(&brandingJSON, "branding", "", "Raw tenant.branding JSON")

	_ = c.MarkFlagRequired("slug")
	_ = c.MarkFlagRequired("name")
	return c
}

func grantCommand(opts *clienv.Options) *cobra.Command {
	var (
		userID        string
		tenantSlug    string
		role          string
		platformAdmin bool
	)

	c := &cobra.Command{
		Use:   "grant",
		Short: "Grant a tenant membership or platform admin to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if platformAdmin == (tenantSlug != "") {
				return errors.New("pass exactly one of --tenant or --platform-admin")
			}
			ctx := cmd.Context()
			return withPool(ctx, opts, func(env *clienv.Env) error {
				access, err := persistence.NewAccessStore(env.Pool, env.Schema)
				if err != nil {
					return err
				}

				if platformAdmin {
					if err := access.PutPlatformAdmin(ctx, userID, role); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "User %s is platform %s.\n", userID, role)
					return nil
				}

				tenants, err := persistence.NewTenantStore(env.Pool, env.Schema)
				if err != nil {
					return err
				}
				rec, err := tenants.GetBySlug(ctx, tenantSlug)
				if err != nil {
					return fmt.Errorf("tenant %s: %w", tenantSlug, err)
				}
				if err := access.PutMembership(ctx, persistence.MembershipRecord{TenantID: rec.ID, UserID: userID, Role: role}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %s is %s of %s.\n", userID, role, rec.Slug)
				return nil
			})
		},
	}

	c.Flags().StringVar(&userID, "user", "", "Identity provider user id")
	c.Flags().StringVar(&tenantSlug, "tenant", "", "Tenant slug for a membership")
	c.Flags().StringVar(&role, "role", "admin", "Role name")
	c.Flags().BoolVar(&platformAdmin, "platform-admin", false, "Grant platform admin instead of a membership")
	_ = c.MarkFlagRequired("user")
	return c
}

func setBrandingCommand(opts *clienv.Options) *cobra.Command {
	var (
		tenantSlug string
		file       string
	)

	c := &cobra.Command{
		Use:   "set-branding",
		Short: "Store structured branding settings for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			if _, err := brandingservice.DecodeBrandingSettings(raw); err != nil {
				return err
			}

			ctx := cmd.Context()
			return withPool(ctx, opts, func(env *clienv.Env) error {
				tenants, err := persistence.NewTenantStore(env.Pool, env.Schema)
				if err != nil {
					return err
				}
				settings, err := persistence.NewSettingsStore(env.Pool, env.Schema)
				if err != nil {
					return err
				}
				rec, err := tenants.GetBySlug(ctx, tenantSlug)
				if err != nil {
					return fmt.Errorf("tenant %s: %w", tenantSlug, err)
				}
				if err := settings.PutSystemConfig(ctx, rec.ID, brandingservice.BrandingSettingsKey, raw); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Branding settings stored for %s.\n", rec.Slug)
				return nil
			})
		},
	}

	c.Flags().StringVar(&tenantSlug, "tenant", "", "Tenant slug")
	c.Flags().StringVar(&file, "file", "", "JSON file with branding settings")
	_ = c.MarkFlagRequired("tenant")
	_ = c.MarkFlagRequired("file")
	return c
}

func platformSettingsCommand(opts *clienv.Options) *cobra.Command {
	var siteTitle, siteDescription, faviconURL, ogImageURL string

	c := &cobra.Command{
		Use:   "platform-settings",
		Short: "Write the platform settings row",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withPool(ctx, opts, func(env *clienv.Env) error {
				settings, err := persistence.NewSettingsStore(env.Pool, env.Schema)
				if err != nil {
					return err
				}
				return settings.PutPlatformSettings(ctx, persistence.PlatformSettingsRecord{
					SiteTitle:       optional(siteTitle),
					SiteDescription: optional(siteDescription),
					FaviconURL:      optional(faviconURL),
					OgImageURL:      optional(ogImageURL),
				})
			})
		},
	}

	c.Flags().StringVar(&siteTitle, "site-title", "", "Platform site title")
	c.Flags().StringVar(&siteDescription, "site-description", "", "Platform site description")
	c.Flags().StringVar(&faviconURL, "favicon-url", "", "Favicon / platform logo URL")
	c.Flags().StringVar(&ogImageURL, "og-image-url", "", "Platform OG image URL")
	return c
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
