package tenantcmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/rastro-saas/apps/cli/cmd/clienv"
	accessservice "github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	brandingservice "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/cell"
	"github.com/zenGate-Global/rastro-saas/platform/go/tenant"
)

// Command groups tenant resolution helpers.
func Command() *cobra.Command {
	var opts clienv.Options
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Resolve tenants, check access and follow navigation",
	}
	clienv.Bind(cmd, &opts)

	cmd.AddCommand(resolveCommand(&opts))
	cmd.AddCommand(accessCommand(&opts))
	cmd.AddCommand(watchCommand(&opts))
	return cmd
}

// StateView is the printable form of a resolver state.
type StateView struct {
	Phase   service.Phase `json:"phase"`
	Slug    string        `json:"slug"`
	ID      string        `json:"id,omitempty"`
	Name    string        `json:"name,omitempty"`
	Type    string        `json:"type,omitempty"`
	Status  string        `json:"status,omitempty"`
	Modules []string      `json:"modules"`
	Error   string        `json:"error,omitempty"`
}

// ToStateView converts st for printing.
func ToStateView(st service.State) StateView {
	v := StateView{Phase: st.Phase, Slug: st.Slug, Modules: st.ModuleKeys()}
	if t := st.Tenant; t != nil {
		v.ID, v.Name, v.Type, v.Status = t.ID.String(), t.Name, string(t.Type), string(t.Status)
	}
	if st.Err != nil {
		v.Error = st.Err.Error()
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func resolveCommand(opts *clienv.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <slug>",
		Short: "Resolve a slug and print the resolver state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := clienv.Open(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer env.Close()

			st := env.Resolver().Resolve(cmd.Context(), args[0])
			return writeJSON(cmd.OutOrStdout(), ToStateView(st))
		},
	}
}

func accessCommand(opts *clienv.Options) *cobra.Command {
	var userID string

	c := &cobra.Command{
		Use:   "access [slug]",
		Short: "Run the access checks for a user against a tenant, or the platform when no slug is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := clienv.Open(ctx, *opts)
			if err != nil {
				return err
			}
			defer env.Close()

			checker := accessservice.NewChecker(env.Directory, env.Logger.Named("access"))
			if len(args) == 0 {
				state := checker.Platform(ctx, userID)
				return writeJSON(cmd.OutOrStdout(), accessservice.DecidePlatformView(accessservice.PlatformViewInput{UserID: userID, Access: state}))
			}

			st := env.Resolver().Resolve(ctx, args[0])
			if st.Phase != service.PhaseResolved {
				return writeJSON(cmd.OutOrStdout(), ToStateView(st))
			}
			state := checker.Tenant(ctx, userID, st.Tenant.ID)
			return writeJSON(cmd.OutOrStdout(), accessservice.DecideTenantView(accessservice.TenantViewInput{
				UserID:     userID,
				Slug:       st.Slug,
				TenantName: st.Tenant.Name,
				LoggedIn:   true,
				Access:     state,
			}))
		},
	}

	c.Flags().StringVar(&userID, "user", "", "Identity provider user id")
	_ = c.MarkFlagRequired("user")
	return c
}

func watchCommand(opts *clienv.Options) *cobra.Command {
	var userID string

	c := &cobra.Command{
		Use:   "watch",
		Short: "Read slugs from stdin and print resolver, branding and access transitions",
		Long: "Each input line navigates to a slug. Resolutions for superseded slugs are dropped, mirroring a browser session.\n" +
			"With --user the access guards follow every navigation, acting as a user who completed the tenant login.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := clienv.Open(ctx, *opts)
			if err != nil {
				return err
			}
			defer env.Close()

			cfg := WatchConfig{Resolver: env.Resolver(), Composer: env.Composer(), UserID: userID}
			if userID != "" {
				cfg.Checker = accessservice.NewChecker(env.Directory, env.Logger.Named("access"))
			}
			return Watch(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		},
	}

	c.Flags().StringVar(&userID, "user", "", "Identity provider user id; enables access decisions")
	return c
}

// WatchConfig wires Watch. Checker and UserID are optional; with both set every
// navigation also emits the access decision of the tenant or platform guard.
type WatchConfig struct {
	Resolver *service.Resolver
	Composer *brandingservice.Composer
	Checker  *accessservice.Checker
	UserID   string
}

// Watch drives a resolver session, a branding session and optionally the access guards
// from slugs read from in, printing one JSON line per state change to out. It returns
// after in is exhausted and the last navigation has settled.
func Watch(ctx context.Context, in io.Reader, out io.Writer, cfg WatchConfig) error {
	tenants := service.NewSession(cfg.Resolver)
	defer tenants.Close()
	branding := brandingservice.NewSession(cfg.Composer)
	defer branding.Close()

	var mu sync.Mutex
	emit := func(kind string, v any) {
		mu.Lock()
		defer mu.Unlock()
		line, _ := json.Marshal(map[string]any{"event": kind, "value": v})
		fmt.Fprintln(out, string(line))
	}

	var access *accessFollower
	if cfg.Checker != nil && cfg.UserID != "" {
		access = newAccessFollower(cfg.Checker, cfg.UserID, tenants, emit)
		defer access.close()
	}

	unsubTenant := tenants.Subscribe(func(st service.State) {
		emit("tenant", ToStateView(st))
		access.apply(ctx, st)
	})
	defer unsubTenant()
	unsubBranding := branding.Subscribe(func(bc brandingservice.Config) { emit("branding", bc) })
	defer unsubBranding()
	detach := branding.Follow(ctx, tenants)
	defer detach()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		slug := strings.TrimSpace(scanner.Text())
		tenants.SetSlug(ctx, strings.Trim(slug, "/"))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read slugs: %w", err)
	}

	if err := settle(ctx, tenants, branding); err != nil {
		return err
	}
	return access.wait(ctx)
}

func settle(ctx context.Context, tenants *service.Session, branding *brandingservice.Session) error {
	st := tenants.State()
	if st.IsLoading() {
		if task := tenants.SetSlug(ctx, st.Slug); task != nil {
			if err := task.Wait(ctx); err != nil {
				return err
			}
		}
		st = tenants.State()
	}
	if task := branding.Apply(ctx, st); task != nil {
		return task.Wait(ctx)
	}
	return nil
}

// accessFollower points the tenant guard at resolved tenants and the platform guard at
// the platform surface, emitting the rendered decision on every guard transition.
type accessFollower struct {
	userID   string
	tenants  *service.Session
	tenant   *accessservice.TenantGuard
	platform *accessservice.PlatformGuard
	unsub    []func()
}

func newAccessFollower(checker *accessservice.Checker, userID string, tenants *service.Session, emit func(string, any)) *accessFollower {
	f := &accessFollower{
		userID:   userID,
		tenants:  tenants,
		tenant:   accessservice.NewTenantGuard(checker),
		platform: accessservice.NewPlatformGuard(checker),
	}
	f.unsub = append(f.unsub,
		f.tenant.Subscribe(func(state accessservice.AccessState) {
			if d, ok := f.tenantDecision(state); ok {
				emit("access", d)
			}
		}),
		f.platform.Subscribe(func(state accessservice.AccessState) {
			if f.tenants.State().Slug == tenant.PlatformSlug {
				emit("access", accessservice.DecidePlatformView(accessservice.PlatformViewInput{UserID: f.userID, Access: state}))
			}
		}),
	)
	return f
}

func (f *accessFollower) tenantDecision(state accessservice.AccessState) (accessservice.Decision, bool) {
	st := f.tenants.State()
	if st.Phase != service.PhaseResolved {
		return accessservice.Decision{}, false
	}
	return accessservice.DecideTenantView(accessservice.TenantViewInput{
		UserID:     f.userID,
		Slug:       st.Slug,
		TenantName: st.Tenant.Name,
		LoggedIn:   true,
		Access:     state,
	}), true
}

// apply reacts to a resolver state. A nil follower ignores it.
func (f *accessFollower) apply(ctx context.Context, st service.State) {
	if f == nil || st.IsLoading() {
		return
	}
	if st.Phase == service.PhaseResolved {
		f.platform.Close()
		f.tenant.Evaluate(ctx, f.userID, st.Tenant.ID)
		return
	}
	f.tenant.Close()
	if st.Slug == tenant.PlatformSlug {
		f.platform.Evaluate(ctx, f.userID)
	} else {
		f.platform.Close()
	}
}

// wait blocks until the live guard checks finish.
func (f *accessFollower) wait(ctx context.Context) error {
	if f == nil {
		return nil
	}
	for _, task := range []*cell.Task{f.tenant.Pending(), f.platform.Pending()} {
		if task == nil {
			continue
		}
		if err := task.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (f *accessFollower) close() {
	for _, unsub := range f.unsub {
		unsub()
	}
	f.tenant.Close()
	f.platform.Close()
}
