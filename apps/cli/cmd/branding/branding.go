package branding

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/rastro-saas/apps/cli/cmd/clienv"
	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
)

// Command groups branding inspection helpers.
func Command() *cobra.Command {
	var opts clienv.Options
	cmd := &cobra.Command{
		Use:   "branding",
		Short: "Inspect composed branding",
	}
	clienv.Bind(cmd, &opts)

	cmd.AddCommand(&cobra.Command{
		Use:   "show [slug]",
		Short: "Print the effective branding of a tenant, or platform branding when no slug is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := clienv.Open(ctx, opts)
			if err != nil {
				return err
			}
			defer env.Close()

			composer := env.Composer()
			cfg := composer.LoadPlatform(ctx)
			if len(args) == 1 {
				st := env.Resolver().Resolve(ctx, args[0])
				if st.Phase == service.PhaseResolved || st.Phase == service.PhaseSuspended {
					cfg = composer.Load(ctx, st.Tenant)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	})
	return cmd
}
