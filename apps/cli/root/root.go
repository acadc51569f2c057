package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the Rastro admin CLI. Subcommands are attached in wire.go.
var rootCmd = &cobra.Command{
	Use:           "rastro",
	Short:         "Rastro admin CLI",
	Long:          "Administrative utilities for the Rastro portal (schema bootstrap, tenant seeding, resolution and branding inspection, dev tokens).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
