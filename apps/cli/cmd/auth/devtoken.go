package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/rastro-saas/platform/go/auth/devtoken"
)

// Command groups identity helpers for local development.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Identity helpers for local development",
	}
	cmd.AddCommand(devTokenCommand())
	return cmd
}

func devTokenCommand() *cobra.Command {
	var (
		params devtoken.Params
		secret string
	)

	cmd := &cobra.Command{
		Use:   "devtoken",
		Short: "Generate a token for AUTH_PROVIDER=dev (unsigned) or AUTH_PROVIDER=supabase (--secret)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				token string
				err   error
			)
			now := time.Now().UTC()
			if secret != "" {
				token, err = devtoken.BuildHS256(params, []byte(secret), now)
			} else {
				token, err = devtoken.BuildUnsigned(params, now)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.UserID, "user-id", "", "sub/uid claim")
	cmd.Flags().StringVar(&params.Email, "email", "", "email claim")
	cmd.Flags().StringVar(&params.Name, "name", "", "display name")
	cmd.Flags().DurationVar(&params.ExpiresIn, "expires-in", time.Hour, "token lifetime (e.g. 30m, 2h)")
	cmd.Flags().StringVar(&params.Audience, "audience", "", "override aud; defaults to authenticated")
	cmd.Flags().StringVar(&params.Issuer, "issuer", "", "override iss")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("SUPABASE_JWT_SECRET"), "HS256 signing secret; unsigned when empty")

	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
