package root

import (
	"github.com/zenGate-Global/rastro-saas/apps/cli/cmd/auth"
	"github.com/zenGate-Global/rastro-saas/apps/cli/cmd/branding"
	"github.com/zenGate-Global/rastro-saas/apps/cli/cmd/db"
	tenantcmd "github.com/zenGate-Global/rastro-saas/apps/cli/cmd/tenant"
)

func init() {
	Root().AddCommand(auth.Command())
	Root().AddCommand(db.Command())
	Root().AddCommand(tenantcmd.Command())
	Root().AddCommand(branding.Command())
}
