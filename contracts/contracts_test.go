package contracts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPortal(t *testing.T) {
	doc, err := LoadPortal()
	require.NoError(t, err)

	for _, path := range []string{
		"/api/v1/tenants/{slug}",
		"/api/v1/tenants/{slug}/access",
		"/api/v1/tenants/{slug}/logins",
		"/api/v1/auth/sign-out",
		"/api/v1/platform/access",
		"/api/v1/platform/branding",
	} {
		require.NotNil(t, doc.Paths.Find(path), path)
	}
	require.Contains(t, doc.Components.SecuritySchemes, "bearerAuth")
}
