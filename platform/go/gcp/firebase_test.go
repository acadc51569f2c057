package gcp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCredentialsPathFromEnv(t *testing.T) {
	t.Setenv(CredentialsPathEnv, "")
	require.Nil(t, CredentialsPathFromEnv())
	require.Empty(t, clientOptions(nil))

	t.Setenv(CredentialsPathEnv, "/secrets/sa.json")
	path := CredentialsPathFromEnv()
	require.NotNil(t, path)
	require.Equal(t, "/secrets/sa.json", *path)
	require.Len(t, clientOptions(path), 1)
}
