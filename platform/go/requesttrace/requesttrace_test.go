package requesttrace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	platformauth "github.com/zenGate-Global/rastro-saas/platform/go/auth"
)

func TestIntoContextAndFromContext(t *testing.T) {
	audit := AuditInfo{ActorKind: ActorKindUser, UserID: ptr("user-123"), RequestID: "req-abc"}

	ctx := IntoContext(context.Background(), audit)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, audit, got)
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)
	require.Equal(t, ActorKindAnonymous, FromContextOrAnonymous(context.Background()).ActorKind)
}

func TestFromIdentity(t *testing.T) {
	audit, err := FromIdentity(&platformauth.Identity{ID: "user-456"}, "req-xyz")
	require.NoError(t, err)
	require.Equal(t, ActorKindUser, audit.ActorKind)
	require.Equal(t, "user-456", *audit.UserID)
	require.Nil(t, audit.TenantSlug)
	require.Equal(t, "req-xyz", audit.RequestID)

	_, err = FromIdentity(&platformauth.Identity{}, "req-1")
	require.Error(t, err)
	_, err = FromIdentity(nil, "req-1")
	require.Error(t, err)
}

func TestWithTenantSlugKeepsActor(t *testing.T) {
	ctx := IntoContext(context.Background(), AuditInfo{ActorKind: ActorKindUser, UserID: ptr("u1"), RequestID: "r1"})
	ctx = WithTenantSlug(ctx, "acme")

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", *got.UserID)
	require.Equal(t, "acme", *got.TenantSlug)

	anon, _ := FromContext(WithTenantSlug(context.Background(), "beta"))
	require.Equal(t, ActorKindAnonymous, anon.ActorKind)
	require.Equal(t, "beta", *anon.TenantSlug)
}

func TestSystem(t *testing.T) {
	audit := System("req-sys")
	require.Equal(t, ActorKindSystem, audit.ActorKind)
	require.Nil(t, audit.UserID)
}

func ptr[T any](v T) *T { return &v }
