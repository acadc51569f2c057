package devtoken

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zenGate-Global/rastro-saas/platform/go/auth"
)

func TestBuildUnsigned(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()

	token, err := BuildUnsigned(Params{UserID: "user-123", Email: "ana@example.com", Name: "Ana"}, now)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 2)

	claims, err := auth.UnsignedTokenVerifier()(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "rastro-dev", claims["iss"])
	require.Equal(t, "authenticated", claims["aud"])
	require.EqualValues(t, now.Add(time.Hour).Unix(), claims["exp"])

	id, err := auth.DefaultIdentityExtractor(claims)
	require.NoError(t, err)
	require.Equal(t, "user-123", id.ID)
	require.Equal(t, "ana@example.com", id.Email)
	require.Equal(t, "Ana", id.Metadata["name"])
}

func TestBuildHS256VerifiesWithSameSecret(t *testing.T) {
	secret := []byte("super-secret-jwt-token-with-at-least-32-characters")

	token, err := BuildHS256(Params{UserID: "user-123"}, secret, time.Now())
	require.NoError(t, err)

	claims, err := auth.HMACTokenVerifier(secret)(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims["sub"])

	_, err = auth.HMACTokenVerifier([]byte("another-secret"))(context.Background(), token)
	require.Error(t, err)
}

func TestBuildRequiresUserID(t *testing.T) {
	_, err := BuildUnsigned(Params{}, time.Now())
	require.Error(t, err)

	_, err = BuildHS256(Params{UserID: "u"}, nil, time.Now())
	require.Error(t, err)
}
