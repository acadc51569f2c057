package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/rastro-saas/platform/go/auth"
	"github.com/zenGate-Global/rastro-saas/platform/go/gcp"
)

// buildAuthMiddleware constructs the JWT middleware for the configured identity provider.
func buildAuthMiddleware(ctx context.Context, cfg config, logger *zap.Logger) func(http.Handler) http.Handler {
	var verify platformauth.VerifyFunc
	switch cfg.AuthProvider {
	case "firebase":
		_, fbAuth, err := gcp.InitFirebaseAuth(ctx, gcp.CredentialsPathFromEnv())
		if err != nil {
			logger.Fatal("init firebase auth", zap.Error(err))
		}
		verify = platformauth.FirebaseTokenVerifier(fbAuth)
	case "supabase":
		if cfg.SupabaseJWTSecret == "" {
			logger.Fatal("SUPABASE_JWT_SECRET required when AUTH_PROVIDER=supabase")
		}
		verify = platformauth.HMACTokenVerifier([]byte(cfg.SupabaseJWTSecret))
	case "dev":
		logger.Warn("using dev auth middleware; do not use in production")
		verify = platformauth.UnsignedTokenVerifier()
	default:
		logger.Fatal("unsupported auth provider", zap.String("provider", cfg.AuthProvider))
	}

	return platformauth.JWT(verify, platformauth.DefaultIdentityExtractor)
}
