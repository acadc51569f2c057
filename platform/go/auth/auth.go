package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type ctxKey string

const (
	ctxIdentity ctxKey = "RASTRO_IDENTITY"
)

// Identity is the opaque authenticated principal issued by the identity provider.
// Only the id is interpreted by the portal; metadata is passed through.
type Identity struct {
	ID       string
	Email    string
	Metadata map[string]any
}

// IdentityFromContext returns the identity attached by the JWT middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	v := ctx.Value(ctxIdentity)
	if v == nil {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok && id != nil
}

// WithIdentity returns a derived context carrying the identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// VerifyFunc validates the incoming JWT and returns its claims map.
type VerifyFunc func(ctx context.Context, token string) (map[string]interface{}, error)

// ExtractFunc converts a claims map into an Identity.
type ExtractFunc func(claims map[string]interface{}) (*Identity, error)

// JWT parses the bearer token and sets the identity on the context. Requests without
// a token pass through anonymously; guards decide what anonymous callers see.
func JWT(verify VerifyFunc, extract ExtractFunc) func(http.Handler) http.Handler {
	if verify == nil {
		panic("auth.JWT: verify func must not be nil")
	}
	if extract == nil {
		extract = DefaultIdentityExtractor
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := ExtractJWTToken(r)
			if token == "" || !found {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verify(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="portal", error="invalid_token", error_description=%q`, err.Error()))
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := extract(claims)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="portal", error="invalid_token", error_description="invalid claims"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="portal"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DefaultIdentityExtractor reads Firebase (uid) and Supabase (sub, user_metadata) style claims.
func DefaultIdentityExtractor(claims map[string]interface{}) (*Identity, error) {
	if claims == nil {
		return nil, errors.New("missing claims")
	}

	id := firstStringClaim(claims, "uid", "user_id", "sub")
	if id == "" {
		return nil, errors.New("missing subject claim")
	}

	identity := &Identity{
		ID:    id,
		Email: extractStringClaim(claims, "email"),
	}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		identity.Metadata = meta
	}
	return identity, nil
}

func extractStringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key]; ok {
		if strVal, valid := v.(string); valid {
			return strVal
		}
	}
	return ""
}

func firstStringClaim(claims map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v := extractStringClaim(claims, key); v != "" {
			return v
		}
	}
	return ""
}
