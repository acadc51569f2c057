// Package devtoken mints identity tokens for local development and tests.
package devtoken

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Params captures the claims of a development identity. No environment variables
// are read so the builder stays deterministic for tooling.
type Params struct {
	UserID    string        // sub/uid (required)
	Email     string        // email claim (optional)
	Name      string        // user_metadata.name (optional)
	ExpiresIn time.Duration // relative expiry; default 1h if zero
	Audience  string        // defaults to "authenticated"
	Issuer    string        // defaults to "rastro-dev"
}

func (p Params) claims(now time.Time) (jwt.MapClaims, error) {
	if strings.TrimSpace(p.UserID) == "" {
		return nil, errors.New("userID is required")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	expiresIn := p.ExpiresIn
	if expiresIn == 0 {
		expiresIn = time.Hour
	}
	audience := p.Audience
	if strings.TrimSpace(audience) == "" {
		audience = "authenticated"
	}
	issuer := p.Issuer
	if strings.TrimSpace(issuer) == "" {
		issuer = "rastro-dev"
	}

	claims := jwt.MapClaims{
		"iss":  issuer,
		"aud":  audience,
		"sub":  p.UserID,
		"uid":  p.UserID,
		"iat":  now.Unix(),
		"exp":  now.Add(expiresIn).Unix(),
		"role": "authenticated",
	}
	if p.Email != "" {
		claims["email"] = p.Email
	}
	if p.Name != "" {
		claims["user_metadata"] = map[string]interface{}{"name": p.Name}
	}
	return claims, nil
}

// BuildUnsigned returns a JWT with alg "none" and no signature, accepted by the
// API when AUTH_PROVIDER=dev.
func BuildUnsigned(p Params, now time.Time) (string, error) {
	claims, err := p.claims(now)
	if err != nil {
		return "", err
	}

	headerSegment, err := encodeSegment(map[string]interface{}{"alg": "none", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payloadSegment, err := encodeSegment(claims)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", headerSegment, payloadSegment), nil
}

// BuildHS256 returns a token signed with secret, accepted by the API when
// AUTH_PROVIDER=supabase and SUPABASE_JWT_SECRET matches.
func BuildHS256(p Params, secret []byte, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("secret is required")
	}
	claims, err := p.claims(now)
	if err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func encodeSegment(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
