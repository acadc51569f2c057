package persistence

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/zenGate-Global/rastro-saas/platform/go/tenant"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// ErrReservedSlug marks slugs that the public site routes elsewhere.
	ErrReservedSlug = errors.New("slug is reserved")
)

// NormalizeSlug lowercases and trims a tenant slug and rejects anything the portal
// could not route to: non URL-safe values and reserved first path segments.
func NormalizeSlug(input string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(input))
	switch {
	case slug == "":
		return "", errors.New("slug is required")
	case !slugPattern.MatchString(slug):
		return "", fmt.Errorf("invalid slug %q: use lowercase letters, digits and single hyphens", input)
	case tenant.IsReserved(slug):
		return "", fmt.Errorf("%w: %q", ErrReservedSlug, slug)
	}
	return slug, nil
}
