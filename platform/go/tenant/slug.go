package tenant

import "strings"

// PlatformSlug is the reserved first path segment of the global admin surface.
const PlatformSlug = "platform"

// reservedSegments are first path segments that never name a tenant on the public site.
var reservedSegments = map[string]struct{}{
	PlatformSlug: {},
	"assets":     {},
	"favicon":    {},
	"og-default": {},
}

// IsReserved reports whether slug collides with a reserved first path segment.
func IsReserved(slug string) bool {
	_, reserved := reservedSegments[slug]
	return reserved
}

// IsResolvable reports whether slug should go through tenant resolution. Absent slugs
// and the platform surface are skipped.
func IsResolvable(slug string) bool {
	slug = strings.TrimSpace(slug)
	return slug != "" && slug != PlatformSlug
}

// SlugFromPath returns the first non-empty path segment unless it is reserved.
func SlugFromPath(path string) (string, bool) {
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if IsReserved(segment) {
			return "", false
		}
		return segment, true
	}
	return "", false
}

// LoginPath returns the tenant-scoped login route, or the root login when slug is empty.
func LoginPath(slug string) string {
	if slug == "" {
		return "/login"
	}
	return "/" + slug + "/login"
}

// PlatformLoginPath is the login route of the global admin surface.
func PlatformLoginPath() string {
	return "/" + PlatformSlug + "/login"
}
