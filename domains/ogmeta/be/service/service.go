package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/zenGate-Global/rastro-saas/platform/go/tenant"
)

// ErrNotFound is returned by fetchers when the slug has no active tenant.
var ErrNotFound = errors.New("og metadata not found")

// DefaultImagePath is served when a tenant has no OG image.
const DefaultImagePath = "/og-default.png"

// TenantMeta is the social metadata stored for a tenant. Every field is optional.
type TenantMeta struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// Fetcher loads tenant metadata by slug.
type Fetcher interface {
	FetchOGMeta(ctx context.Context, slug string) (TenantMeta, error)
}

// Meta is the resolved set of values written into the page head.
type Meta struct {
	Title       string
	Description string
	ImageURL    string
}

// Defaults are the values used when the tenant has none.
type Defaults struct {
	Title       string
	Description string
}

// crawlerSignatures are lower-case User-Agent fragments of social and search bots.
var crawlerSignatures = []string{
	"facebookexternalhit",
	"facebot",
	"twitterbot",
	"linkedinbot",
	"whatsapp",
	"telegrambot",
	"slackbot",
	"slack-imgproxy",
	"discordbot",
	"pinterest",
	"redditbot",
	"skypeuripreview",
	"embedly",
	"vkshare",
	"quora link preview",
	"googlebot",
	"bingbot",
	"yandexbot",
	"duckduckbot",
	"baiduspider",
	"applebot",
}

// IsCrawler reports whether userAgent belongs to a known crawler.
func IsCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return false
	}
	for _, sig := range crawlerSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

// SlugFromPath returns the tenant slug addressed by a public URL path. Reserved
// segments and file names (a segment with an extension) never name a tenant.
func SlugFromPath(p string) (string, bool) {
	slug, ok := tenant.SlugFromPath(p)
	if !ok || strings.Contains(slug, ".") {
		return "", false
	}
	return slug, true
}

// Origin builds scheme://host for r. X-Forwarded-Proto wins over the connection
// scheme and the default port 80 is dropped.
func Origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := strings.TrimSuffix(r.Host, ":80")
	return scheme + "://" + host
}

// MakeAbsoluteImageURL resolves image against origin. Absolute http(s) URLs pass
// through; an empty image yields the default OG image.
func MakeAbsoluteImageURL(origin, image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		image = DefaultImagePath
	}
	lower := strings.ToLower(image)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return image
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(image, "/")
}

// Resolve fills missing tenant values from defaults and makes the image absolute.
func Resolve(meta TenantMeta, defaults Defaults, origin string) Meta {
	return Meta{
		Title:       orDefault(meta.Title, defaults.Title),
		Description: orDefault(meta.Description, defaults.Description),
		ImageURL:    MakeAbsoluteImageURL(origin, orDefault(meta.Image, "")),
	}
}

func orDefault(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return strings.TrimSpace(*v)
}
