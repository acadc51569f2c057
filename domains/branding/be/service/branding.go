package service

import (
	"fmt"
	"strings"
)

// Platform identity used when platform_settings has no usable value.
const (
	PlatformName        = "Rastro"
	PlatformDescription = "Rastreabilidade de origem para indicações geográficas e marcas coletivas"
)

// Default palette applied before any tenant override.
const (
	DefaultPrimaryColor   = "#2f6b3b"
	DefaultSecondaryColor = "#c98b2b"
	DefaultAccentColor    = "#1d3c45"
	DefaultPreset         = "default"
)

// PlatformSettings is the platform_settings row. Nil means the column is NULL.
type PlatformSettings struct {
	SiteTitle       *string `json:"site_title"`
	SiteDescription *string `json:"site_description"`
	FaviconURL      *string `json:"favicon_url"`
	OgImageURL      *string `json:"og_image_url"`
}

// Override is a tenant's stored branding after key normalization. Empty strings mean unset.
type Override struct {
	SiteTitle       string
	SiteDescription string
	LogoURL         string
	HeaderImageURL  string
	PrimaryColor    string
	SecondaryColor  string
	AccentColor     string
	Preset          string
}

// IsZero reports whether no field is set.
func (o Override) IsZero() bool { return o == Override{} }

// Personalized reports whether the tenant explicitly set a name or a logo.
func (o Override) Personalized() bool {
	return strings.TrimSpace(o.LogoURL) != "" || strings.TrimSpace(o.SiteTitle) != ""
}

// Config is the composed branding. Every field is populated; URL fields may be null.
type Config struct {
	SiteTitle       string  `json:"siteTitle"`
	SiteDescription string  `json:"siteDescription"`
	LogoURL         *string `json:"logoUrl"`
	OgImageURL      *string `json:"ogImageUrl"`
	HeaderImageURL  *string `json:"headerImageUrl"`
	PrimaryColor    string  `json:"primaryColor"`
	SecondaryColor  string  `json:"secondaryColor"`
	AccentColor     string  `json:"accentColor"`
	Preset          string  `json:"preset"`
}

// Defaults is the static branding used when nothing could be loaded.
func Defaults() Config {
	return Merge(PlatformSettings{}, nil)
}

// Merge composes platform settings with an optional tenant override.
func Merge(platform PlatformSettings, override *Override) Config {
	base := Config{
		SiteTitle:       PlatformName,
		SiteDescription: PlatformDescription,
		LogoURL:         platform.FaviconURL,
		OgImageURL:      platform.OgImageURL,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		AccentColor:     DefaultAccentColor,
		Preset:          DefaultPreset,
	}
	if title := trimmed(platform.SiteTitle); title != "" {
		base.SiteTitle = title
	}
	if platform.SiteDescription != nil && *platform.SiteDescription != "" {
		base.SiteDescription = *platform.SiteDescription
	}

	if override == nil {
		return base
	}

	cfg := base
	if v := strings.TrimSpace(override.HeaderImageURL); v != "" {
		cfg.HeaderImageURL = &v
		cfg.OgImageURL = &v
	}
	if override.PrimaryColor != "" {
		cfg.PrimaryColor = override.PrimaryColor
	}
	if override.SecondaryColor != "" {
		cfg.SecondaryColor = override.SecondaryColor
	}
	if override.AccentColor != "" {
		cfg.AccentColor = override.AccentColor
	}
	if override.Preset != "" {
		cfg.Preset = override.Preset
	}

	if title := strings.TrimSpace(override.SiteTitle); title != "" {
		cfg.SiteTitle = title
	}
	if logo := strings.TrimSpace(override.LogoURL); logo != "" && override.Personalized() {
		cfg.LogoURL = &logo
	}
	if override.SiteDescription != "" {
		cfg.SiteDescription = override.SiteDescription
	}
	return cfg
}

var overrideKeys = map[string][]string{
	"siteTitle":       {"siteTitle", "site_title"},
	"siteDescription": {"siteDescription", "site_description"},
	"logoUrl":         {"logoUrl", "logo_url"},
	"headerImageUrl":  {"headerImageUrl", "header_image_url"},
	"primaryColor":    {"primaryColor", "primary_color"},
	"secondaryColor":  {"secondaryColor", "secondary_color"},
	"accentColor":     {"accentColor", "accent_color"},
	"preset":          {"preset"},
}

// Normalize reads either camelCase or snake_case keys, camelCase winning when both exist.
// It returns nil when raw carries no branding field.
func Normalize(raw map[string]any) *Override {
	if len(raw) == 0 {
		return nil
	}
	o := Override{
		SiteTitle:       pick(raw, overrideKeys["siteTitle"]),
		SiteDescription: pick(raw, overrideKeys["siteDescription"]),
		LogoURL:         pick(raw, overrideKeys["logoUrl"]),
		HeaderImageURL:  pick(raw, overrideKeys["headerImageUrl"]),
		PrimaryColor:    pick(raw, overrideKeys["primaryColor"]),
		SecondaryColor:  pick(raw, overrideKeys["secondaryColor"]),
		AccentColor:     pick(raw, overrideKeys["accentColor"]),
		Preset:          pick(raw, overrideKeys["preset"]),
	}
	if o.IsZero() {
		return nil
	}
	return &o
}

func pick(raw map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
