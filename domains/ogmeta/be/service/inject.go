package service

import (
	"regexp"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes the four characters that matter inside text and double-quoted attributes.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

type substitution struct {
	pattern *regexp.Regexp
	render  func(Meta) string
}

func metaTag(attr, key string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<meta\s+` + attr + `\s*=\s*["']` + regexp.QuoteMeta(key) + `["'][^>]*>`)
}

var substitutions = []substitution{
	{
		pattern: regexp.MustCompile(`(?is)<title[^>]*>.*?</title>`),
		render:  func(m Meta) string { return "<title>" + EscapeHTML(m.Title) + "</title>" },
	},
	{
		pattern: metaTag("name", "description"),
		render: func(m Meta) string {
			return `<meta name="description" content="` + EscapeHTML(m.Description) + `" />`
		},
	},
	{
		pattern: metaTag("property", "og:title"),
		render: func(m Meta) string {
			return `<meta property="og:title" content="` + EscapeHTML(m.Title) + `" />`
		},
	},
	{
		pattern: metaTag("property", "og:description"),
		render: func(m Meta) string {
			return `<meta property="og:description" content="` + EscapeHTML(m.Description) + `" />`
		},
	},
	{
		pattern: metaTag("property", "og:image"),
		render: func(m Meta) string {
			return `<meta property="og:image" content="` + EscapeHTML(m.ImageURL) + `" />`
		},
	},
	{
		pattern: metaTag("name", "twitter:image"),
		render: func(m Meta) string {
			return `<meta name="twitter:image" content="` + EscapeHTML(m.ImageURL) + `" />`
		},
	},
}

// InjectMeta rewrites the first occurrence of each of the six head tags. Tags that
// are absent from page are left absent.
func InjectMeta(page string, meta Meta) string {
	for _, sub := range substitutions {
		loc := sub.pattern.FindStringIndex(page)
		if loc == nil {
			continue
		}
		page = page[:loc[0]] + sub.render(meta) + page[loc[1]:]
	}
	return page
}
