package seo

import (
	"github.com/bytedance/sonic"
)

const schemaContext = "https://schema.org"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := sonic.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, lang string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	return m
}

// SportsOrganization describes the league itself.
func SportsOrganization(name, url, sport string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "SportsOrganization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if sport != "" {
		m["sport"] = sport
	}
	return m
}
