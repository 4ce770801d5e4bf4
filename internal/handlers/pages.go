// Package handlers holds the view models rendered by the page templates.
package handlers

import (
	"net/url"

	"eraleague.org/roster-web/internal/seo"
)

// PageData is the view model of the roster page layout.
type PageData struct {
	Title   string
	Lang    string
	Brand   string
	Heading string
	SEO     seo.Meta

	Path       string
	CSRFToken  string
	IconSprite string
	Langs      []LangLink
	Labels     Labels
}

// Labels are the static strings of the host page around the roster containers.
type Labels struct {
	UpdatedAt     string
	Tabs          string
	NoScript      string
	LangSwitch    string
	LightboxClose string
	LightboxLabel string
}

// LangLink switches the page to another language.
type LangLink struct {
	Code    string
	Label   string
	Href    string
	Current bool
}

// PageOptions carry the request dependent inputs of BuildRosterPage.
type PageOptions struct {
	Path       string
	BaseURL    string
	CSRFToken  string
	IconSprite string
	Supported  []string
}

// Translator looks up a key in a language.
type Translator func(lang, key string) string

// BuildRosterPage constructs the layout view model for lang.
func BuildRosterPage(lang string, t Translator, opts PageOptions) PageData {
	brand := t(lang, "brand.name")
	title := t(lang, "page.title")
	canonical := absoluteURL(opts.BaseURL, opts.Path, "")

	meta := seo.NewMeta(lang, brand, title+" · "+brand, t(lang, "page.description"), canonical)
	meta.JSONLD = []string{
		seo.JSON(seo.WebSite(brand, absoluteURL(opts.BaseURL, "/", ""), lang)),
		seo.JSON(seo.SportsOrganization(brand, absoluteURL(opts.BaseURL, "/", ""), "")),
	}

	langs := make([]LangLink, 0, len(opts.Supported))
	for _, code := range opts.Supported {
		href := "?hl=" + url.QueryEscape(code)
		langs = append(langs, LangLink{
			Code:    code,
			Label:   t(code, "page.lang_name"),
			Href:    href,
			Current: code == lang,
		})
		meta.Alternates = append(meta.Alternates, seo.Alternate{
			Href:     absoluteURL(opts.BaseURL, opts.Path, code),
			Hreflang: code,
		})
	}

	return PageData{
		Title:      meta.Title,
		Lang:       lang,
		Brand:      brand,
		Heading:    t(lang, "page.heading"),
		SEO:        meta,
		Path:       opts.Path,
		CSRFToken:  opts.CSRFToken,
		IconSprite: opts.IconSprite,
		Langs:      langs,
		Labels: Labels{
			UpdatedAt:     t(lang, "page.updated_at"),
			Tabs:          t(lang, "page.tabs_label"),
			NoScript:      t(lang, "page.noscript"),
			LangSwitch:    t(lang, "page.lang_switch"),
			LightboxClose: t(lang, "roster.lightbox.close"),
			LightboxLabel: t(lang, "roster.lightbox.label"),
		},
	}
}

// absoluteURL joins base and path, adding ?hl=lang when lang is set. Without
// a base the path is returned as is.
func absoluteURL(base, path, lang string) string {
	if path == "" {
		path = "/"
	}
	u, err := url.Parse(base)
	if err != nil || base == "" {
		u = &url.URL{}
	}
	ref, err := url.Parse(path)
	if err != nil {
		ref = &url.URL{Path: "/"}
	}
	out := u.ResolveReference(ref)
	if lang != "" {
		q := out.Query()
		q.Set("hl", lang)
		out.RawQuery = q.Encode()
	}
	return out.String()
}
