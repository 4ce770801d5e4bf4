// Package seo builds the head metadata and schema.org payloads of the roster page.
package seo

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Title string
	Image string
}

// Alternate is a hreflang link to the same page in another language.
type Alternate struct {
	Href     string
	Hreflang string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []string
}

// ogLocales maps page languages to OpenGraph locale codes.
var ogLocales = map[string]string{
	"ru": "ru_RU",
	"en": "en_US",
}

// NewMeta fills a page Meta with OpenGraph and Twitter defaults derived from
// title and description.
func NewMeta(lang, siteName, title, description, canonical string) Meta {
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Robots:      "index,follow",
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Type:        "website",
			URL:         canonical,
			SiteName:    siteName,
			Locale:      ogLocales[lang],
		},
		Twitter: Twitter{Card: "summary", Title: title},
	}
}
