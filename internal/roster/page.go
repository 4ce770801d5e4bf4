package roster

import (
	"errors"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"eraleague.org/roster-web/internal/dom"
)

// ErrMissingContainers is returned by Mount when the host page lacks the tab
// strip or the panel container. Nothing is rendered in that case.
var ErrMissingContainers = errors.New("roster: tab strip or panel container missing")

// Default ids given to host containers that have none, so that regions can be
// swapped by id.
const (
	defaultTabsID      = "roster-division-tabs"
	defaultPanelID     = "roster-division-panel"
	defaultUpdatedID   = "roster-updated-at"
	defaultLightboxID  = "roster-lightbox"
	defaultImageID     = "roster-lightbox-image"
	lightboxPartPrefix = "roster-lightbox-part-"
)

// Containers are the host page elements the roster renders into.
type Containers struct {
	Root          *html.Node
	Tabs          *html.Node
	Panel         *html.Node
	UpdatedAt     *html.Node
	Lightbox      *html.Node
	LightboxImage *html.Node
	Closers       []*html.Node
}

// Mount locates the roster containers in doc and prepares them for event
// dispatch: every container and every element inside the lightbox gets an id,
// and close controls get the close intent.
func Mount(doc *html.Node) (Containers, error) {
	root := goquery.NewDocumentFromNode(doc)
	c := Containers{
		Root:      first(root.Find("[data-roster-page]")),
		Tabs:      first(root.Find("[data-division-tabs]")),
		Panel:     first(root.Find("[data-division-panel]")),
		UpdatedAt: first(root.Find("[data-updated-at]")),
		Lightbox:  first(root.Find("[data-lightbox]")),
	}
	if c.Tabs == nil || c.Panel == nil {
		return Containers{}, ErrMissingContainers
	}
	ensureID(c.Tabs, defaultTabsID)
	ensureID(c.Panel, defaultPanelID)
	if c.UpdatedAt != nil {
		ensureID(c.UpdatedAt, defaultUpdatedID)
	}

	if c.Lightbox == nil {
		return c, nil
	}
	ensureID(c.Lightbox, defaultLightboxID)
	box := goquery.NewDocumentFromNode(c.Lightbox)
	c.LightboxImage = first(box.Find("[data-lightbox-image]"))
	if c.LightboxImage != nil {
		ensureID(c.LightboxImage, defaultImageID)
	}
	box.Find("[data-lightbox-close]").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		dom.SetAttr(n, "data-intent", IntentCloseLightbox)
		c.Closers = append(c.Closers, n)
	})
	// the dispatcher only learns which element was clicked through its id
	i := 0
	box.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if !dom.HasAttr(n, "id") {
			i++
			dom.SetAttr(n, "id", lightboxPartPrefix+strconv.Itoa(i))
		}
	})
	return c, nil
}

func first(s *goquery.Selection) *html.Node {
	if s == nil || s.Length() == 0 {
		return nil
	}
	return s.Get(0)
}

func ensureID(n *html.Node, fallback string) string {
	if id := dom.AttrValue(n, "id"); id != "" {
		return id
	}
	dom.SetAttr(n, "id", fallback)
	return fallback
}
