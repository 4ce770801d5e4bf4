package roster

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"eraleague.org/roster-web/internal/dom"
)

const lightboxOpenClass = "is-open"

// Lightbox shows an enlarged player photo in the host page overlay.
type Lightbox struct {
	overlay  *html.Node
	image    *html.Node
	altText  string
	trigger  string
	escArmed bool
}

func newLightbox(overlay, image *html.Node, fallbackAlt string) *Lightbox {
	return &Lightbox{overlay: overlay, image: image, altText: fallbackAlt}
}

// Available reports whether the host page has both the overlay and its image.
func (l *Lightbox) Available() bool {
	return l != nil && l.overlay != nil && l.image != nil
}

// IsOpen reports whether the overlay is shown.
func (l *Lightbox) IsOpen() bool {
	return l.Available() && dom.HasClass(l.overlay, lightboxOpenClass)
}

// EscapeArmed reports whether Escape currently closes the overlay.
func (l *Lightbox) EscapeArmed() bool { return l != nil && l.escArmed }

// Overlay returns the overlay element.
func (l *Lightbox) Overlay() *html.Node {
	if l == nil {
		return nil
	}
	return l.overlay
}

// IsCloser reports whether n is the overlay itself or a close control.
func (l *Lightbox) IsCloser(n *html.Node) bool {
	if !l.Available() || n == nil {
		return false
	}
	if n == l.overlay {
		return true
	}
	if !dom.Contains(l.overlay, n) {
		return false
	}
	return dom.HasAttr(n, "data-lightbox-close")
}

// Open shows src in the overlay and remembers triggerID for focus restoration.
// It does nothing without a source or without the overlay nodes.
func (l *Lightbox) Open(src, alt, triggerID string) bool {
	if !l.Available() || src == "" {
		return false
	}
	if alt == "" {
		alt = l.altText
	}
	l.trigger = triggerID
	dom.SetAttr(l.image, "src", src)
	dom.SetAttr(l.image, "alt", alt)
	dom.RemoveAttr(l.overlay, "hidden")
	dom.AddClass(l.overlay, lightboxOpenClass)
	l.escArmed = true
	return true
}

// Close hides the overlay and clears the image. It returns the id of the
// element that should regain focus, or "" when the trigger is gone or not focusable.
func (l *Lightbox) Close(doc *html.Node) (string, bool) {
	if !l.Available() {
		return "", false
	}
	dom.RemoveClass(l.overlay, lightboxOpenClass)
	dom.SetAttr(l.overlay, "hidden", "")
	dom.SetAttr(l.image, "src", "")

	focus := ""
	if l.trigger != "" {
		if n := dom.FindByID(doc, l.trigger); n != nil && focusable(n) {
			focus = l.trigger
		}
	}
	l.trigger = ""
	l.escArmed = false
	return focus, true
}

func focusable(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if dom.HasAttr(n, "disabled") {
		return false
	}
	if dom.HasAttr(n, "tabindex") {
		return true
	}
	switch n.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea:
		return true
	case atom.A:
		return dom.HasAttr(n, "href")
	}
	return false
}
