package roster

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"

	"eraleague.org/roster-web/internal/dom"
	"eraleague.org/roster-web/internal/observability"
)

// Event types posted by the page.
const (
	EventClick   = "click"
	EventKeydown = "keydown"
)

// Keys the page forwards on keydown.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Event is a user interaction reported by the page. Target is the id of the
// element the interaction happened on.
type Event struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Key    string `json:"key,omitempty"`
}

type intentHandler func(c *Controller, el *html.Node) Result

var intents = map[string]intentHandler{
	IntentSelectDivision: (*Controller).onSelectDivision,
	IntentSelectGroup:    (*Controller).onSelectGroup,
	IntentOpenPhoto:      (*Controller).onOpenPhoto,
	IntentToggleStatus:   (*Controller).onToggleStatus,
	IntentCloseLightbox:  (*Controller).onCloseLightbox,
}

// Dispatch applies ev to the page and reports what changed. Unknown events,
// targets and keys change nothing.
func (c *Controller) Dispatch(ctx context.Context, ev Event) Result {
	_, span := observability.Tracer().Start(ctx, "roster.Dispatch")
	span.SetAttributes(
		attribute.String("roster.event.type", ev.Type),
		attribute.String("roster.event.target", ev.Target),
	)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case EventClick:
		return c.click(ev.Target)
	case EventKeydown:
		return c.keydown(ev.Target, ev.Key)
	default:
		return Result{}
	}
}

func (c *Controller) click(target string) Result {
	el := dom.FindByID(c.doc, target)
	if el == nil {
		return Result{}
	}
	if c.lightbox.IsCloser(el) {
		return c.closeLightbox()
	}
	owner := dom.Closest(el, func(n *html.Node) bool { return dom.HasAttr(n, "data-intent") })
	if owner == nil {
		return Result{}
	}
	return c.activate(owner)
}

func (c *Controller) activate(el *html.Node) Result {
	h, ok := intents[dom.AttrValue(el, "data-intent")]
	if !ok {
		return Result{}
	}
	return h(c, el)
}

func (c *Controller) keydown(target, key string) Result {
	switch key {
	case KeyEscape:
		if c.lightbox.EscapeArmed() {
			return c.closeLightbox()
		}
		return Result{}
	case KeyArrowLeft, KeyArrowRight:
		return c.moveTab(target, key == KeyArrowRight)
	default:
		return Result{}
	}
}

// moveTab activates the previous or next tab of the tab list that contains
// target, wrapping around at both ends.
func (c *Controller) moveTab(target string, forward bool) Result {
	el := dom.FindByID(c.doc, target)
	if el == nil || dom.AttrValue(el, "role") != "tab" {
		return Result{}
	}
	list := dom.Closest(el.Parent, func(n *html.Node) bool {
		return dom.AttrValue(n, "role") == "tablist" || n == c.box.Tabs
	})
	if list == nil {
		return Result{}
	}
	tabs := dom.Query(list, `[role="tab"]`).Nodes
	idx := -1
	for i, t := range tabs {
		if t == el {
			idx = i
			break
		}
	}
	if idx < 0 || len(tabs) == 0 {
		return Result{}
	}
	step := -1
	if forward {
		step = 1
	}
	next := tabs[(idx+step+len(tabs))%len(tabs)]
	nextID := dom.AttrValue(next, "id")

	res := c.activate(next)
	res.Focus = nextID
	return res
}

func (c *Controller) onSelectDivision(el *html.Node) Result {
	id, ok := dom.GetAttr(el, "data-division-id")
	if !ok {
		return Result{}
	}
	return c.setActiveDivision(id)
}

func (c *Controller) onSelectGroup(el *html.Node) Result {
	div := dom.AttrValue(el, "data-division-id")
	group := dom.AttrValue(el, "data-group-id")
	if div == "" || group == "" {
		return Result{}
	}
	return c.setActiveGroup(div, group)
}

func (c *Controller) onOpenPhoto(el *html.Node) Result {
	if !dom.Contains(c.box.Panel, el) || !dom.HasAttr(el, "data-lightbox-trigger") {
		return Result{}
	}
	src := dom.AttrValue(el, "data-lightbox-src")
	if !c.lightbox.Open(src, dom.AttrValue(el, "data-lightbox-alt"), dom.AttrValue(el, "id")) {
		return Result{}
	}
	return Result{Regions: []Region{RegionLightbox}}
}

func (c *Controller) onToggleStatus(el *html.Node) Result {
	extra := dom.FindByID(c.doc, dom.AttrValue(el, "data-controls"))
	if extra == nil {
		return Result{}
	}
	c.render.ToggleStatus(el, extra)
	footer := dom.Closest(el, func(n *html.Node) bool { return dom.HasClass(n, "team-card__footer") })
	res := Result{Focus: dom.AttrValue(el, "id")}
	if id := dom.AttrValue(footer, "id"); id != "" {
		res.Elements = []string{id}
	}
	return res
}

func (c *Controller) onCloseLightbox(*html.Node) Result {
	return c.closeLightbox()
}

func (c *Controller) closeLightbox() Result {
	focus, ok := c.lightbox.Close(c.doc)
	if !ok {
		return Result{}
	}
	return Result{Regions: []Region{RegionLightbox}, Focus: focus}
}
