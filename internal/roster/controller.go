// Package roster renders the division tabs, the team card panel and the photo
// lightbox into a live host page document and applies user intents to it.
package roster

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"eraleague.org/roster-web/internal/dom"
	"eraleague.org/roster-web/internal/format"
	"eraleague.org/roster-web/internal/league"
)

// Region names a host container that a transition re-rendered.
type Region string

const (
	RegionTabs      Region = "tabs"
	RegionPanel     Region = "panel"
	RegionUpdatedAt Region = "updated-at"
	RegionLightbox  Region = "lightbox"
)

// Result describes what a transition changed: whole regions, single elements
// by id, and the element that should receive focus.
type Result struct {
	Regions  []Region
	Elements []string
	Focus    string
}

// Empty reports whether nothing changed.
func (r Result) Empty() bool {
	return len(r.Regions) == 0 && len(r.Elements) == 0 && r.Focus == ""
}

// Has reports whether region was re-rendered.
func (r Result) Has(region Region) bool {
	for _, g := range r.Regions {
		if g == region {
			return true
		}
	}
	return false
}

// State is the UI selection of one page.
type State struct {
	Data             *league.Snapshot
	ActiveDivisionID string
	ActiveGroup      map[string]string
}

// Options configure a Controller.
type Options struct {
	Lang       string
	Copy       Copy
	IconSprite string
	Location   *time.Location
}

// Controller owns the state and the document of one open page. All methods
// are safe for concurrent use; transitions on a page are serialized.
type Controller struct {
	mu       sync.Mutex
	id       string
	doc      *html.Node
	box      Containers
	render   *Renderer
	lightbox *Lightbox
	lang     string
	loc      *time.Location
	state    State
}

// New mounts a controller on doc. It fails with ErrMissingContainers when the
// host page lacks the tab strip or the panel.
func New(doc *html.Node, opts Options) (*Controller, error) {
	box, err := Mount(doc)
	if err != nil {
		return nil, err
	}
	if opts.Copy == (Copy{}) {
		opts.Copy = DefaultCopy()
	}
	if opts.IconSprite == "" {
		opts.IconSprite = "/assets/icons.svg"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	id := uuid.NewString()
	if box.Root != nil {
		// the page posts this id back with every event
		dom.SetAttr(box.Root, "data-roster-page", id)
	}
	return &Controller{
		id:       id,
		doc:      doc,
		box:      box,
		render:   NewRenderer(opts.Lang, opts.Copy, opts.IconSprite),
		lightbox: newLightbox(box.Lightbox, box.LightboxImage, opts.Copy.PhotoAlt),
		lang:     opts.Lang,
		loc:      opts.Location,
		state:    State{ActiveGroup: map[string]string{}},
	}, nil
}

// ID identifies the page in the Store.
func (c *Controller) ID() string { return c.id }

// Lang is the page language.
func (c *Controller) Lang() string { return c.lang }

// Copy is the text the page renders with.
func (c *Controller) Copy() Copy { return c.render.Copy() }

// State returns a copy of the current selection.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	groups := make(map[string]string, len(c.state.ActiveGroup))
	for k, v := range c.state.ActiveGroup {
		groups[k] = v
	}
	return State{Data: c.state.Data, ActiveDivisionID: c.state.ActiveDivisionID, ActiveGroup: groups}
}

// Load stores a freshly fetched snapshot and renders everything.
func (c *Controller) Load(snap *league.Snapshot) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap == nil {
		snap = &league.Snapshot{}
	}
	c.state.Data = snap
	c.ensureActiveDivision()
	c.renderTabs()
	c.renderPanel()
	res := Result{Regions: []Region{RegionTabs, RegionPanel}}
	if c.renderUpdatedAt() {
		res.Regions = append(res.Regions, RegionUpdatedAt)
	}
	return res
}

// RenderError replaces the panel content with msg.
func (c *Controller) RenderError(msg string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg == "" {
		msg = c.render.copy.LoadErrorGeneric
	}
	dom.Clear(c.box.Panel)
	dom.Append(c.box.Panel, c.render.Hint(msg))
	return Result{Regions: []Region{RegionPanel}}
}

// SetActiveDivision selects a division and re-renders tabs and panel.
func (c *Controller) SetActiveDivision(id string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setActiveDivision(id)
}

// SetActiveGroup selects a group of a division and re-renders the panel.
func (c *Controller) SetActiveGroup(divisionID, groupID string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setActiveGroup(divisionID, groupID)
}

// EnsureActiveDivision normalizes the selection against the loaded snapshot.
func (c *Controller) EnsureActiveDivision() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureActiveDivision()
}

// Render writes the whole document.
func (c *Controller) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return html.Render(w, c.doc)
}

// Fragments serialises the changed regions and elements as htmx out-of-band swaps.
func (c *Controller) Fragments(res Result) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	oob := html.Attribute{Key: "hx-swap-oob", Val: "true"}
	var buf bytes.Buffer
	write := func(n *html.Node) error {
		if n == nil {
			return nil
		}
		s, err := dom.RenderWith(n, oob)
		if err != nil {
			return err
		}
		buf.WriteString(s)
		return nil
	}
	for _, r := range res.Regions {
		if err := write(c.region(r)); err != nil {
			return "", err
		}
	}
	for _, id := range res.Elements {
		if err := write(dom.FindByID(c.doc, id)); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (c *Controller) region(r Region) *html.Node {
	switch r {
	case RegionTabs:
		return c.box.Tabs
	case RegionPanel:
		return c.box.Panel
	case RegionUpdatedAt:
		return c.box.UpdatedAt
	case RegionLightbox:
		return c.box.Lightbox
	default:
		return nil
	}
}

func (c *Controller) setActiveDivision(id string) Result {
	if c.state.ActiveDivisionID == id {
		return Result{}
	}
	c.state.ActiveDivisionID = id
	c.renderTabs()
	c.renderPanel()
	return Result{Regions: []Region{RegionTabs, RegionPanel}}
}

func (c *Controller) setActiveGroup(divisionID, groupID string) Result {
	if cur, ok := c.state.ActiveGroup[divisionID]; ok && cur == groupID {
		return Result{}
	}
	c.state.ActiveGroup[divisionID] = groupID
	c.renderPanel()
	return Result{Regions: []Region{RegionPanel}}
}

func (c *Controller) ensureActiveDivision() {
	snap := c.state.Data
	if snap == nil || len(snap.Divisions) == 0 {
		c.state.ActiveDivisionID = ""
		return
	}
	if _, ok := snap.Division(c.state.ActiveDivisionID); c.state.ActiveDivisionID == "" || !ok {
		c.state.ActiveDivisionID = snap.Divisions[0].ID
	}
	for _, d := range snap.Divisions {
		if c.state.ActiveGroup[d.ID] == "" {
			c.state.ActiveGroup[d.ID] = initialGroup(d)
		}
	}
}

// initialGroup prefers the authored default when it names an existing group.
func initialGroup(d league.Division) string {
	if d.DefaultGroup != "" && d.HasGroup(d.DefaultGroup) {
		return d.DefaultGroup
	}
	if len(d.Groups) > 0 && d.Groups[0].ID != "" {
		return d.Groups[0].ID
	}
	return league.AllGroupID
}

func (c *Controller) renderTabs() {
	dom.Clear(c.box.Tabs)
	dom.Append(c.box.Tabs, c.render.DivisionTabs(c.state.Data, c.state.ActiveDivisionID)...)
}

func (c *Controller) renderPanel() {
	dom.Clear(c.box.Panel)
	if c.state.ActiveDivisionID == "" || c.state.Data == nil {
		return
	}
	d, ok := c.state.Data.Division(c.state.ActiveDivisionID)
	if !ok {
		dom.Append(c.box.Panel, c.render.Hint(c.render.copy.DivisionNotFound))
		return
	}
	dom.Append(c.box.Panel, c.render.Panel(d, c.state.ActiveGroup[d.ID]))
}

func (c *Controller) renderUpdatedAt() bool {
	if c.box.UpdatedAt == nil || c.state.Data == nil {
		return false
	}
	dom.SetText(c.box.UpdatedAt, format.FmtDateString(c.state.Data.UpdatedAt, c.lang, c.loc))
	return true
}
