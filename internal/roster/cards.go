package roster

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"eraleague.org/roster-web/internal/dom"
	"eraleague.org/roster-web/internal/format"
	"eraleague.org/roster-web/internal/league"
)

// Intent names carried by interactive elements in data-intent.
const (
	IntentSelectDivision = "select-division"
	IntentSelectGroup    = "select-group"
	IntentOpenPhoto      = "open-photo"
	IntentToggleStatus   = "toggle-status"
	IntentCloseLightbox  = "close-lightbox"
)

const (
	maxPlayers  = 2
	photoWidth  = "480"
	photoHeight = "360"
	userIconID  = "icon-user"
	pillNeutral = "neutral"
	pillRating  = "rating"
	pillSolo    = "solo"
	pillLooking = "looking"
	stateSemi   = "semi"
	stateFull   = "full"
)

// Renderer builds roster nodes in one language.
type Renderer struct {
	copy   Copy
	lang   string
	sprite string
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer returns a renderer for lang. sprite is the URL of the icon sprite.
func NewRenderer(lang string, c Copy, sprite string) *Renderer {
	return &Renderer{
		copy:   c,
		lang:   lang,
		sprite: sprite,
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
	}
}

// Copy returns the text the renderer uses.
func (r *Renderer) Copy() Copy { return r.copy }

func (r *Renderer) pill(text, variant string) *html.Node {
	if variant != "" && variant != pillNeutral {
		return dom.El("span", dom.Class("pill", "pill--"+variant), dom.Text(text))
	}
	return dom.El("span", dom.Class("pill"), dom.Text(text))
}

func (r *Renderer) badge(index int) *html.Node {
	b := r.pill(r.copy.playerBadge(index), pillNeutral)
	dom.AddClass(b, "player-tile__badge")
	return b
}

func (r *Renderer) placeholder(text string) *html.Node {
	return dom.El("div", dom.Class("player-tile__placeholder"),
		dom.Children(
			dom.Icon(r.sprite, userIconID, "icon"),
			dom.El("span", dom.Text(text)),
		))
}

// PlayerTile renders one player slot. index is 0-based; photoID identifies the
// photo button for the event dispatcher.
func (r *Renderer) PlayerTile(p league.Player, index int, photoID string) *html.Node {
	media := dom.El("div", dom.Class("player-tile__media"), dom.Children(r.badge(index)))

	if p.Photo != "" {
		alt := p.Name
		if alt == "" {
			alt = r.copy.PhotoAlt
		}
		img := dom.El("img", dom.Attrs(
			"src", p.Photo,
			"alt", alt,
			"loading", "lazy",
			"decoding", "async",
			"width", photoWidth,
			"height", photoHeight,
		))
		dom.Append(media, dom.El("button",
			dom.Class("player-tile__photo"),
			dom.Attrs(
				"type", "button",
				"id", photoID,
				"data-intent", IntentOpenPhoto,
				"data-lightbox-trigger", "true",
				"data-lightbox-src", p.Photo,
				"data-lightbox-alt", alt,
			),
			dom.Children(img),
		))
	} else {
		dom.Append(media, r.placeholder(r.copy.NoPhoto))
	}

	name := p.Name
	if name == "" {
		name = format.Missing
	}
	body := dom.El("div", dom.Class("player-tile__body"), dom.Children(
		dom.El("div", dom.Class("player-tile__name"), dom.Text(name)),
		dom.El("div", dom.Class("player-tile__meta"), dom.Text(r.copy.rating(format.FmtRating(p.Rating, r.lang)))),
	))

	return dom.El("div", dom.Class("player-tile"), dom.Children(media, body))
}

// EmptyTile renders a vacant slot. index is 0-based.
func (r *Renderer) EmptyTile(index int) *html.Node {
	media := dom.El("div", dom.Class("player-tile__media"), dom.Children(
		r.badge(index),
		r.placeholder(r.copy.OpenSlot),
	))
	body := dom.El("div", dom.Class("player-tile__body"), dom.Children(
		dom.El("div", dom.Class("player-tile__name"), dom.Text(format.Missing)),
		dom.El("div", dom.Class("player-tile__meta"), dom.Text(r.copy.rating(format.Missing))),
	))
	return dom.El("div", dom.Class("player-tile", "player-tile--empty"), dom.Children(media, body))
}

// TeamTitle names the card after its players.
func (r *Renderer) TeamTitle(t league.Team, players []league.Player) string {
	var names []string
	for _, p := range players {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	switch {
	case len(names) >= 2:
		return r.copy.pair(names[0], names[1])
	case len(names) == 1:
		return r.copy.openPair(names[0])
	case t.Solo:
		return r.copy.Solo
	default:
		return r.copy.Unnamed
	}
}

// TeamCard renders a team entry. key is unique within the panel and prefixes
// the ids of the card's interactive elements.
func (r *Renderer) TeamCard(t league.Team, key string) *html.Node {
	players := t.Players
	if len(players) > maxPlayers {
		players = players[:maxPlayers]
	}

	state := stateFull
	if t.Solo {
		state = stateSemi
	}
	card := dom.El("article", dom.Class("team-card"), dom.Attr("data-state", state))

	header := dom.El("div", dom.Class("team-card__header"), dom.Children(
		dom.El("h3", dom.Class("team-card__title"), dom.Text(r.TeamTitle(t, players))),
	))

	badges := dom.El("div", dom.Class("team-card__badges"))
	if avg, ok := league.AverageRating(players); ok {
		dom.Append(badges, r.pill(r.copy.average(format.FmtRating(&avg, r.lang)), pillRating))
	}
	if t.Solo {
		dom.Append(badges, r.pill(r.copy.Solo, pillSolo))
	}
	if t.Note != "" {
		variant := noteVariant(t.NoteType)
		if !(t.Solo && variant == pillSolo) {
			dom.Append(badges, r.pill(t.Note, variant))
		}
	}
	if badges.FirstChild != nil {
		dom.Append(header, badges)
	}

	body := dom.El("div", dom.Class("team-card__body"))
	for i, p := range players {
		dom.Append(body, r.PlayerTile(p, i, key+"-photo-"+strconv.Itoa(i+1)))
	}
	for i := len(players); i < maxPlayers; i++ {
		dom.Append(body, r.EmptyTile(i))
	}

	dom.Append(card, header, body, r.StatusFooter(t, players, key))
	return card
}

func noteVariant(noteType string) string {
	switch noteType {
	case pillLooking:
		return pillLooking
	case pillSolo:
		return pillSolo
	default:
		return pillNeutral
	}
}

// Statuses returns the statuses shown in the footer, including the photo hint
// when every rendered player lacks a photo.
func (r *Renderer) Statuses(t league.Team, players []league.Player) []string {
	statuses := make([]string, 0, len(t.Statuses)+1)
	for _, s := range t.Statuses {
		if s != "" {
			statuses = append(statuses, s)
		}
	}
	if len(players) == 0 {
		return statuses
	}
	for _, p := range players {
		if p.Photo != "" {
			return statuses
		}
	}
	for _, s := range statuses {
		if s == r.copy.PhotoHint {
			return statuses
		}
	}
	return append(statuses, r.copy.PhotoHint)
}

// StatusFooter renders the status list, or nil when there is nothing to show.
func (r *Renderer) StatusFooter(t league.Team, players []league.Player, key string) *html.Node {
	statuses := r.Statuses(t, players)
	if len(statuses) == 0 {
		return nil
	}

	footer := dom.El("div", dom.Class("team-card__footer"), dom.Attr("id", key+"-status"))
	list := dom.El("div", dom.Class("status-list"), dom.Children(
		dom.El("span", dom.Class("status-list__item"), dom.Text(statuses[0])),
	))
	dom.Append(footer, list)
	if len(statuses) == 1 {
		return footer
	}

	extraID := key + "-status-extra"
	extra := dom.El("div", dom.Class("status-list__extra"), dom.Attrs("id", extraID, "aria-hidden", "true"))
	for _, s := range statuses[1:] {
		dom.Append(extra, dom.El("div", dom.Class("status-list__extra-item"), dom.Text(s)))
	}
	dom.Append(list, extra)

	dom.Append(footer, dom.El("button",
		dom.Class("status-toggle"),
		dom.Attrs(
			"type", "button",
			"id", key+"-status-toggle",
			"aria-expanded", "false",
			"aria-controls", extraID,
			"data-intent", IntentToggleStatus,
			"data-controls", extraID,
		),
		dom.Text(r.copy.StatusMore),
	))
	return footer
}

// ToggleStatus flips the expanded state of a status toggle and its list.
func (r *Renderer) ToggleStatus(toggle, extra *html.Node) {
	expanded := dom.AttrValue(toggle, "aria-expanded") == "true"
	if expanded {
		dom.SetAttr(toggle, "aria-expanded", "false")
		dom.SetAttr(extra, "aria-hidden", "true")
		dom.SetText(toggle, r.copy.StatusMore)
		return
	}
	dom.SetAttr(toggle, "aria-expanded", "true")
	dom.SetAttr(extra, "aria-hidden", "false")
	dom.SetText(toggle, r.copy.StatusLess)
}

// CTACard renders a call-to-action entry.
func (r *Renderer) CTACard(c league.CTA) *html.Node {
	title := c.Title
	if title == "" {
		title = r.copy.CTATitle
	}
	card := dom.El("article", dom.Class("team-card", "team-card--cta"), dom.Children(
		dom.El("div", dom.Class("team-card__header"), dom.Children(
			dom.El("h3", dom.Class("team-card__title"), dom.Text(title)),
		)),
	))

	body := dom.El("div", dom.Class("team-card__body", "team-card__body--cta"))
	if c.Description != "" {
		dom.Append(body, r.Description(c.Description))
	}
	if c.Action != nil && c.Action.Href != "" {
		label := c.Action.Label
		if label == "" {
			label = r.copy.CTAAction
		}
		dom.Append(body, dom.El("div", dom.Class("team-card__actions"), dom.Children(
			dom.El("a", dom.Class("button", "button--primary"), dom.Attrs(
				"href", c.Action.Href,
				"target", "_blank",
				"rel", "noopener",
			), dom.Text(label)),
		)))
	}
	dom.Append(card, body)
	return card
}

// Description renders Markdown as sanitized HTML. A single paragraph becomes
// p.team-card__description; anything else is wrapped in a div with that class.
func (r *Renderer) Description(src string) *html.Node {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return dom.El("p", dom.Class("team-card__description"), dom.Text(src))
	}
	safe := r.policy.SanitizeBytes(buf.Bytes())

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(safe), ctx)
	if err != nil {
		return dom.El("p", dom.Class("team-card__description"), dom.Text(src))
	}

	var blocks []*html.Node
	for _, n := range nodes {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		blocks = append(blocks, n)
	}
	if len(blocks) == 1 && blocks[0].Type == html.ElementNode && blocks[0].DataAtom == atom.P {
		p := blocks[0]
		p.Attr = nil
		dom.SetAttr(p, "class", "team-card__description")
		return p
	}
	wrap := dom.El("div", dom.Class("team-card__description"))
	dom.Append(wrap, blocks...)
	return wrap
}
