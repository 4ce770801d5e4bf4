package roster

import (
	"strconv"

	"golang.org/x/net/html"

	"eraleague.org/roster-web/internal/dom"
	"eraleague.org/roster-web/internal/league"
)

// DivisionTabID is the id of a division's tab button.
func DivisionTabID(divisionID string) string { return "division-tab-" + divisionID }

// DivisionPanelID is the id of a division's tab panel.
func DivisionPanelID(divisionID string) string { return "division-panel-" + divisionID }

// GroupTabID is the id of a group tab button within a division.
func GroupTabID(divisionID, groupID string) string {
	return "division-" + divisionID + "-group-" + groupID
}

func selectedAttrs(selected bool) (string, string) {
	if selected {
		return "true", "0"
	}
	return "false", "-1"
}

// DivisionTabs renders one tab button per division, in snapshot order.
func (r *Renderer) DivisionTabs(snap *league.Snapshot, activeID string) []*html.Node {
	if snap == nil {
		return nil
	}
	tabs := make([]*html.Node, 0, len(snap.Divisions))
	for i, d := range snap.Divisions {
		label := d.Title
		if label == "" {
			label = r.copy.divisionTab(i)
		}
		ariaSelected, tabindex := selectedAttrs(d.ID == activeID)
		tabs = append(tabs, dom.El("button",
			dom.Class("tabs__button"),
			dom.Attrs(
				"type", "button",
				"role", "tab",
				"id", DivisionTabID(d.ID),
				"aria-controls", DivisionPanelID(d.ID),
				"aria-selected", ariaSelected,
				"tabindex", tabindex,
				"data-intent", IntentSelectDivision,
				"data-division-id", d.ID,
			),
			dom.Text(label),
		))
	}
	return tabs
}

// GroupTabs renders the group tab list of a division, or nil when it has no groups.
func (r *Renderer) GroupTabs(d league.Division, activeGroup string) *html.Node {
	groups := league.BuildGroupList(d, r.copy.GroupAll)
	if len(groups) == 0 {
		return nil
	}
	tablist := dom.El("div", dom.Class("tabs", "tabs--sub"), dom.Attr("role", "tablist"))
	for _, g := range groups {
		ariaSelected, tabindex := selectedAttrs(g.ID == activeGroup)
		dom.Append(tablist, dom.El("button",
			dom.Class("tabs__button", "tabs__button--group-"+g.ID),
			dom.Attrs(
				"type", "button",
				"role", "tab",
				"id", GroupTabID(d.ID, g.ID),
				"aria-controls", DivisionPanelID(d.ID),
				"aria-selected", ariaSelected,
				"tabindex", tabindex,
				"data-intent", IntentSelectGroup,
				"data-division-id", d.ID,
				"data-group-id", g.ID,
			),
			dom.Text(g.Label),
		))
	}
	return dom.El("div", dom.Class("card-section__tabs"), dom.Children(tablist))
}

// Panel renders the tab panel of a division with the entries visible under activeGroup.
func (r *Renderer) Panel(d league.Division, activeGroup string) *html.Node {
	section := dom.El("section", dom.Class("card-section"), dom.Attrs(
		"role", "tabpanel",
		"id", DivisionPanelID(d.ID),
		"aria-labelledby", DivisionTabID(d.ID),
	))

	title := d.Title
	if title == "" {
		title = r.copy.DivisionTitle
	}
	head := dom.El("header", dom.Class("card-section__head"), dom.Children(
		dom.El("h2", dom.Class("card-section__title"), dom.Text(title)),
	))
	if d.Subtitle != "" {
		dom.Append(head, r.Hint(d.Subtitle))
	}
	dom.Append(head, r.GroupTabs(d, activeGroup))
	dom.Append(section, head)

	teams, ctas := league.SplitEntries(d, activeGroup)
	if len(teams) == 0 && len(ctas) == 0 {
		dom.Append(section, r.Hint(r.copy.Empty))
		return section
	}

	grid := dom.El("div", dom.Class("team-grid"))
	for i, t := range teams {
		dom.Append(grid, r.TeamCard(t, cardKey(d.ID, i)))
	}
	for _, c := range ctas {
		dom.Append(grid, r.CTACard(c))
	}
	dom.Append(section, grid)
	return section
}

// Hint renders a card-section__hint paragraph.
func (r *Renderer) Hint(text string) *html.Node {
	return dom.El("p", dom.Class("card-section__hint"), dom.Text(text))
}

func cardKey(divisionID string, index int) string {
	return "team-" + divisionID + "-" + strconv.Itoa(index+1)
}
