package roster

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"eraleague.org/roster-web/internal/dom"
	"eraleague.org/roster-web/internal/league"
)

const hostPage = `<!doctype html>
<html lang="ru"><body>
<p class="updated">Обновлено: <time data-updated-at>—</time></p>
<div class="tabs" data-division-tabs role="tablist"></div>
<div data-division-panel></div>
<button type="button" id="stray" data-intent="open-photo" data-lightbox-trigger data-lightbox-src="/stray.jpg">stray</button>
<div class="lightbox" data-lightbox hidden>
  <div class="lightbox__dialog">
    <button type="button" class="lightbox__close" data-lightbox-close>×</button>
    <img data-lightbox-image alt="">
  </div>
</div>
</body></html>`

func rating(v float64) *float64 { return &v }

func parseHost(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func newController(t *testing.T) *Controller {
	t.Helper()
	c, err := New(parseHost(t, hostPage), Options{Lang: "ru"})
	require.NoError(t, err)
	return c
}

func query(c *Controller, selector string) *goquery.Selection {
	return dom.Query(c.doc, selector)
}

func panelHTML(t *testing.T, c *Controller) string {
	t.Helper()
	out, err := dom.Render(c.box.Panel)
	require.NoError(t, err)
	return out
}

// scenarioA is a division without groups: one rated pair and a CTA.
func scenarioA() *league.Snapshot {
	return &league.Snapshot{
		UpdatedAt: "2025-03-01T12:00:00Z",
		Divisions: []league.Division{{
			ID:    "d1",
			Title: "Первый дивизион",
			Entries: []league.Entry{
				league.Team{Players: []league.Player{
					{Name: "A", Rating: rating(4.20), Photo: "/img/a.jpg"},
					{Name: "B", Rating: rating(4.50)},
				}},
				league.CTA{Title: "Присоединяйтесь", Action: &league.Action{Href: "https://t.me/league"}},
			},
		}},
	}
}

// scenarioB is a grouped division with a gold threshold of 4.0.
func scenarioB() *league.Snapshot {
	return &league.Snapshot{
		Divisions: []league.Division{{
			ID:           "pro",
			Title:        "Профи",
			DefaultGroup: league.TierGold,
			Groups: []league.Group{
				{ID: league.TierGold, Label: "Золото"},
				{ID: league.TierSilver, Label: "Серебро"},
			},
			Thresholds: &league.Thresholds{Gold: rating(4.0)},
			Entries: []league.Entry{
				league.Team{Players: []league.Player{{Name: "G1", Rating: rating(4.5)}, {Name: "G2", Rating: rating(4.5)}}},
				league.Team{Players: []league.Player{{Name: "S1", Rating: rating(3.5)}, {Name: "S2", Rating: rating(3.5)}}},
				league.CTA{Title: "Ещё места"},
			},
		}},
	}
}

func twoDivisions() *league.Snapshot {
	snap := scenarioB()
	snap.Divisions = append(snap.Divisions, scenarioA().Divisions...)
	return snap
}

func TestNewRequiresContainers(t *testing.T) {
	_, err := New(parseHost(t, `<html><body><div data-division-tabs></div></body></html>`), Options{})
	assert.ErrorIs(t, err, ErrMissingContainers)

	_, err = New(parseHost(t, `<html><body><div data-division-panel></div></body></html>`), Options{})
	assert.ErrorIs(t, err, ErrMissingContainers)
}

func TestLoadRendersDivisionWithoutGroups(t *testing.T) {
	c := newController(t)
	res := c.Load(scenarioA())
	assert.True(t, res.Has(RegionTabs))
	assert.True(t, res.Has(RegionPanel))
	assert.True(t, res.Has(RegionUpdatedAt))

	assert.Equal(t, "A — B", query(c, ".team-card__title").First().Text())
	assert.Equal(t, "СР. РЕЙТИНГ 4,35", query(c, ".pill--rating").Text())
	assert.Equal(t, 0, query(c, ".card-section__tabs").Length(), "no group tabs without groups")

	cards := query(c, ".team-grid > article")
	require.Equal(t, 2, cards.Length())
	assert.True(t, cards.Last().HasClass("team-card--cta"), "CTA follows the teams")

	tab := query(c, "#division-tab-d1")
	assert.Equal(t, "true", tab.AttrOr("aria-selected", ""))
	assert.Equal(t, "Первый дивизион", tab.Text())
	assert.Contains(t, query(c, "[data-updated-at]").Text(), "2025")
}

func TestLoadDefaultsToFirstDivisionAndAuthoredGroup(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())

	st := c.State()
	assert.Equal(t, "pro", st.ActiveDivisionID)
	assert.Equal(t, league.TierGold, st.ActiveGroup["pro"])
	assert.Equal(t, league.AllGroupID, st.ActiveGroup["d1"])
}

func TestGroupSelectionFiltersTeams(t *testing.T) {
	c := newController(t)
	c.Load(scenarioB())

	titles := func() []string {
		var out []string
		query(c, ".team-card:not(.team-card--cta) .team-card__title").Each(func(_ int, s *goquery.Selection) {
			out = append(out, s.Text())
		})
		return out
	}
	assert.Equal(t, []string{"G1 — G2"}, titles())
	assert.Equal(t, 1, query(c, ".team-card--cta").Length(), "CTA shows in every group")

	res := c.SetActiveGroup("pro", league.TierSilver)
	assert.Equal(t, []Region{RegionPanel}, res.Regions)
	assert.Equal(t, []string{"S1 — S2"}, titles())

	c.SetActiveGroup("pro", league.AllGroupID)
	assert.Equal(t, []string{"G1 — G2", "S1 — S2"}, titles())

	groupTabs := query(c, ".tabs--sub [role=tab]")
	require.Equal(t, 3, groupTabs.Length())
	assert.Equal(t, "Все", groupTabs.First().Text())
	assert.Equal(t, "true", groupTabs.First().AttrOr("aria-selected", ""))
}

func TestSelectionIsUnchangedBySameValue(t *testing.T) {
	c := newController(t)
	c.Load(scenarioB())
	assert.True(t, c.SetActiveGroup("pro", league.TierGold).Empty())
	assert.True(t, c.SetActiveDivision("pro").Empty())
}

func TestRenderErrorShowsMessageOnly(t *testing.T) {
	c := newController(t)
	c.Load(scenarioA())

	res := c.RenderError("HTTP 500")
	assert.Equal(t, []Region{RegionPanel}, res.Regions)
	assert.Equal(t, "HTTP 500", dom.TextContent(c.box.Panel))
	assert.Equal(t, 1, query(c, "[data-division-panel] .card-section__hint").Length())

	c.RenderError("")
	assert.Equal(t, DefaultCopy().LoadErrorGeneric, dom.TextContent(c.box.Panel))
}

func TestUnknownDivisionShowsHint(t *testing.T) {
	c := newController(t)
	c.Load(scenarioA())
	c.SetActiveDivision("missing")
	assert.Equal(t, DefaultCopy().DivisionNotFound, dom.TextContent(c.box.Panel))

	c.EnsureActiveDivision()
	assert.Equal(t, "d1", c.State().ActiveDivisionID)
}

func TestEmptySnapshotRendersNothing(t *testing.T) {
	c := newController(t)
	c.Load(&league.Snapshot{})
	assert.Nil(t, c.box.Tabs.FirstChild)
	assert.Nil(t, c.box.Panel.FirstChild)
	assert.Equal(t, "", c.State().ActiveDivisionID)
}

func TestEmptyDivisionShowsEmptyHint(t *testing.T) {
	c := newController(t)
	c.Load(&league.Snapshot{Divisions: []league.Division{{ID: "x"}}})
	assert.Equal(t, DefaultCopy().Empty, query(c, ".card-section__hint").Text())
	assert.Equal(t, DefaultCopy().DivisionTitle, query(c, ".card-section__title").Text())
	assert.Equal(t, "Дивизион 1", query(c, "#division-tab-x").Text())
}

func TestRenderingIsIdempotent(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())
	before := panelHTML(t, c)

	c.Load(twoDivisions())
	assert.Equal(t, before, panelHTML(t, c))

	c.SetActiveDivision("d1")
	c.SetActiveDivision("pro")
	assert.Equal(t, before, panelHTML(t, c))
}

func TestGroupSelectionIsPerDivision(t *testing.T) {
	snap := twoDivisions()
	am := scenarioB().Divisions[0]
	am.ID = "am"
	snap.Divisions = append(snap.Divisions, am)

	c := newController(t)
	c.Load(snap)
	require.Equal(t, league.AllGroupID, c.State().ActiveGroup["d1"])

	c.SetActiveGroup("pro", league.TierSilver)
	st := c.State()
	assert.Equal(t, league.TierGold, st.ActiveGroup["am"], "other grouped division keeps its group")
	assert.Equal(t, league.AllGroupID, st.ActiveGroup["d1"])

	c.SetActiveDivision("d1")
	c.SetActiveDivision("pro")
	st = c.State()
	assert.Equal(t, league.TierSilver, st.ActiveGroup["pro"], "returning restores the earlier choice")
	assert.Equal(t, league.AllGroupID, st.ActiveGroup["d1"])
	assert.Equal(t, league.TierGold, st.ActiveGroup["am"])

	assert.Equal(t, "true", query(c, "#"+GroupTabID("pro", league.TierSilver)).AttrOr("aria-selected", ""))
	titles := query(c, ".team-card:not(.team-card--cta) .team-card__title")
	require.Equal(t, 1, titles.Length())
	assert.Equal(t, "S1 — S2", titles.Text())
}

func TestControllersDoNotShareState(t *testing.T) {
	a, b := newController(t), newController(t)
	a.Load(twoDivisions())
	b.Load(twoDivisions())
	assert.NotEqual(t, a.ID(), b.ID())

	a.SetActiveDivision("d1")
	assert.Equal(t, "pro", b.State().ActiveDivisionID)

	st := a.State()
	st.ActiveGroup["pro"] = "changed"
	assert.Equal(t, league.TierGold, a.State().ActiveGroup["pro"], "State returns a copy")
}

func TestFragmentsMarkOutOfBandSwaps(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())

	res := c.SetActiveDivision("d1")
	out, err := c.Fragments(res)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, `hx-swap-oob="true"`))
	assert.Contains(t, out, `id="roster-division-tabs"`)
	assert.Contains(t, out, `id="roster-division-panel"`)

	raw, err := dom.Render(c.box.Tabs)
	require.NoError(t, err)
	assert.NotContains(t, raw, "hx-swap-oob", "document is left untouched")
}

func TestRenderWritesDocument(t *testing.T) {
	c := newController(t)
	c.Load(scenarioA())
	var sb strings.Builder
	require.NoError(t, c.Render(&sb))
	assert.Contains(t, sb.String(), "A — B")
	assert.Contains(t, sb.String(), `data-intent="close-lightbox"`)
}

func TestDispatchTogglesStatusList(t *testing.T) {
	c := newController(t)
	snap := scenarioA()
	team := snap.Divisions[0].Entries[0].(league.Team)
	team.Statuses = []string{"Ищем замену", "Оплачено", "Капитан: A"}
	snap.Divisions[0].Entries[0] = team
	c.Load(snap)

	toggle := "team-d1-1-status-toggle"
	assert.Equal(t, "Ещё", query(c, "#"+toggle).Text())

	res := c.Dispatch(context.Background(), Event{Type: EventClick, Target: toggle})
	assert.Equal(t, []string{"team-d1-1-status"}, res.Elements)
	assert.Equal(t, toggle, res.Focus)
	assert.Equal(t, "Скрыть", query(c, "#"+toggle).Text())
	assert.Equal(t, "true", query(c, "#"+toggle).AttrOr("aria-expanded", ""))
	assert.Equal(t, "false", query(c, "#team-d1-1-status-extra").AttrOr("aria-hidden", ""))

	c.Dispatch(context.Background(), Event{Type: EventClick, Target: toggle})
	assert.Equal(t, "Ещё", query(c, "#"+toggle).Text())
	assert.Equal(t, "true", query(c, "#team-d1-1-status-extra").AttrOr("aria-hidden", ""))
}
