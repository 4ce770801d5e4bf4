package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func click(c *Controller, target string) Result {
	return c.Dispatch(context.Background(), Event{Type: EventClick, Target: target})
}

func key(c *Controller, target, k string) Result {
	return c.Dispatch(context.Background(), Event{Type: EventKeydown, Target: target, Key: k})
}

func TestMountPreparesLightbox(t *testing.T) {
	c := newController(t)
	require.Len(t, c.box.Closers, 1)
	closer := c.box.Closers[0]
	assert.Equal(t, IntentCloseLightbox, query(c, "[data-lightbox-close]").AttrOr("data-intent", ""))
	assert.NotEmpty(t, query(c, "[data-lightbox-close]").AttrOr("id", ""))
	assert.Equal(t, "roster-lightbox", query(c, "[data-lightbox]").AttrOr("id", ""))
	assert.Equal(t, "roster-lightbox-image", query(c, "[data-lightbox-image]").AttrOr("id", ""))
	assert.Equal(t, 0, query(c, "[data-lightbox] *:not([id])").Length())
	assert.True(t, c.lightbox.IsCloser(closer))
}

func TestClickDivisionTab(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())

	res := click(c, "division-tab-d1")
	assert.Equal(t, []Region{RegionTabs, RegionPanel}, res.Regions)
	assert.Equal(t, "d1", c.State().ActiveDivisionID)
	assert.Equal(t, "true", query(c, "#division-tab-d1").AttrOr("aria-selected", ""))
	assert.Equal(t, "-1", query(c, "#division-tab-pro").AttrOr("tabindex", ""))
}

func TestClickGroupTab(t *testing.T) {
	c := newController(t)
	c.Load(scenarioB())

	res := click(c, "division-pro-group-silver")
	assert.Equal(t, []Region{RegionPanel}, res.Regions)
	assert.Equal(t, "silver", c.State().ActiveGroup["pro"])
}

func TestArrowKeysMoveAcrossDivisionTabs(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())

	res := key(c, "division-tab-pro", KeyArrowRight)
	assert.Equal(t, "division-tab-d1", res.Focus)
	assert.Equal(t, "d1", c.State().ActiveDivisionID)

	res = key(c, "division-tab-d1", KeyArrowRight)
	assert.Equal(t, "division-tab-pro", res.Focus, "wraps past the last tab")
	assert.Equal(t, "pro", c.State().ActiveDivisionID)

	res = key(c, "division-tab-pro", KeyArrowLeft)
	assert.Equal(t, "division-tab-d1", res.Focus, "wraps before the first tab")
}

func TestArrowKeysStayWithinGroupTabs(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())
	c.SetActiveGroup("pro", "all")

	res := key(c, "division-pro-group-all", KeyArrowLeft)
	assert.Equal(t, "division-pro-group-silver", res.Focus)
	assert.Equal(t, "silver", c.State().ActiveGroup["pro"])
	assert.Equal(t, "pro", c.State().ActiveDivisionID, "division is unchanged")
}

func TestIgnoredEvents(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())

	assert.True(t, key(c, "division-tab-pro", "Enter").Empty())
	assert.True(t, key(c, "team-pro-1-photo-1", KeyArrowRight).Empty(), "not a tab")
	assert.True(t, click(c, "nope").Empty())
	assert.True(t, c.Dispatch(context.Background(), Event{Type: "focus", Target: "division-tab-d1"}).Empty())
	assert.True(t, key(c, "", KeyEscape).Empty(), "escape without an open lightbox")
}

func TestLightboxOpensAndClosesWithEscape(t *testing.T) {
	c := newController(t)
	c.Load(scenarioA())
	photo := "team-d1-1-photo-1"
	require.Equal(t, 1, query(c, "#"+photo).Length())

	res := click(c, photo)
	assert.Equal(t, []Region{RegionLightbox}, res.Regions)
	overlay := query(c, "[data-lightbox]")
	assert.True(t, overlay.HasClass("is-open"))
	_, hidden := overlay.Attr("hidden")
	assert.False(t, hidden)
	assert.Equal(t, "/img/a.jpg", query(c, "[data-lightbox-image]").AttrOr("src", ""))
	assert.Equal(t, "A", query(c, "[data-lightbox-image]").AttrOr("alt", ""))

	res = key(c, photo, KeyEscape)
	assert.Equal(t, []Region{RegionLightbox}, res.Regions)
	assert.Equal(t, photo, res.Focus, "focus returns to the trigger")
	assert.False(t, overlay.HasClass("is-open"))
	_, hidden = overlay.Attr("hidden")
	assert.True(t, hidden)
	assert.Equal(t, "", query(c, "[data-lightbox-image]").AttrOr("src", "missing"))

	assert.True(t, key(c, photo, KeyEscape).Empty(), "escape is disarmed after close")
}

func TestLightboxClosers(t *testing.T) {
	c := newController(t)
	c.Load(scenarioA())
	photo := "team-d1-1-photo-1"

	click(c, photo)
	assert.True(t, click(c, "roster-lightbox-image").Empty(), "clicks inside the dialog keep it open")
	assert.True(t, c.lightbox.IsOpen())

	res := click(c, "roster-lightbox")
	assert.Equal(t, photo, res.Focus)
	assert.False(t, c.lightbox.IsOpen())

	click(c, photo)
	res = click(c, query(c, "[data-lightbox-close]").AttrOr("id", ""))
	assert.Equal(t, []Region{RegionLightbox}, res.Regions)
	assert.False(t, c.lightbox.IsOpen())
}

func TestLightboxFocusSkipsVanishedTrigger(t *testing.T) {
	c := newController(t)
	c.Load(twoDivisions())
	c.SetActiveDivision("d1")

	click(c, "team-d1-1-photo-1")
	c.SetActiveDivision("pro")
	res := key(c, "", KeyEscape)
	assert.Equal(t, "", res.Focus)
	assert.False(t, c.lightbox.IsOpen())
}

func TestPhotoTriggersOutsidePanelAreIgnored(t *testing.T) {
	c := newController(t)
	c.Load(scenarioA())
	assert.True(t, click(c, "stray").Empty())
	assert.False(t, c.lightbox.IsOpen())
}

func TestPlayersWithoutPhotoHaveNoTrigger(t *testing.T) {
	c := newController(t)
	c.Load(scenarioA())
	assert.Equal(t, 0, query(c, "#team-d1-1-photo-2").Length())
	assert.Equal(t, DefaultCopy().NoPhoto, query(c, ".player-tile__placeholder span").First().Text())
}

func TestLightboxWithoutHostOverlay(t *testing.T) {
	c, err := New(parseHost(t, `<html><body><div data-division-tabs></div><div data-division-panel></div></body></html>`), Options{})
	require.NoError(t, err)
	c.Load(scenarioA())
	assert.True(t, click(c, "team-d1-1-photo-1").Empty())
	assert.True(t, key(c, "", KeyEscape).Empty())
}
