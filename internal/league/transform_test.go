package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(v float64) *float64 { return &v }

func rated(name string, v float64) Player { return Player{Name: name, Rating: rating(v)} }

func goldDivision(entries ...Entry) Division {
	return Division{
		ID:         "pro",
		Groups:     []Group{{ID: TierGold, Label: "Золото"}, {ID: TierSilver, Label: "Серебро"}},
		Thresholds: &Thresholds{Gold: rating(4.0)},
		Entries:    entries,
	}
}

func TestAverageRating(t *testing.T) {
	_, ok := AverageRating(nil)
	assert.False(t, ok, "no players")

	_, ok = AverageRating([]Player{{Name: "a"}, {Name: "b"}})
	assert.False(t, ok, "no ratings")

	got, ok := AverageRating([]Player{{Name: "a"}, rated("b", 4.37)})
	require.True(t, ok)
	assert.Equal(t, 4.37, got, "single rating is returned unchanged")

	got, ok = AverageRating([]Player{rated("a", 4.20), rated("b", 4.50)})
	require.True(t, ok)
	assert.InDelta(t, 4.35, got, 1e-9)
}

func TestAssignGroupTierClassifiesAgainstThreshold(t *testing.T) {
	d := goldDivision()

	gold := AssignGroupTier(Team{Players: []Player{rated("a", 4.4), rated("b", 4.6)}}, d)
	assert.Equal(t, TierGold, gold.(Team).Tier)

	atThreshold := AssignGroupTier(Team{Players: []Player{rated("a", 4.0)}}, d)
	assert.Equal(t, TierSilver, atThreshold.(Team).Tier, "threshold itself is not gold")

	unrated := Team{Players: []Player{{Name: "a"}}, Tier: "custom"}
	assert.Equal(t, unrated, AssignGroupTier(unrated, d), "no ratings leaves tier alone")
}

func TestAssignGroupTierOverwritesAuthoredTier(t *testing.T) {
	got := AssignGroupTier(Team{Players: []Player{rated("a", 3.1)}, Tier: TierGold}, goldDivision())
	assert.Equal(t, TierSilver, got.(Team).Tier)
}

func TestAssignGroupTierIsCopyOnWrite(t *testing.T) {
	in := Team{Players: []Player{rated("a", 4.9)}}
	out := AssignGroupTier(in, goldDivision())
	assert.Empty(t, in.Tier)
	assert.Equal(t, TierGold, out.(Team).Tier)
}

func TestAssignGroupTierNoops(t *testing.T) {
	team := Team{Players: []Player{rated("a", 4.9)}, Tier: "authored"}

	noThreshold := goldDivision()
	noThreshold.Thresholds = nil
	assert.Equal(t, team, AssignGroupTier(team, noThreshold))

	nonNumeric := goldDivision()
	nonNumeric.Thresholds = &Thresholds{}
	assert.Equal(t, team, AssignGroupTier(team, nonNumeric))

	noGroups := goldDivision()
	noGroups.Groups = nil
	assert.Equal(t, team, AssignGroupTier(team, noGroups))

	cta := CTA{Title: "Join"}
	assert.Equal(t, cta, AssignGroupTier(cta, goldDivision()))
}

func TestBuildGroupList(t *testing.T) {
	assert.Empty(t, BuildGroupList(Division{}, "Все"))

	injected := BuildGroupList(goldDivision(), "Все")
	require.Len(t, injected, 3)
	assert.Equal(t, Group{ID: AllGroupID, Label: "Все"}, injected[0])
	assert.Equal(t, TierGold, injected[1].ID)

	declared := Division{Groups: []Group{
		{ID: TierGold, Label: "G"},
		{ID: AllGroupID, Label: "Everyone"},
		{ID: TierSilver, Label: "S"},
		{ID: AllGroupID, Label: "Again"},
	}}
	got := BuildGroupList(declared, "Все")
	require.Len(t, got, 3)
	assert.Equal(t, Group{ID: AllGroupID, Label: "Everyone"}, got[0])
	assert.Equal(t, []string{AllGroupID, TierGold, TierSilver}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Len(t, declared.Groups, 4, "source groups untouched")
}

func TestMatchesGroup(t *testing.T) {
	gold := Team{Tier: TierGold}
	assert.True(t, MatchesGroup(gold, TierSilver, false), "no groups")
	assert.True(t, MatchesGroup(gold, "", true), "unset group")
	assert.True(t, MatchesGroup(gold, AllGroupID, true))
	assert.True(t, MatchesGroup(Team{}, TierSilver, true), "unassigned tier")
	assert.True(t, MatchesGroup(Team{Tier: AllGroupID}, TierSilver, true))
	assert.True(t, MatchesGroup(gold, TierGold, true))
	assert.False(t, MatchesGroup(gold, TierSilver, true))
	assert.True(t, MatchesGroup(CTA{}, TierSilver, true))
}

func TestAuthoredEmptyTierIsUnassigned(t *testing.T) {
	snap, err := DecodeJSON([]byte(`{"divisions":[{"id":"pro","groups":[{"id":"gold"},{"id":"silver"}],
		"entries":[{"type":"team","tier":"","players":[{"name":"a"}]}]}]}`))
	require.NoError(t, err)
	d := snap.Divisions[0]

	teams, _ := SplitEntries(d, TierSilver)
	require.Len(t, teams, 1, "visible under every group")
	teams, _ = SplitEntries(d, TierGold)
	assert.Len(t, teams, 1)
}

func TestSplitEntriesFiltersByActiveGroup(t *testing.T) {
	strong := Team{Players: []Player{rated("a", 4.4), rated("b", 4.6)}}
	weak := Team{Players: []Player{rated("c", 3.0), rated("d", 3.4)}}
	cta := CTA{Title: "Join"}
	d := goldDivision(cta, strong, weak)

	teams, ctas := SplitEntries(d, TierGold)
	require.Len(t, teams, 1)
	assert.Equal(t, TierGold, teams[0].Tier)
	assert.Equal(t, []CTA{cta}, ctas)

	teams, _ = SplitEntries(d, TierSilver)
	require.Len(t, teams, 1)
	assert.Equal(t, "c", teams[0].Players[0].Name)

	teams, ctas = SplitEntries(d, AllGroupID)
	assert.Len(t, teams, 2)
	assert.Len(t, ctas, 1)

	_, isTeam := d.Entries[1].(Team)
	require.True(t, isTeam)
	assert.Empty(t, d.Entries[1].(Team).Tier, "division entries are not modified")
}

func TestSplitEntriesWithoutGroupsKeepsAuthoredTier(t *testing.T) {
	d := Division{Entries: []Entry{Team{Tier: TierGold}, CTA{}, Team{}}}
	teams, ctas := SplitEntries(d, TierSilver)
	assert.Len(t, teams, 2)
	assert.Len(t, ctas, 1)
	assert.Equal(t, TierGold, teams[0].Tier)
}
