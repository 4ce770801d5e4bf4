package league

// AverageRating returns the mean of the defined player ratings. The boolean is
// false when no player has a rating. A single rating is returned unchanged.
func AverageRating(players []Player) (float64, bool) {
	var (
		sum   float64
		count int
		first float64
	)
	for _, p := range players {
		if p.Rating == nil {
			continue
		}
		if count == 0 {
			first = *p.Rating
		}
		sum += *p.Rating
		count++
	}
	switch count {
	case 0:
		return 0, false
	case 1:
		return first, true
	default:
		return sum / float64(count), true
	}
}

// AssignGroupTier classifies a team against the division's gold threshold.
// CTAs, divisions without groups and divisions without a numeric threshold
// leave the entry as it is. The computed tier replaces any authored one.
// The input entry is never modified; a changed team is returned as a copy.
func AssignGroupTier(entry Entry, d Division) Entry {
	team, ok := entry.(Team)
	if !ok {
		return entry
	}
	if !d.HasGroups() || d.Thresholds == nil || d.Thresholds.Gold == nil {
		return entry
	}
	avg, ok := AverageRating(team.Players)
	if !ok {
		return entry
	}
	next := TierSilver
	if avg > *d.Thresholds.Gold {
		next = TierGold
	}
	if team.Tier == next {
		return entry
	}
	team.Tier = next
	return team
}

// BuildGroupList returns the division's groups with the synthetic "all" group
// first. Divisions without groups yield an empty list.
func BuildGroupList(d Division, allLabel string) []Group {
	if !d.HasGroups() {
		return []Group{}
	}
	groups := make([]Group, 0, len(d.Groups)+1)
	var all *Group
	for _, g := range d.Groups {
		if g.ID == AllGroupID {
			if all == nil {
				g := g
				all = &g
			}
			continue
		}
		groups = append(groups, g)
	}
	head := Group{ID: AllGroupID, Label: allLabel}
	if all != nil {
		head = *all
	}
	return append([]Group{head}, groups...)
}

// MatchesGroup reports whether entry is visible while groupID is active.
func MatchesGroup(entry Entry, groupID string, hasGroups bool) bool {
	if !hasGroups || groupID == "" || groupID == AllGroupID {
		return true
	}
	switch e := entry.(type) {
	case Team:
		if e.Tier == "" || e.Tier == AllGroupID {
			return true
		}
		return e.Tier == groupID
	case CTA:
		return true
	default:
		return false
	}
}

// SplitEntries assigns tiers (when the division has groups), keeps the entries
// visible under activeGroup and separates teams from CTAs, preserving order.
func SplitEntries(d Division, activeGroup string) ([]Team, []CTA) {
	hasGroups := d.HasGroups()
	var (
		teams []Team
		ctas  []CTA
	)
	for _, entry := range d.Entries {
		if hasGroups {
			entry = AssignGroupTier(entry, d)
		}
		if !MatchesGroup(entry, activeGroup, hasGroups) {
			continue
		}
		switch e := entry.(type) {
		case Team:
			teams = append(teams, e)
		case CTA:
			ctas = append(ctas, e)
		}
	}
	return teams, ctas
}

// GroupIDs lists the declared group ids in order.
func (d Division) GroupIDs() []string {
	ids := make([]string, 0, len(d.Groups))
	for _, g := range d.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}
