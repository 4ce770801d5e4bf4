// Package league holds the roster document model (divisions, skill groups and
// entries) and the pure transforms that classify and filter entries per group.
package league

// AllGroupID is the synthetic group that matches every entry.
const AllGroupID = "all"

// Tier identifiers assigned from the gold threshold.
const (
	TierGold   = "gold"
	TierSilver = "silver"
)

// Snapshot is one fetched roster document. It is never mutated after decoding.
type Snapshot struct {
	UpdatedAt string
	Divisions []Division
}

// Division returns the first division with id, if any.
func (s *Snapshot) Division(id string) (Division, bool) {
	if s == nil {
		return Division{}, false
	}
	for _, d := range s.Divisions {
		if d.ID == id {
			return d, true
		}
	}
	return Division{}, false
}

// Division is a top-level bracket with its own entries and optional skill groups.
type Division struct {
	ID           string
	Title        string
	Subtitle     string
	DefaultGroup string
	Groups       []Group
	Thresholds   *Thresholds
	Entries      []Entry
}

// HasGroups reports whether the division declares any skill group.
func (d Division) HasGroups() bool {
	return len(d.Groups) > 0
}

// HasGroup reports whether id is "all" or one of the declared group ids.
func (d Division) HasGroup(id string) bool {
	if id == AllGroupID {
		return true
	}
	for _, g := range d.Groups {
		if g.ID == id {
			return true
		}
	}
	return false
}

// Group is a skill subdivision of a division.
type Group struct {
	ID    string
	Label string
}

// Thresholds hold the rating boundaries used for tier assignment.
type Thresholds struct {
	Gold *float64
}

// Player is one member of a team entry.
type Player struct {
	Name   string
	Rating *float64
	Photo  string
}

// Entry is either a Team or a CTA.
type Entry interface {
	isEntry()
}

// Team is a team application of up to two players.
type Team struct {
	Solo     bool
	Players  []Player
	Note     string
	NoteType string
	Statuses []string
	Tier     string
}

// CTA is a call-to-action card prompting new signups.
type CTA struct {
	Title       string
	Description string
	Action      *Action
}

// Action is the external link of a CTA card.
type Action struct {
	Href  string
	Label string
}

func (Team) isEntry() {}
func (CTA) isEntry()  {}
