package league

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// DecodeJSON parses a JSON roster document.
func DecodeJSON(raw []byte) (*Snapshot, error) {
	var doc any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("league: decode json: %w", err)
	}
	return Decode(doc), nil
}

// DecodeYAML parses a YAML roster document with the same field names as JSON.
func DecodeYAML(raw []byte) (*Snapshot, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("league: decode yaml: %w", err)
	}
	return Decode(doc), nil
}

// Decode converts a generic document (maps, slices, scalars) into a Snapshot.
// Fields of the wrong shape are treated as absent instead of failing the whole
// document, so a roster with a broken entry still renders the rest.
func Decode(doc any) *Snapshot {
	root := asMap(doc)
	snap := &Snapshot{
		UpdatedAt: asTimestamp(root["updatedAt"]),
	}
	for _, raw := range asSlice(root["divisions"]) {
		d, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		snap.Divisions = append(snap.Divisions, decodeDivision(d))
	}
	return snap
}

func decodeDivision(m map[string]any) Division {
	d := Division{
		ID:           asString(m["id"]),
		Title:        asString(m["title"]),
		Subtitle:     asString(m["subtitle"]),
		DefaultGroup: asString(m["defaultGroup"]),
	}
	for _, raw := range asSlice(m["groups"]) {
		g, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d.Groups = append(d.Groups, Group{ID: asString(g["id"]), Label: asString(g["label"])})
	}
	if th, ok := m["groupThresholds"].(map[string]any); ok {
		d.Thresholds = &Thresholds{Gold: asNumber(th["gold"])}
	}
	for _, raw := range asSlice(m["entries"]) {
		e, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d.Entries = append(d.Entries, decodeEntry(e))
	}
	return d
}

func decodeEntry(m map[string]any) Entry {
	kind := asString(m["type"])
	if kind == "cta" {
		c := CTA{
			Title:       asString(m["title"]),
			Description: asString(m["description"]),
		}
		if a, ok := m["action"].(map[string]any); ok {
			c.Action = &Action{Href: asString(a["href"]), Label: asString(a["label"])}
		}
		return c
	}
	t := Team{
		Solo:     kind == "solo",
		Note:     asString(m["note"]),
		NoteType: asString(m["noteType"]),
		Tier:     asString(m["tier"]),
	}
	for _, raw := range asSlice(m["players"]) {
		p, _ := raw.(map[string]any)
		t.Players = append(t.Players, Player{
			Name:   asString(p["name"]),
			Rating: asNumber(p["rating"]),
			Photo:  asString(p["photo"]),
		})
	}
	for _, raw := range asSlice(m["statuses"]) {
		if s := asString(raw); s != "" {
			t.Statuses = append(t.Statuses, s)
		}
	}
	return t
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asTimestamp also accepts YAML timestamps, which decode to time.Time.
func asTimestamp(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return asString(v)
}

// asNumber accepts JSON numbers (float64) and YAML integers.
func asNumber(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return nil
	}
	return &f
}
