package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestFmtRating(t *testing.T) {
	cases := []struct {
		name string
		in   *float64
		lang string
		want string
	}{
		{"average", ptr((4.20 + 4.50) / 2), "ru", "4,35"},
		{"pads fraction", ptr(4.2), "ru", "4,20"},
		{"english separator", ptr(4.5), "en", "4.50"},
		{"no grouping ru", ptr(1234.5), "ru", "1234,50"},
		{"no grouping en", ptr(1234.5), "en", "1234.50"},
		{"missing", nil, "ru", Missing},
		{"nan", ptr(math.NaN()), "ru", Missing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FmtRating(tc.in, tc.lang))
		})
	}
}

func TestFmtDateString(t *testing.T) {
	utc := time.UTC
	assert.Equal(t, Missing, FmtDateString("", "ru", utc))
	assert.Equal(t, "not a date", FmtDateString("not a date", "ru", utc))
	assert.Equal(t, "05 октября 2026 г.", FmtDateString("2026-10-05T12:00:00Z", "ru", utc))
	assert.Equal(t, "October 05, 2026", FmtDateString("2026-10-05", "en", utc))
}

func TestFmtDateStringAppliesLocation(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	// 22:30 UTC is already the next day in Moscow.
	assert.Equal(t, "01 января 2026 г.", FmtDateString("2025-12-31T22:30:00Z", "ru", moscow))
}
