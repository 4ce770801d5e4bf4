package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Missing is rendered in place of absent names, ratings and dates.
const Missing = "—"

var ruMonthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FmtRating formats a rating with exactly two fraction digits using the decimal
// separator of lang. Example: FmtRating(&v, "ru") => "4,35"
func FmtRating(v *float64, lang string) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Missing
	}
	p := message.NewPrinter(langTag(lang))
	return p.Sprintf("%v", number.Decimal(*v, number.Scale(2), number.NoSeparator()))
}

// FmtDate formats time in a locale-friendly long form.
func FmtDate(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ru":
		return fmt.Sprintf("%02d %s %d г.", t.Day(), ruMonthsGenitive[t.Month()-1], t.Year())
	case "en":
		return t.Format("January 02, 2006")
	default:
		return t.Format("2006-01-02")
	}
}

// FmtDateString parses a raw timestamp and formats it with FmtDate in loc.
// Empty input yields Missing; unparseable input is returned unchanged.
func FmtDateString(raw, lang string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Missing
	}
	t, ok := ParseTimestamp(raw)
	if !ok {
		return raw
	}
	if loc != nil {
		t = t.In(loc)
	}
	return FmtDate(t, lang)
}

// ParseTimestamp accepts RFC 3339 timestamps and plain calendar dates.
func ParseTimestamp(raw string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func langTag(lang string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return language.Russian
	}
	return tag
}
