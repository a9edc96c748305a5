// Package textutil normalizes scraped text and loosely-formatted
// Indonesian date strings into canonical forms.
package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"papuanews/internal/types"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)

	dmySlashRe = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	dmyDashRe  = regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`)
	ymdRe      = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)

	// "21 Januari 2026" optionally followed by "10:45", after month-name
	// substitution the month is numeric.
	localeRe = regexp.MustCompile(`(\d{1,2}) (\d{1,2}) (\d{4})(?: (\d{1,2}):(\d{1,2}))?`)
)

// indonesianMonths maps locale month names to month numbers. Matching is
// case-insensitive on the first letter variants seen in the wild.
var indonesianMonths = []struct {
	name string
	num  string
}{
	{"januari", "1"},
	{"februari", "2"},
	{"maret", "3"},
	{"april", "4"},
	{"mei", "5"},
	{"juni", "6"},
	{"juli", "7"},
	{"agustus", "8"},
	{"september", "9"},
	{"oktober", "10"},
	{"november", "11"},
	{"desember", "12"},
}

// CleanText strips HTML tag fragments, collapses runs of whitespace to a
// single space, and trims the ends. Entities are left unescaped. Tags are
// removed before whitespace is collapsed so a tag flanked by spaces never
// leaves a double space behind. Idempotent.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = htmlTagRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.TrimSpace(text)
}

// ExtractDate parses a loosely-formatted date string. It tries a fixed
// ordered list of patterns (DD/MM/YYYY, DD-MM-YYYY, YYYY-MM-DD, then
// "D Month YYYY[ HH:MM]" with Indonesian month names) and returns the first
// that yields a valid calendar date. Unparseable or invalid input yields the
// current time; ExtractDate never fails.
func ExtractDate(text string) time.Time {
	if t, ok := ParseDate(text); ok {
		return t
	}
	return time.Now()
}

// ParseDate is ExtractDate without the now-fallback: ok reports whether any
// pattern matched and produced a valid calendar date.
func ParseDate(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	if m := dmySlashRe.FindStringSubmatch(text); m != nil {
		if t, ok := makeDate(m[3], m[2], m[1], "", ""); ok {
			return t, true
		}
	}
	if m := dmyDashRe.FindStringSubmatch(text); m != nil {
		if t, ok := makeDate(m[3], m[2], m[1], "", ""); ok {
			return t, true
		}
	}
	if m := ymdRe.FindStringSubmatch(text); m != nil {
		if t, ok := makeDate(m[1], m[2], m[3], "", ""); ok {
			return t, true
		}
	}

	// Locale form: strip the WIB suffix, substitute month names, re-match.
	normalized := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(text, "WIB", "")))
	for _, m := range indonesianMonths {
		if strings.Contains(normalized, m.name) {
			normalized = strings.Replace(normalized, m.name, m.num, 1)
			break
		}
	}
	if m := localeRe.FindStringSubmatch(normalized); m != nil {
		if t, ok := makeDate(m[3], m[2], m[1], m[4], m[5]); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatDate renders t in the canonical wire layout.
func FormatDate(t time.Time) string {
	return t.Format(types.DateLayout)
}

// makeDate builds a time from string components, rejecting day/month
// combinations that don't exist on the calendar (time.Date would silently
// normalize them).
func makeDate(year, month, day, hour, minute string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	h := 0
	min := 0
	if hour != "" {
		h, _ = strconv.Atoi(hour)
	}
	if minute != "" {
		min, _ = strconv.Atoi(minute)
	}

	if m < 1 || m > 12 || d < 1 || d > 31 || h > 23 || min > 59 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, h, min, 0, 0, time.Local)
	if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// Truncate shortens s to at most max runes, appending "..." when truncated.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
