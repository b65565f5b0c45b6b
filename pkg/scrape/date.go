package scrape

import (
	"regexp"
	"strings"
	"time"
)

// Marker is the per-order anchor phrase. It occurs exactly once per order
// card on the history page and nowhere else, which is what makes the card
// boundary discoverable without any stable markup.
const Marker = "Placed at"

// UnknownDate is the sentinel returned when a card's text carries no
// readable date. Orders with this date still count toward totals but are
// excluded from the monthly series.
const UnknownDate = "Unknown"

var (
	datePhraseRe = regexp.MustCompile(`Placed at\s([^,]+)`)
	ordinalRe    = regexp.MustCompile(`([0-9]+)(st|nd|rd|th)`)
)

// DatePhrase returns the marker phrase plus the text up to (not including)
// the next comma, e.g. "Placed at 5th Jun 2025". Returns UnknownDate when
// the marker is absent; callers normally scan only text that already
// contains it.
func DatePhrase(text string) string {
	if m := datePhraseRe.FindString(text); m != "" {
		return m
	}
	return UnknownDate
}

// CountMarkers returns the number of non-overlapping marker occurrences in
// text. More than one means the text spans multiple order cards.
func CountMarkers(text string) int {
	return strings.Count(text, Marker)
}

// StripOrdinals removes English day-of-month suffixes ("5th" -> "5") so the
// remainder parses as a calendar date.
func StripOrdinals(fragment string) string {
	return ordinalRe.ReplaceAllString(fragment, "$1")
}

// dateLayouts are tried in order when bucketing an order into a month.
var dateLayouts = []string{
	"2 Jan 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"02/01/2006",
}

// ParseOrderDate turns a raw date phrase ("Placed at 5th Jun 2025, 10:04 PM")
// into a calendar date: the marker prefix is stripped, the fragment is
// truncated at the first comma, ordinal suffixes are removed, then a fixed
// set of layouts is tried. ok is false when nothing parses; the record is
// then skipped in monthly buckets but still counted in totals.
func ParseOrderDate(phrase string) (time.Time, bool) {
	fragment := strings.TrimSpace(strings.TrimPrefix(phrase, Marker))
	if i := strings.Index(fragment, ","); i >= 0 {
		fragment = fragment[:i]
	}
	fragment = strings.TrimSpace(StripOrdinals(fragment))

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, fragment); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MonthKey formats a date as its aggregation bucket key, e.g. "Jun 2025".
func MonthKey(t time.Time) string {
	return t.Format("Jan 2006")
}
