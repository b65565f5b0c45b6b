package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRe matches the first rupee amount in a blob of rendered text: the ₹
// symbol or the "Rs" abbreviation, optional whitespace, then a digit group
// with optional thousands separators and an optional decimal part.
var priceRe = regexp.MustCompile(`(?:₹|Rs\.?)\s?([0-9][0-9,]*(?:\.[0-9]+)?)`)

// ExtractPrice returns the first rupee amount found in text, or 0 when no
// price pattern is present. Callers must treat 0 as "no usable price", not
// as a free order.
func ExtractPrice(text string) float64 {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return value
}

// HasPrice reports whether text contains a rupee price pattern. The card
// resolver uses this as a structural signal without parsing the amount.
func HasPrice(text string) bool {
	return priceRe.MatchString(text)
}
