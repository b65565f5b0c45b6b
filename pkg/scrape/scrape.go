package scrape

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/priyakud/zeplens/pkg/dom"
	"github.com/priyakud/zeplens/pkg/models"
)

// Scraper extracts order records from a parsed order-history snapshot. It is
// read-only with respect to the document and keeps no state between calls.
type Scraper struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Scraper {
	return &Scraper{
		logger: logger,
	}
}

// iconWords mark decorative images (status badges, chevrons) whose alt text
// must not be mistaken for a product name.
var iconWords = []string{"arrow", "icon", "status", "delivered"}

// Extract returns one record per resolvable order card in doc, in document
// order. Anchors without a resolvable boundary and cards without a usable
// price are skipped with a debug log rather than surfaced as errors; partial
// yield is the expected mode of operation against a hostile page.
func (s *Scraper) Extract(doc *dom.Document) []models.Order {
	var orders []models.Order

	for i, anchor := range doc.Anchors(Marker) {
		card, ok := ResolveCard(anchor)
		if !ok {
			s.logger.Debug("no card boundary found", "anchor", i)
			continue
		}

		text := card.Text()
		price := ExtractPrice(text)
		if price <= 0 {
			s.logger.Debug("card has no usable price", "anchor", i)
			continue
		}

		orders = append(orders, models.Order{
			Date:     DatePhrase(text),
			Price:    price,
			Products: productNames(card.Images()),
		})
	}

	return orders
}

// productNames keeps the captions that plausibly name a product: decorative
// images and near-empty placeholder captions are dropped, survivors are
// capitalized. Document order is preserved and duplicates are kept; the
// aggregator counts repeat purchases from them.
func productNames(images []dom.Image) []string {
	var names []string
	for _, img := range images {
		alt := strings.ToLower(img.Alt)
		if containsAny(alt, iconWords) || strings.Contains(strings.ToLower(img.Src), ".svg") {
			continue
		}
		if utf8.RuneCountInString(img.Alt) <= 2 {
			continue
		}
		names = append(names, capitalize(img.Alt))
	}
	return names
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
