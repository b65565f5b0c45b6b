package summary

import (
	"sort"
	"time"

	"github.com/priyakud/zeplens/pkg/models"
	"github.com/priyakud/zeplens/pkg/scrape"
)

// Options controls how many entries the ranked lists keep.
type Options struct {
	TopProducts int
	TopOrders   int
}

func DefaultOptions() Options {
	return Options{
		TopProducts: 5,
		TopOrders:   3,
	}
}

// MonthSpend is one bucket of the monthly series.
type MonthSpend struct {
	Key   string    `json:"key"` // "Jun 2025"
	Month time.Time `json:"month"`
	Total float64   `json:"total"`
}

// ProductCount is one entry of the product-frequency ranking.
type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the derived view of an order collection. It is recomputed from
// the collection on every read and never persisted.
type Summary struct {
	Total       float64        `json:"total"`
	OrderCount  int            `json:"order_count"`
	Months      []MonthSpend   `json:"months"`
	TopProducts []ProductCount `json:"top_products"`
	TopOrders   []models.Order `json:"top_orders"`
}

// Build aggregates orders into a Summary. Pure and deterministic for a given
// input order: ranked lists break ties by first-encountered position, and the
// monthly series is sorted chronologically, not by key text. Orders whose
// date phrase does not parse stay in the totals but are left out of the
// monthly series.
func Build(orders []models.Order, opts Options) *Summary {
	s := &Summary{OrderCount: len(orders)}

	type bucket struct {
		month time.Time
		total float64
	}
	buckets := make(map[string]*bucket)
	productCounts := make(map[string]int)
	var productSeen []string

	for _, o := range orders {
		s.Total += o.Price

		if t, ok := scrape.ParseOrderDate(o.Date); ok {
			key := scrape.MonthKey(t)
			b := buckets[key]
			if b == nil {
				b = &bucket{month: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)}
				buckets[key] = b
			}
			b.total += o.Price
		}

		for _, name := range o.Products {
			if productCounts[name] == 0 {
				productSeen = append(productSeen, name)
			}
			productCounts[name]++
		}
	}

	for key, b := range buckets {
		s.Months = append(s.Months, MonthSpend{Key: key, Month: b.month, Total: b.total})
	}
	sort.Slice(s.Months, func(i, j int) bool {
		return s.Months[i].Month.Before(s.Months[j].Month)
	})

	products := make([]ProductCount, 0, len(productSeen))
	for _, name := range productSeen {
		products = append(products, ProductCount{Name: name, Count: productCounts[name]})
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Count > products[j].Count
	})
	s.TopProducts = top(products, opts.TopProducts)

	ranked := make([]models.Order, len(orders))
	copy(ranked, orders)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Price > ranked[j].Price
	})
	s.TopOrders = top(ranked, opts.TopOrders)

	return s
}

func top[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
