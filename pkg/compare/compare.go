package compare

import (
	"fmt"

	"github.com/priyakud/zeplens/pkg/models"
)

// Equal reports whether two orders are the same purchase. Identity is the
// (date, price) pair: date strings must match verbatim — no normalization —
// and prices are compared at two-decimal fixed precision so that a float
// round-trip through the store cannot split one order into two. Product
// lists are deliberately ignored; two scans of the same card may see a
// different set of product images.
func Equal(a, b *models.Order) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Date != b.Date {
		return false
	}
	return fmt.Sprintf("%.2f", a.Price) == fmt.Sprintf("%.2f", b.Price)
}
