package models

// Order represents one purchase scraped from an order-history page. Date is
// kept as the raw extracted phrase ("Placed at 5th Jun 2025"), not a parsed
// calendar date, because the (Date, Price) pair is the order's identity and
// must survive round-trips through the store byte-for-byte.
type Order struct {
	Date     string   `json:"date"`
	Price    float64  `json:"price"`
	Products []string `json:"products"`
}
