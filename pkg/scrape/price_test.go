package scrape

import "testing"

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"symbol", "Total ₹1,250", 1250},
		{"symbol no space", "₹499", 499},
		{"abbreviation", "Rs 499", 499},
		{"abbreviation with dot", "Rs. 2,100.50", 2100.50},
		{"thousands separators", "Grand total ₹1,25,000", 125000},
		{"first match wins", "₹100 then ₹200", 100},
		{"zero amount", "paid ₹0", 0},
		{"no price", "Placed at 5th Jun 2025", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPrice(tt.text); got != tt.want {
				t.Errorf("ExtractPrice(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestHasPrice(t *testing.T) {
	if !HasPrice("subtotal ₹42") {
		t.Error("expected price pattern in text with rupee symbol")
	}
	if HasPrice("Placed at 5th Jun 2025") {
		t.Error("did not expect price pattern in date-only text")
	}
}
