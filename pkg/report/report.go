package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/priyakud/zeplens/pkg/scrape"
	"github.com/priyakud/zeplens/pkg/summary"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
)

// enIN groups rupee amounts the Indian way (₹1,25,000).
var enIN = message.NewPrinter(language.MustParse("en-IN"))

// Rupees formats a currency amount, dropping the decimals when the amount is
// whole.
func Rupees(v float64) string {
	if v == math.Trunc(v) {
		return enIN.Sprintf("₹%d", int64(v))
	}
	return enIN.Sprintf("₹%.2f", v)
}

const barWidth = 30

// Render writes the terminal dashboard for s to w. An empty summary renders
// the empty state, never an error.
func Render(w io.Writer, s *summary.Summary) {
	if s.OrderCount == 0 {
		fmt.Fprintln(w, "No orders recorded yet. Scan a saved order-history page first.")
		return
	}

	fmt.Fprintln(w, titleStyle.Render("Zepto spend"))
	fmt.Fprintf(w, "%s across %d orders\n\n", Rupees(s.Total), s.OrderCount)

	if len(s.Months) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Monthly"))
		max := 0.0
		for _, m := range s.Months {
			if m.Total > max {
				max = m.Total
			}
		}
		for _, m := range s.Months {
			width := int(m.Total / max * barWidth)
			if width < 1 {
				width = 1
			}
			fmt.Fprintf(w, "%s %s %s\n",
				labelStyle.Render(fmt.Sprintf("%-8s", m.Key)),
				barStyle.Render(strings.Repeat("█", width)),
				Rupees(m.Total))
		}
		fmt.Fprintln(w)
	}

	if len(s.TopProducts) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Top products"))
		for _, p := range s.TopProducts {
			fmt.Fprintf(w, "%s %s\n", countStyle.Render(fmt.Sprintf("%2dx", p.Count)), p.Name)
		}
		fmt.Fprintln(w)
	}

	if len(s.TopOrders) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Largest orders"))
		for _, o := range s.TopOrders {
			fmt.Fprintf(w, "%s | %s\n", labelStyle.Render(DateLabel(o.Date)), Rupees(o.Price))
		}
	}
}

// DateLabel truncates a raw date phrase for list display.
func DateLabel(phrase string) string {
	label := strings.TrimSpace(strings.TrimPrefix(phrase, scrape.Marker))
	if label == "" {
		return scrape.UnknownDate
	}
	runes := []rune(label)
	if len(runes) > 20 {
		return string(runes[:20])
	}
	return label
}
