package helpers

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatNumber renders an integer with pt-BR digit grouping ("1.234.567").
func FormatNumber(n int64) string {
	return ptBR.Sprintf("%d", n)
}

// FormatPercent renders a ratio already expressed in percent with two decimals ("1,23%").
// NaN renders as "n/d".
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/d"
	}
	return ptBR.Sprintf("%.2f%%", v)
}

// FormatCompact renders axis ticks the way the timeline does: 1.2M, 15K, 950.
func FormatCompact(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1000:
		return fmt.Sprintf("%.0fK", v/1000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatDate renders a calendar day as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
