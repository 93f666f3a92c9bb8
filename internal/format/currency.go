// Package format renders dashboard numbers for display.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders a whole-dollar amount with thousands separators,
// e.g. 1234567 -> "$1,234,567" and -1234 -> "-$1,234".
func Currency(n int64) string {
	if n < 0 {
		return "-$" + printer.Sprintf("%d", magnitude(n))
	}
	return "$" + printer.Sprintf("%d", n)
}

// Money renders an amount with cents, e.g. 1234.5 -> "$1,234.50".
func Money(v float64) string {
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", math.Abs(v))
	}
	return "$" + printer.Sprintf("%.2f", v)
}

// Delta renders a signed, grouped integer such as "+1,204" or "-87".
func Delta(n int64) string {
	switch {
	case n > 0:
		return "+" + printer.Sprintf("%d", n)
	case n < 0:
		return "-" + printer.Sprintf("%d", magnitude(n))
	default:
		return "0"
	}
}

// Number renders an integer with thousands separators.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

func magnitude(n int64) uint64 {
	// -(n+1)+1 keeps math.MinInt64 in range.
	return uint64(-(n + 1)) + 1
}
