package mapper

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// formatFloat renders f with thousands separators and one decimal.
func formatFloat(f float64) string {
	return printer.Sprintf("%.1f", f)
}
