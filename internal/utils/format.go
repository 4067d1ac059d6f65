// Package utils provides small display formatting helpers shared by the
// report and notification layers.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatNumber formats a value with comma separators and no decimals.
// Examples: 123 -> "123", 1234567 -> "1,234,567".
func FormatNumber(v float64) string {
	n := int64(math.Round(v))
	negative := n < 0
	if negative {
		n = -n
	}

	str := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// FormatCurrency formats a dollar amount with comma separators.
// Examples: 1234.5 -> "$1,235", -200 -> "-$200".
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + FormatNumber(-v)
	}
	return "$" + FormatNumber(v)
}

// FormatPercent formats a percentage with one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// TruncateText truncates text to maxLen characters, adding "..." when cut.
// Newlines are flattened for single-line display.
func TruncateText(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.TrimSpace(text)

	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return text[:maxLen-3] + "..."
}
