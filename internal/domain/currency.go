package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var wonPrinter = message.NewPrinter(language.Korean)

// FormatWon renders an amount with Korean-locale digit grouping, e.g.
// 1234567 -> "₩1,234,567". Used by templates and the dashboard; the CSV
// export writes raw numbers.
func FormatWon(amount int64) string {
	return wonPrinter.Sprintf("₩%d", amount)
}
