package document

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "₪"

var moneyPrinter = message.NewPrinter(language.Hebrew)

// FormatMoney renders an amount with two decimals, Hebrew locale grouping and
// the shekel sign, e.g. "1,234.50 ₪". The sign is written as a plain hyphen
// so it survives right-to-left reordering.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	amount := math.Round(math.Abs(v)*100) / 100
	sign := ""
	if v < 0 && amount > 0 {
		sign = "-"
	}
	return sign + moneyPrinter.Sprintf("%.2f", amount) + " " + currencySymbol
}

// FormatPercent renders a percentage with up to two decimals.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	return s + "%"
}
