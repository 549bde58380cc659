package report

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with the currency's symbol and two decimals, e.g. $61.23.
func FormatMoney(amount float64, currency string) string {
	cur := *money.New(0, currency).Currency()
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return cur.Grapheme + "NaN"
	}
	d := decimal.NewFromFloat(amount).Round(int32(cur.Fraction))
	return cur.Formatter().Format(d.Shift(int32(cur.Fraction)).IntPart())
}

// FormatPercent renders a percentage with two decimals, e.g. -4.55%.
func FormatPercent(pct float64) string {
	return FormatNumber(pct) + "%"
}

// FormatNumber renders a plain value with two decimals.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
