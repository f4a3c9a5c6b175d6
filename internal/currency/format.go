// Package currency formats decimal amounts in the reporting currency.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders amount with the symbol and separators of the ISO currency code,
// rounded to the currency's minor unit. Unknown codes are formatted with two
// decimals followed by the code.
func Format(amount decimal.Decimal, code string) string {
	if !Known(code) {
		return amount.StringFixed(2) + " " + code
	}
	cur := money.New(0, code).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatFloat is Format for float64 amounts, used by chart axes.
func FormatFloat(amount float64, code string) string {
	return Format(decimal.NewFromFloat(amount), code)
}

// Known reports whether code is a currency go-money knows about.
func Known(code string) bool {
	return money.GetCurrency(code) != nil
}
