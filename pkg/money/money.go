// Package money does cent-exact arithmetic on the float64 amounts Firestore
// stores, so repeated increments on card usage or limit totals do not drift.
package money

import "github.com/shopspring/decimal"

const places = 2

// Add returns a+b rounded to cents.
func Add(a, b float64) float64 {
	return round(decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)))
}

// Sub returns a-b rounded to cents.
func Sub(a, b float64) float64 {
	return round(decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)))
}

// SubFloor returns a-b rounded to cents, floored at zero.
func SubFloor(a, b float64) float64 {
	v := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b))
	if v.IsNegative() {
		return 0
	}
	return round(v)
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole float64) float64 {
	w := decimal.NewFromFloat(whole)
	if !w.IsPositive() {
		return 0
	}
	return decimal.NewFromFloat(part).Div(w).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// Format renders an amount with exactly two decimals, e.g. "1234.50".
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Parse reads an amount written by Format.
func Parse(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return round(d), nil
}

func round(d decimal.Decimal) float64 {
	return d.Round(places).InexactFloat64()
}
