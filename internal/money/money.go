package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// FromCents creates a decimal amount in major units from integer cents
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// ToCents rounds a decimal amount in major units to integer cents
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FormatCents renders cents as a fixed 2-decimal string ("1190" -> "11.90")
// All external-facing amounts use this representation.
func FormatCents(cents int64) string {
	return FromCents(cents).StringFixed(2)
}

// ParseToCents parses a 2-decimal amount string into cents
func ParseToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return ToCents(d), nil
}

// ParseToCentsOrZero parses an amount string, returning 0 on failure.
// Decoded third-party XML is untrusted; numeric failures must not abort
// the whole document.
func ParseToCentsOrZero(s string) int64 {
	cents, err := ParseToCents(s)
	if err != nil {
		return 0
	}
	return cents
}

// LineTotalCents computes unit price x quantity, rounded to cents
func LineTotalCents(unitPriceCents int64, quantity decimal.Decimal) int64 {
	return decimal.NewFromInt(unitPriceCents).Mul(quantity).Round(0).IntPart()
}

// TaxCents computes basis x (rate/100), rounded to cents
func TaxCents(basisCents int64, ratePercent float64) int64 {
	basis := decimal.NewFromInt(basisCents)
	rate := decimal.NewFromFloat(ratePercent)
	return basis.Mul(rate).Div(hundred).Round(0).IntPart()
}

// FormatRate renders a tax rate as a fixed 2-decimal percentage string
func FormatRate(ratePercent float64) string {
	return decimal.NewFromFloat(ratePercent).StringFixed(2)
}

// ParseRate parses a percentage string ("19.00", "19") into a float rate,
// returning 0 on failure
func ParseRate(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// ParseQuantity parses a quantity string, returning 0 on failure.
// Quantities may be fractional.
func ParseQuantity(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// UnitPriceCents derives a per-unit price from a line total and quantity,
// rounding to cents. Zero quantity returns the total unchanged.
func UnitPriceCents(netCents int64, quantity float64) int64 {
	if quantity == 0 {
		return netCents
	}
	return decimal.NewFromInt(netCents).DivRound(decimal.NewFromFloat(quantity), 0).IntPart()
}

// Sum sums a slice of cent amounts
func Sum(values []int64) int64 {
	var result int64
	for _, v := range values {
		result += v
	}
	return result
}
