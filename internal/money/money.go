// Package money holds monetary values as integer counts of the smallest currency unit.
//
// All arithmetic inside the finance core happens on Amount, so sums compare exactly and no
// epsilon is ever needed. Decimal strings only exist at the edges: Currency.Parse turns form
// input into an Amount and Currency.Format renders one for people.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"finance/internal/finerr"
)

// Amount is a count of minor currency units (cents for a two-digit currency).
type Amount int64

// Currency describes how amounts of the single supported currency are written.
type Currency struct {
	Code   string
	Digits int32
}

// Default is a two-digit currency without a code.
var Default = Currency{Digits: 2}

// Parse converts a decimal string such as "1,234.50" into an Amount.
// Values with more precision than one minor unit are rejected, never rounded.
func (c Currency) Parse(s string) (Amount, error) {
	clean := c.clean(s)
	if clean == "" {
		return 0, finerr.InvalidAmount("amount", s, "empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, finerr.InvalidAmount("amount", s, "not a decimal number")
	}
	return c.FromDecimal(d)
}

// ParseOptional is Parse that reads an empty string as zero.
func (c Currency) ParseOptional(s string) (Amount, error) {
	if c.clean(s) == "" {
		return 0, nil
	}
	return c.Parse(s)
}

// FromDecimal converts a major-unit decimal into an Amount.
func (c Currency) FromDecimal(d decimal.Decimal) (Amount, error) {
	shifted := d.Shift(c.Digits)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, finerr.InvalidAmount("amount", d.String(), "finer than one minor unit")
	}
	return toAmount(shifted, d.String())
}

// Decimal returns the amount in major units.
func (c Currency) Decimal(a Amount) decimal.Decimal {
	return decimal.New(int64(a), -c.Digits)
}

// Format renders the amount with exactly Digits decimals, e.g. "330.00".
func (c Currency) Format(a Amount) string {
	return c.Decimal(a).StringFixed(c.Digits)
}

// FormatWithCode renders the amount followed by the currency code when one is set.
func (c Currency) FormatWithCode(a Amount) string {
	if c.Code == "" {
		return c.Format(a)
	}
	return c.Format(a) + " " + c.Code
}

func (c Currency) clean(s string) string {
	s = strings.TrimSpace(s)
	if c.Code != "" {
		s = strings.TrimSpace(strings.TrimPrefix(s, c.Code))
		s = strings.TrimSpace(strings.TrimSuffix(s, c.Code))
	}
	return strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
}

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// toAmount converts a whole number of minor units, rejecting values an Amount cannot hold.
func toAmount(units decimal.Decimal, value interface{}) (Amount, error) {
	if units.GreaterThan(maxAmount) || units.LessThan(minAmount) {
		return 0, finerr.InvalidAmount("amount", value, "out of range")
	}
	return Amount(units.IntPart()), nil
}

// MulDecimal returns round(a x q), rounding half away from zero.
func MulDecimal(a Amount, q decimal.Decimal) (Amount, error) {
	product := decimal.NewFromInt(int64(a)).Mul(q).Round(0)
	return toAmount(product, product.String())
}

// Share returns round(total x part / whole), rounding half away from zero.
// whole must be non-zero.
func Share(total Amount, part, whole decimal.Decimal) Amount {
	return Amount(decimal.NewFromInt(int64(total)).Mul(part).DivRound(whole, 0).IntPart())
}

// Sum adds amounts and fails instead of wrapping around when the total leaves the int64 range.
func Sum(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		if (a > 0 && total > math.MaxInt64-a) || (a < 0 && total < math.MinInt64-a) {
			return 0, finerr.InvalidAmount("amount", nil, "sum out of range")
		}
		total += a
	}
	return total, nil
}

// Percent returns part / whole x 100 without rounding. whole must be positive.
func Percent(part, whole Amount) float64 {
	p, _ := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Float64()
	return p
}

// Min returns the smaller amount.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}
