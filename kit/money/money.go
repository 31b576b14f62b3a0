// Package money converts between decimal amounts as written in configuration
// and requests ("19.00") and the int64 minor units kept by the ledger.
package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits of every bucket currency.
const Scale = 2

var ErrInvalidAmount = errors.New("invalid amount")

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// FromDecimal rejects negative values, values with more precision than Scale
// and values whose minor units do not fit an int64.
func FromDecimal(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d.String())
	}
	if !d.Equal(d.Truncate(Scale)) {
		return 0, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, d.String(), Scale)
	}
	minor := d.Shift(Scale)
	if minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d.String())
	}
	return minor.IntPart(), nil
}

func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Join(ErrInvalidAmount, err)
	}
	return FromDecimal(d)
}

func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -Scale)
}

// Format renders minor units with exactly Scale decimals, e.g. 48100 -> "481.00".
func Format(minor int64) string {
	return ToDecimal(minor).StringFixed(Scale)
}
