// Package core holds the ledger's domain types: records, calendar dates,
// monetary amounts, and the error taxonomy shared by every component.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied amount string to a decimal value.
// It accepts both dot (12.34) and comma (12,34) separators and rejects
// negative amounts; record amounts are unsigned, direction comes from the
// record kind.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrValidation)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not numeric", ErrValidation, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return d, nil
}

// Cents converts a decimal amount to integer cents with half-up rounding
// on the third decimal place. The store keeps amounts as cents so sums
// and atomic increments stay exact.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
