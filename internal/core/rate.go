// Package core provides the time-tracking domain model and its arithmetic.
//
// This file contains parsing and formatting for monetary rates and costs.
// All money math runs on decimals; binary floats never enter cost
// calculations.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRate parses an hourly rate or money amount from a string. It accepts
// both dot (12.34) and comma (12,34) decimal separators and rejects negative
// values.
//
// Examples:
//
//	ParseRate("50")    -> 50
//	ParseRate("12,34") -> 12.34
//	ParseRate("-1")    -> error
func ParseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidRate
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidRate
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidRate
	}
	return d, nil
}

// FormatMoney renders a decimal amount with exactly 2 fraction digits,
// the wire and storage representation for rates, costs and budgets.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
