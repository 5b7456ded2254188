// Package money provides the fixed-point amount type used for prices, tax and shares.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the canonical number of decimal places for every amount.
const Places = 2

var half = decimal.New(5, -1)

// Money is a decimal amount with two canonical decimal places.
// The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

// Zero returns 0.00.
func Zero() Money { return Money{} }

// FromCents creates a Money value from an integer number of cents.
func FromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -Places)}
}

// FromDecimal wraps a decimal value without rounding it.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// Parse reads a decimal string such as "10", "3.5" or "12.345".
// The result is not rounded; call Round to bring it to canonical scale.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Round rounds to two decimal places, half-up (toward positive infinity on a tie).
func (m Money) Round() Money {
	shifted := m.d.Shift(Places).Add(half).Floor()
	return Money{d: shifted.Shift(-Places)}
}

// Add returns m + other. The result is not rounded.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Div divides m by n. It reports false, and returns zero, when n is zero.
func (m Money) Div(n int) (Money, bool) {
	if n == 0 {
		return Zero(), false
	}
	return Money{d: m.d.Div(decimal.NewFromInt(int64(n)))}, true
}

// Sign returns -1, 0 or +1.
func (m Money) Sign() int { return m.d.Sign() }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.d.IsZero() }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool { return m.d.IsPositive() }

// Cmp compares m and other numerically.
func (m Money) Cmp(other Money) int { return m.d.Cmp(other.d) }

// Equal reports numeric equality, so 5.5 equals 5.50.
func (m Money) Equal(other Money) bool { return m.d.Equal(other.d) }

// Decimal exposes the underlying value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Cents returns the amount in whole cents after rounding.
func (m Money) Cents() int64 {
	return m.Round().d.Shift(Places).IntPart()
}

// String renders the rounded amount with exactly two decimal places.
func (m Money) String() string {
	return m.Round().d.StringFixed(Places)
}

// MarshalText implements encoding.TextMarshaler.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnmarshalJSON accepts both quoted strings and bare JSON numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// Sum adds all values, rounding the running total after each addition.
func Sum(values ...Money) Money {
	total := Zero()
	for _, v := range values {
		total = total.Add(v).Round()
	}
	return total
}
