// Package money implements the Money value type used across the ledger.
//
// Money is a whole number of US cents. There is no floating point anywhere
// in the arithmetic: every operation is exact integer math on cents, and
// every operation returns a new value.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	gomoney "github.com/Rhymond/go-money"
)

// Money is an immutable integer-cent amount.
//
// INVARIANTS:
//   - The cent count is always a whole number; non-integer construction fails.
//   - All operations return new values; a Money is never mutated in place.
//
// The zero value is usable and equals Zero().
type Money struct {
	cents int64
}

// NonIntegerAmountError reports an attempt to construct Money from a value
// that is not a whole number of cents.
type NonIntegerAmountError struct {
	Value float64
}

func (e *NonIntegerAmountError) Error() string {
	return fmt.Sprintf("money requires an integer cent value, got %v", e.Value)
}

// FromCents creates Money from a whole-cent count (1050 means $10.50).
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// FromCentsFloat creates Money from a float cent count.
// Fails with NonIntegerAmountError if the value carries a fractional cent.
// This is the guarded entry point for values that crossed a float boundary
// (JSON numbers, provider APIs); internal code should use FromCents.
func FromCentsFloat(cents float64) (Money, error) {
	if cents != math.Trunc(cents) || math.IsNaN(cents) || math.IsInf(cents, 0) {
		return Money{}, &NonIntegerAmountError{Value: cents}
	}
	return Money{cents: int64(cents)}, nil
}

// Zero returns the zero amount.
func Zero() Money {
	return Money{}
}

// Cents returns the raw cent count.
func (m Money) Cents() int64 { return m.cents }

// Convenience predicates for validations and display decisions.

func (m Money) IsZero() bool     { return m.cents == 0 }
func (m Money) IsPositive() bool { return m.cents > 0 }
func (m Money) IsNegative() bool { return m.cents < 0 }

// Arithmetic. Each operation returns a new value.

func (m Money) Add(n Money) Money { return Money{cents: m.cents + n.cents} }
func (m Money) Sub(n Money) Money { return Money{cents: m.cents - n.cents} }
func (m Money) Neg() Money        { return Money{cents: -m.cents} }

// Abs returns the magnitude of the amount. Used when a signed expense
// needs to be spent from an envelope as a positive amount.
func (m Money) Abs() Money {
	if m.cents < 0 {
		return Money{cents: -m.cents}
	}
	return m
}

// Comparison.

func (m Money) Equal(n Money) bool       { return m.cents == n.cents }
func (m Money) LessThan(n Money) bool    { return m.cents < n.cents }
func (m Money) GreaterThan(n Money) bool { return m.cents > n.cents }

// Compare returns -1, 0, or +1 for sorting.
func (m Money) Compare(n Money) int {
	switch {
	case m.cents < n.cents:
		return -1
	case m.cents > n.cents:
		return 1
	default:
		return 0
	}
}

// String formats the amount for display, e.g. "$10.50" or "-$6.00".
func (m Money) String() string {
	return gomoney.New(m.cents, gomoney.USD).Display()
}

// MarshalJSON writes the amount as a bare integer cent count.
// This is the wire and storage representation everywhere: documents hold
// plain integers, never the rich value type.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.cents)
}

// UnmarshalJSON reads a bare integer cent count. Integers are parsed
// exactly over the full int64 range, never through float64. A fractional
// JSON number fails with NonIntegerAmountError rather than silently
// rounding.
func (m *Money) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	if cents, err := strconv.ParseInt(num.String(), 10, 64); err == nil {
		*m = Money{cents: cents}
		return nil
	}
	f, err := num.Float64()
	if err != nil {
		return fmt.Errorf("decode money: %w", err)
	}
	v, err := FromCentsFloat(f)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
