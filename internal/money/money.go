// Package money holds the fixed-point amount type used across the ledger.
//
// All arithmetic happens on Cents (int64 minor units). Decimal values only
// appear at the API boundary, where they are rounded to two places.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount in minor currency units.
type Cents int64

// MaxAmount bounds the magnitude of any single amount: 10 trillion units.
// Thousands of records at this size still fit in an int64 sum.
const MaxAmount Cents = 1_000_000_000_000_000

var (
	// ErrNoShares is returned when an amount is split into zero parts.
	ErrNoShares = errors.New("cannot split into zero shares")
	// ErrOutOfRange is returned for amounts beyond MaxAmount.
	ErrOutOfRange = errors.New("amount out of range")
)

// FromDecimal rounds d half away from zero to two decimal places.
// Values whose magnitude exceeds MaxAmount return ErrOutOfRange.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	rounded := d.Round(2)
	if rounded.Abs().GreaterThan(MaxAmount.Decimal()) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrOutOfRange, d.String(), MaxAmount)
	}
	return Cents(rounded.Shift(2).IntPart()), nil
}

// FromFloat is FromDecimal for float inputs (JSON numbers from older clients).
func FromFloat(f float64) (Cents, error) {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse reads a decimal string such as "12.30".
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return FromDecimal(d)
}

// Add returns a+b. ok is false when the sum overflows int64.
func Add(a, b Cents) (sum Cents, ok bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// Sub returns a-b. ok is false when the difference overflows int64.
func Sub(a, b Cents) (diff Cents, ok bool) {
	diff = a - b
	if (b > 0 && diff > a) || (b < 0 && diff < a) {
		return 0, false
	}
	return diff, true
}

// Decimal converts c back to a two-place decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats c with exactly two decimals ("-0.05").
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Abs returns the absolute value of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// SplitEqually divides total into n shares that sum to total exactly.
// Each share is total/n; the first total%n shares carry one extra cent.
func SplitEqually(total Cents, n int) ([]Cents, error) {
	if n <= 0 {
		return nil, ErrNoShares
	}
	base := total / Cents(n)
	rem := total % Cents(n)
	shares := make([]Cents, n)
	for i := range shares {
		shares[i] = base
		// rem carries the sign of total, so negative totals hand out -1s
		if rem > 0 && Cents(i) < rem {
			shares[i]++
		} else if rem < 0 && Cents(i) < -rem {
			shares[i]--
		}
	}
	return shares, nil
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
