// internal/domain/amount.go
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a fixed-point money value with two fraction digits,
// matching a numeric(10,2) column. The decimal is always held at
// exponent -2 so equal amounts compare equal field by field.
type Amount struct {
	d decimal.Decimal
}

const (
	amountScale     = 2
	amountIntDigits = 8
	// longer inputs cannot be a numeric(10,2) value in any notation we accept
	amountMaxLen = 40
)

var (
	ErrAmountFormat    = errors.New("amount must be a decimal number")
	ErrAmountScale     = errors.New("amount must have at most 2 fraction digits")
	ErrAmountPrecision = errors.New("amount must be less than 100000000")
)

var amountLimit = decimal.New(1, amountIntDigits)

// ParseAmount parses a decimal string. Values with more than two fraction
// digits or more than eight integer digits are rejected, never rounded.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > amountMaxLen {
		return Amount{}, ErrAmountFormat
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrAmountFormat
	}
	if d.IsZero() {
		return Amount{d: decimal.Zero.Round(amountScale)}, nil
	}
	// Exponent bounds come first: rescaling "1e50000000" is unbounded work.
	// The coefficient has at most amountMaxLen digits, so an exponent below
	// -amountMaxLen-amountScale always leaves a fraction beyond two digits.
	if d.Exponent() > amountIntDigits {
		return Amount{}, ErrAmountPrecision
	}
	if d.Exponent() < -(amountMaxLen + amountScale) {
		return Amount{}, ErrAmountScale
	}
	if !d.Equal(d.Truncate(amountScale)) {
		return Amount{}, ErrAmountScale
	}
	if d.Abs().GreaterThanOrEqual(amountLimit) {
		return Amount{}, ErrAmountPrecision
	}
	return Amount{d: d.Round(amountScale)}, nil
}

// MustAmount is ParseAmount for literals known to be valid.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(fmt.Sprintf("domain: invalid amount %q: %v", s, err))
	}
	return a
}

func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d.Round(amountScale)}
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) IsPositive() bool { return a.d.IsPositive() }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// Cmp compares by decimal value: -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// String returns the canonical form, always with two fraction digits.
func (a Amount) String() string {
	return a.d.StringFixed(amountScale)
}

// Float64 is for display only; sums and storage use the decimal value.
func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
