package domain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the number of decimal places between a display unit and its
// micro unit (1 MEL = 10^6 micromel).
const Decimals = 6

// Common errors
var (
	ErrNilRaw           = errors.New("amount: nil raw value")
	ErrNegativeAmount   = errors.New("amount: negative amount")
	ErrDenomMismatch    = errors.New("amount: cannot operate on different denominations")
	ErrNegativeResult   = errors.New("amount: operation would result in negative amount")
	ErrTooManyDecimals  = errors.New("amount: more than 6 decimal places")
	ErrInvalidAmountStr = errors.New("amount: invalid decimal string")
)

// Amount is an immutable quantity of one denomination, held in micro units.
type Amount struct {
	raw   *big.Int
	denom Denom
}

// NewAmount creates an Amount from a raw micro-unit value.
func NewAmount(denom Denom, raw *big.Int) Amount {
	if raw == nil {
		panic(ErrNilRaw)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}
	return Amount{raw: new(big.Int).Set(raw), denom: denom}
}

// ZeroAmount creates a zero Amount of denom.
func ZeroAmount(denom Denom) Amount {
	return NewAmount(denom, new(big.Int))
}

// Raw returns a copy of the micro-unit value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

// Denom returns the denomination.
func (a Amount) Denom() Denom { return a.denom }

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// Add adds two amounts of the same denomination.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.checkSameDenom(b); err != nil {
		return Amount{}, err
	}
	return NewAmount(a.denom, new(big.Int).Add(a.Raw(), b.Raw())), nil
}

// Sub subtracts b from a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.checkSameDenom(b); err != nil {
		return Amount{}, err
	}
	if a.Raw().Cmp(b.Raw()) < 0 {
		return Amount{}, ErrNegativeResult
	}
	return NewAmount(a.denom, new(big.Int).Sub(a.Raw(), b.Raw())), nil
}

// Cmp compares two amounts of the same denomination.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.checkSameDenom(b); err != nil {
		return 0, err
	}
	return a.Raw().Cmp(b.Raw()), nil
}

// -----------------------------------------------------------------------------
// Boundary Functions (decimal conversion - display and user input only)
// -----------------------------------------------------------------------------

// ToDecimal converts the amount to display units.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -Decimals)
}

// ParseAmount parses a display-unit decimal string such as "1001" or
// "0.5" into micro units.
func ParseAmount(denom Denom, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", ErrInvalidAmountStr, err)
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}
	scaled := d.Shift(Decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}
	return NewAmount(denom, scaled.BigInt()), nil
}

// String returns e.g. "1001 MEL".
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.ToDecimal().String(), a.denom)
}

// StringFixed returns the amount with a fixed number of decimal places.
func (a Amount) StringFixed(places int32) string {
	return fmt.Sprintf("%s %s", a.ToDecimal().StringFixed(places), a.denom)
}

func (a Amount) checkSameDenom(b Amount) error {
	if !a.denom.Equal(b.denom) {
		return fmt.Errorf("%w: %s vs %s", ErrDenomMismatch, a.denom, b.denom)
	}
	return nil
}
