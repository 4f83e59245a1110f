// Package money converts between user-entered decimal amounts and the integer
// cents the ledger stores.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("amount is not a number")
	ErrNonPositive    = errors.New("amount must be greater than zero")
	ErrInvalidFeeRate = errors.New("fee percent must be between 0 and 100")
	ErrTooLarge       = errors.New("amount is too large")
)

// MaxCents caps any parsed amount at 10,000,000,000.00. With a fee below 100%
// amount plus fee stays far inside int64.
const MaxCents int64 = 1_000_000_000_000

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(MaxCents)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// ParsePositive parses a user amount such as "100", "$12.5" or "1,200.00" and
// returns it in cents, rounded half-up to two places.
func ParsePositive(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() {
		return 0, ErrNonPositive
	}
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: at most %s", ErrTooLarge, Format(MaxCents))
	}
	return cents.IntPart(), nil
}

// Format renders cents as a fixed two-decimal string ("105.00").
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// Fee returns amount*percent/100 in cents, rounded half-up.
func Fee(amountCents int64, percent decimal.Decimal) int64 {
	return decimal.NewFromInt(amountCents).Mul(percent).Div(hundred).Round(0).IntPart()
}

// Breakdown is the fee split shown on a quote or invoice.
type Breakdown struct {
	AmountCents int64
	FeeCents    int64
	TotalCents  int64
}

// WithFee expects amountCents within MaxCents, as returned by ParsePositive.
func WithFee(amountCents int64, percent decimal.Decimal) Breakdown {
	fee := Fee(amountCents, percent)
	return Breakdown{AmountCents: amountCents, FeeCents: fee, TotalCents: amountCents + fee}
}

// Calculation answers "what do I charge to receive target after fees" and
// "what do I receive if I charge target".
type Calculation struct {
	TargetCents   int64
	ChargeCents   int64
	ReceivedCents int64
}

// Calculate computes charge = target/(1-fee) and received = target*(1-fee).
func Calculate(targetCents int64, percent decimal.Decimal) (Calculation, error) {
	if percent.IsNegative() || percent.GreaterThanOrEqual(hundred) {
		return Calculation{}, ErrInvalidFeeRate
	}
	if targetCents > MaxCents {
		return Calculation{}, ErrTooLarge
	}
	keep := decimal.NewFromInt(1).Sub(percent.Div(hundred))
	target := decimal.NewFromInt(targetCents)
	charge := target.Div(keep).Round(0)
	if charge.GreaterThan(maxInt64) {
		return Calculation{}, ErrTooLarge
	}
	return Calculation{
		TargetCents:   targetCents,
		ChargeCents:   charge.IntPart(),
		ReceivedCents: target.Mul(keep).Round(0).IntPart(),
	}, nil
}
