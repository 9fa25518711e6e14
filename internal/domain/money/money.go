// Package money converts major-unit amounts into the minor units the billing
// provider expects.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a request omits the currency.
const DefaultCurrency = "usd"

var (
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrTooPrecise        = errors.New("amount has more decimal places than the currency allows")
	ErrAmountOverflow    = errors.New("amount is too large")
)

// ISO 4217 currencies whose minor unit is not 1/100. Everything else is two-decimal.
var exponents = map[string]int32{
	"bif": 0, "clp": 0, "djf": 0, "gnf": 0, "jpy": 0, "kmf": 0, "krw": 0, "mga": 0,
	"pyg": 0, "rwf": 0, "ugx": 0, "vnd": 0, "vuv": 0, "xaf": 0, "xof": 0, "xpf": 0,
	"bhd": 3, "jod": 3, "kwd": 3, "omr": 3, "tnd": 3,
}

// NormalizeCurrency lower-cases and trims a currency code, defaulting to usd.
func NormalizeCurrency(currency string) string {
	c := strings.ToLower(strings.TrimSpace(currency))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

// Exponent returns the number of minor-unit digits for currency.
func Exponent(currency string) int32 {
	if exp, ok := exponents[NormalizeCurrency(currency)]; ok {
		return exp
	}
	return 2
}

// ToMinorUnits converts amount (major units, e.g. dollars) into minor units
// (e.g. cents). 10 usd -> 1000, 10 jpy -> 10, 10 kwd -> 10000.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrNonPositiveAmount
	}

	exp := Exponent(currency)
	minor := amount.Shift(exp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s %s", ErrTooPrecise, amount.String(), NormalizeCurrency(currency))
	}
	if minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, ErrAmountOverflow
	}
	return minor.IntPart(), nil
}
