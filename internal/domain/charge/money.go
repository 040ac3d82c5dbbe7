package charge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// ToMinorUnits converts a decimal amount ("10.50") in the given ISO 4217
// currency to an integer count of the currency's smallest unit (1050).
// Amounts must be positive and carry no more decimals than the currency has.
func ToMinorUnits(amount, code string) (int64, error) {
	unit, err := ParseCurrency(code)
	if err != nil {
		return 0, err
	}
	scale, _ := currency.Standard.Rounding(unit)

	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, amount)
	}

	minor := d.Shift(int32(scale))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places for %s", ErrInvalidAmount, amount, scale, unit)
	}
	if !minor.LessThanOrEqual(decimal.NewFromInt(maxMinorUnits)) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidAmount, amount)
	}
	return minor.IntPart(), nil
}

const maxMinorUnits = 1<<53 - 1

// nonMoney are ISO 4217 codes that ParseISO accepts but nobody can be charged in:
// testing and "no currency" codes, precious metals, and fund or settlement units.
var nonMoney = map[string]struct{}{
	"XXX": {}, "XTS": {},
	"XAU": {}, "XAG": {}, "XPT": {}, "XPD": {},
	"XDR": {}, "XSU": {}, "XUA": {},
	"XBA": {}, "XBB": {}, "XBC": {}, "XBD": {},
}

// ParseCurrency resolves an ISO 4217 code, rejecting units that are not money.
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
	if _, ok := nonMoney[unit.String()]; ok {
		return currency.Unit{}, fmt.Errorf("%w: %q is not a payable currency", ErrUnsupportedCurrency, code)
	}
	return unit, nil
}
