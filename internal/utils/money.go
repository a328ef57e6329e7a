package utils

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finvault/ebank/internal/apperrors"
)

// MinorUnitExponent is the number of decimal places in the supported
// currency (2 for cent-based currencies).
const MinorUnitExponent = 2

// ToMinorUnits converts a decimal amount to minor currency units. This is
// the single conversion boundary: decimals exist only in DTOs, the engine
// and the stores work exclusively in int64 minor units. Amounts that are
// not positive, carry sub-minor-unit precision, or overflow int64 fail
// with apperrors.ErrInvalidAmount.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	shifted := amount.Shift(MinorUnitExponent)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has sub-minor-unit precision", apperrors.ErrInvalidAmount, amount.String())
	}
	if !shifted.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount %s is out of range", apperrors.ErrInvalidAmount, amount.String())
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits converts minor currency units back to a decimal amount
// for presentation.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-MinorUnitExponent)
}
