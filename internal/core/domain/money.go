package domain

import (
	"fmt"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MaxAmountScale is the number of fractional digits stored for amounts and balances.
const MaxAmountScale = 4

// MaxAmount is the largest value an amount or balance column holds (NUMERIC(20,4)).
var MaxAmount = decimal.New(1, 16).Sub(decimal.New(1, -MaxAmountScale))

// ValidateAmount refuses amounts that are not strictly positive, carry more than
// MaxAmountScale fractional digits, or exceed MaxAmount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s: %w", amount.String(), apperrors.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("amount %s has more than %d decimal places: %w", amount.String(), MaxAmountScale, apperrors.ErrInvalidAmount)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("amount %s exceeds %s: %w", amount.String(), MaxAmount.String(), apperrors.ErrInvalidAmount)
	}
	return nil
}
