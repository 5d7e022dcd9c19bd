package domain

import (
	"fmt"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountNumberLength is the number of digits in a public account number.
const AccountNumberLength = 10

// Account represents a user's wallet within the core domain.
// Balance must only change through Credit and Debit.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	UserID        string          `json:"userID"`        // Owner, unique per user
	AccountNumber string          `json:"accountNumber"` // Public 10 digit number, immutable
	Balance       decimal.Decimal `json:"balance"`
	CurrencyCode  string          `json:"currencyCode"`
	AuditFields
}

// Credit adds amount to the balance. The result may not exceed MaxAmount.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return fmt.Errorf("credit: %w", err)
	}
	next := a.Balance.Add(amount)
	if next.GreaterThan(MaxAmount) {
		return fmt.Errorf("credit %s to balance %s exceeds %s: %w", amount.String(), a.Balance.String(), MaxAmount.String(), apperrors.ErrInvalidAmount)
	}
	a.Balance = next
	return nil
}

// Debit removes amount from the balance. The balance never goes below zero.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	if a.Balance.LessThan(amount) {
		return fmt.Errorf("debit %s from balance %s: %w", amount.String(), a.Balance.String(), apperrors.ErrInsufficientBalance)
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// CanDebit reports whether Debit(amount) would succeed without changing the balance.
func (a *Account) CanDebit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return fmt.Errorf("debit: %w", err)
	}
	if a.Balance.LessThan(amount) {
		return fmt.Errorf("debit %s from balance %s: %w", amount.String(), a.Balance.String(), apperrors.ErrInsufficientBalance)
	}
	return nil
}

// IsValidAccountNumber reports whether s is exactly AccountNumberLength ASCII digits.
func IsValidAccountNumber(s string) bool {
	if len(s) != AccountNumberLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
