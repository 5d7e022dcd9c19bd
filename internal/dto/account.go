package dto

import (
	"time"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	CurrencyCode  string          `json:"currencyCode"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// GetAccountResponse wraps the caller's account, which is null when none exists yet.
type GetAccountResponse struct {
	Message string           `json:"message"`
	Account *AccountResponse `json:"account"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		Balance:       acc.Balance,
		CurrencyCode:  acc.CurrencyCode,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}
