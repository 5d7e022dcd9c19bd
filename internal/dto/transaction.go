package dto

import (
	"time"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest is the body of deposit and withdraw calls.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"positive_amount" swaggertype:"string" example:"100.50"`
}

// TransferRequest moves Amount to the account with public number Receiver.
type TransferRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"positive_amount" swaggertype:"string" example:"25.00"`
	Receiver string          `json:"receiver" binding:"required" example:"0123456789"`
}

// ListTransactionsParams defines query parameters for listing ledger entries.
// Without a limit every entry is returned.
type ListTransactionsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID     string                   `json:"transactionID"`
	AccountID         string                   `json:"accountID"`
	Amount            decimal.Decimal          `json:"amount" swaggertype:"string"`
	Type              domain.TransactionType   `json:"type"`
	Status            domain.TransactionStatus `json:"status"`
	ReceiverAccountID string                   `json:"receiverAccountID,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
	LastUpdatedAt     time.Time                `json:"lastUpdatedAt"`
}

// ListTransactionsResponse wraps a page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     t.TransactionID,
		AccountID:         t.AccountID,
		Amount:            t.Amount,
		Type:              t.Type,
		Status:            t.Status,
		ReceiverAccountID: t.ReceiverAccountID,
		CreatedAt:         t.CreatedAt,
		LastUpdatedAt:     t.LastUpdatedAt,
	}
}

// ToListTransactionsResponse converts ledger entries and a cursor to the list DTO
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
