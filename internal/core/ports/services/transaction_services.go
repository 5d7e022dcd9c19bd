package services

import (
	"context"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionWriterSvc records money movements for the caller's account.
// Each call creates a PENDING ledger entry before touching balances and
// returns the COMPLETED entry on success.
type TransactionWriterSvc interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error)
	Transfer(ctx context.Context, userID string, amount decimal.Decimal, receiverAccountNumber string) (*domain.Transaction, error)
}

// TransactionReaderSvc reads the ledger.
type TransactionReaderSvc interface {
	// GetTransactions returns every entry of the caller's account in insertion order.
	GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)

	// GetTransactionsPage returns up to limit entries after nextToken plus the following token.
	GetTransactionsPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// GetTransactionByID returns one entry or apperrors.ErrNotFound.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// GetTransactionForUser returns an entry the caller's account sent or received.
	// Entries of other accounts report apperrors.ErrNotFound.
	GetTransactionForUser(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines the ledger service interfaces
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionReaderSvc
}
