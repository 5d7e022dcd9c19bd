package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/wallet_app/internal/core/domain"
)

// TransactionReader defines read operations for ledger entries.
type TransactionReader interface {
	// FindTransactionByID retrieves a ledger entry or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID returns entries originated by accountID in insertion order.
	// A limit <= 0 returns every entry and no token. Otherwise it returns up to limit entries
	// after nextToken and a token for the next page, nil when there is none.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for ledger entries.
type TransactionWriter interface {
	// SaveTransaction persists a new entry. Storage assigns its sequence.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionStatus moves a PENDING entry to a terminal status.
	// Entries that are no longer PENDING fail with apperrors.ErrInvalidStatusTransition.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedAt time.Time) error
}

// TransactionRepositoryFacade combines all ledger repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
