package services

import (
	"context"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc is the account directory. Finders return apperrors.ErrNotFound
// when nothing matches and other errors only on storage failure.
type AccountReaderSvc interface {
	// FindByOwner returns the account owned by userID.
	FindByOwner(ctx context.Context, userID string) (*domain.Account, error)

	// FindByAccountNumber returns the account with the given public number.
	FindByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// FindByID returns the account with the given id.
	FindByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriterSvc manages the lifecycle of a user's account.
type AccountWriterSvc interface {
	// CreateAccount opens the single account a user may own.
	CreateAccount(ctx context.Context, userID string) (*domain.Account, error)

	// DeleteAccount removes the user's account; the balance must be zero.
	DeleteAccount(ctx context.Context, userID string) error
}

// AccountBalanceSvc mutates balances. Every call persists before returning.
type AccountBalanceSvc interface {
	// Credit adds amount to the account.
	Credit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)

	// Debit removes amount from the account, refusing to overdraw it.
	Debit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error)

	// TransferTo credits receiverID then debits senderID. A failed credit never debits the sender.
	TransferTo(ctx context.Context, senderID string, amount decimal.Decimal, receiverID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountBalanceSvc
}
