package repositories

import (
	"context"

	"github.com/SscSPs/wallet_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
// All finders return apperrors.ErrNotFound when nothing matches.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUserID retrieves the account owned by a user.
	// If storage holds several, the earliest created one is returned.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its public account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A second account for the same user or a
	// reused account number fails with apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account after guard approves its locked, current state.
	DeleteAccount(ctx context.Context, accountID string, guard func(domain.Account) error) error
}

// AccountBalanceMutator serializes balance changes per account.
// The mutate callbacks run while the affected rows are locked; when they return an error
// nothing is persisted.
type AccountBalanceMutator interface {
	// ApplyBalanceChange locks one account, applies mutate and persists the new balance.
	ApplyBalanceChange(ctx context.Context, accountID string, mutate func(*domain.Account) error) (*domain.Account, error)

	// ApplyTransfer locks both accounts in a stable order, applies mutate and persists
	// both balances atomically.
	ApplyTransfer(ctx context.Context, senderID, receiverID string, mutate func(sender, receiver *domain.Account) error) (*domain.Account, *domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceMutator
}
