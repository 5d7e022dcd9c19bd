package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
)

// AccountRepository stores accounts in a Table and serializes balance changes per account.
type AccountRepository struct {
	accounts *Table[domain.Account]
	locker   *KeyedLocker
	// insertMu keeps the uniqueness checks and the insert of SaveAccount atomic.
	insertMu sync.Mutex
}

// NewAccountRepository returns an empty account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: NewTable[domain.Account](),
		locker:   NewKeyedLocker(),
	}
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.insertMu.Lock()
	defer r.insertMu.Unlock()

	var conflict string
	r.accounts.Scan(func(_ string, a domain.Account) bool {
		switch {
		case a.UserID == account.UserID:
			conflict = "user " + account.UserID
		case a.AccountNumber == account.AccountNumber:
			conflict = "number " + account.AccountNumber
		}
		return conflict == ""
	})
	if conflict != "" {
		return fmt.Errorf("%w: account for %s already exists", apperrors.ErrDuplicate, conflict)
	}
	if !r.accounts.Insert(account.AccountID, account) {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	return nil
}

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, ok := r.accounts.Get(accountID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

// FindAccountByUserID returns the earliest created account; insertion order breaks ties.
func (r *AccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	var found *domain.Account
	r.accounts.Scan(func(_ string, a domain.Account) bool {
		if a.UserID == userID && (found == nil || a.CreatedAt.Before(found.CreatedAt)) {
			acc := a
			found = &acc
		}
		return true
	})
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (r *AccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var found *domain.Account
	r.accounts.Scan(func(_ string, a domain.Account) bool {
		if a.AccountNumber == accountNumber {
			acc := a
			found = &acc
			return false
		}
		return true
	})
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (r *AccountRepository) DeleteAccount(ctx context.Context, accountID string, guard func(domain.Account) error) error {
	unlock := r.locker.Lock(accountID)
	defer unlock()

	acc, ok := r.accounts.Get(accountID)
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := guard(acc); err != nil {
		return err
	}
	r.accounts.Delete(accountID)
	return nil
}

func (r *AccountRepository) ApplyBalanceChange(ctx context.Context, accountID string, mutate func(*domain.Account) error) (*domain.Account, error) {
	unlock := r.locker.Lock(accountID)
	defer unlock()

	acc, ok := r.accounts.Get(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if err := mutate(&acc); err != nil {
		return nil, err
	}
	acc.LastUpdatedAt = time.Now().UTC()
	if !r.accounts.Update(accountID, acc) {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

// ApplyTransfer holds both account locks while the callback runs and writes the
// two rows only after it succeeds, so a failure leaves both balances untouched.
func (r *AccountRepository) ApplyTransfer(ctx context.Context, senderID, receiverID string, mutate func(sender, receiver *domain.Account) error) (*domain.Account, *domain.Account, error) {
	if senderID == receiverID {
		return nil, nil, fmt.Errorf("transfer to the same account: %w", apperrors.ErrValidation)
	}
	unlock := r.locker.Lock(senderID, receiverID)
	defer unlock()

	sender, ok := r.accounts.Get(senderID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, senderID)
	}
	receiver, ok := r.accounts.Get(receiverID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, receiverID)
	}
	if err := mutate(&sender, &receiver); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	sender.LastUpdatedAt, receiver.LastUpdatedAt = now, now
	r.accounts.Update(receiverID, receiver)
	r.accounts.Update(senderID, sender)
	return &sender, &receiver, nil
}
