package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/wallet_app/internal/utils/pagination"
)

// TransactionRepository is the in-process ledger.
type TransactionRepository struct {
	mu      sync.Mutex
	entries *Table[domain.Transaction]
	nextSeq int64
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{entries: NewTable[domain.Transaction]()}
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

func (r *TransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn.Sequence = r.nextSeq + 1
	if !r.entries.Insert(txn.TransactionID, txn) {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
	}
	r.nextSeq++
	return nil
}

func (r *TransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.entries.Get(transactionID)
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := txn.TransitionTo(status, updatedAt); err != nil {
		return err
	}
	r.entries.Update(transactionID, txn)
	return nil
}

func (r *TransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, ok := r.entries.Get(transactionID)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (r *TransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	afterSeq := int64(0)
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		afterSeq = seq
	}

	results := make([]domain.Transaction, 0)
	hasMore := false
	r.entries.Scan(func(_ string, t domain.Transaction) bool {
		if t.AccountID != accountID || t.Sequence <= afterSeq {
			return true
		}
		if limit > 0 && len(results) == limit {
			hasMore = true
			return false
		}
		results = append(results, t)
		return true
	})

	var next *string
	if hasMore {
		token := pagination.EncodeSequenceToken(results[len(results)-1].Sequence)
		next = &token
	}
	return results, next, nil
}
