package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a ledger entry records.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// TransactionStatus is the lifecycle state of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Transaction is one ledger entry. ReceiverAccountID is set only for transfers.
type Transaction struct {
	TransactionID     string            `json:"transactionID"` // Primary Key (UUID)
	AccountID         string            `json:"accountID"`     // Originating account
	Amount            decimal.Decimal   `json:"amount"`        // Always > 0
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	ReceiverAccountID string            `json:"receiverAccountID,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	LastUpdatedAt     time.Time         `json:"lastUpdatedAt"`
	Sequence          int64             `json:"-"` // Assigned by storage, insertion order
}

// NewTransaction builds a PENDING entry. Amounts that ValidateAmount refuses are rejected,
// as is a transfer without a receiver.
func NewTransaction(accountID string, amount decimal.Decimal, txType TransactionType, receiverAccountID string, now time.Time) (Transaction, error) {
	if err := ValidateAmount(amount); err != nil {
		return Transaction{}, fmt.Errorf("new %s entry: %w", txType, err)
	}
	switch txType {
	case Deposit, Withdrawal:
		receiverAccountID = ""
	case Transfer:
		if receiverAccountID == "" {
			return Transaction{}, fmt.Errorf("transfer entry requires a receiver: %w", apperrors.ErrValidation)
		}
	default:
		return Transaction{}, fmt.Errorf("unknown transaction type %q: %w", txType, apperrors.ErrValidation)
	}
	return Transaction{
		TransactionID:     uuid.NewString(),
		AccountID:         accountID,
		Amount:            amount,
		Type:              txType,
		Status:            StatusPending,
		ReceiverAccountID: receiverAccountID,
		CreatedAt:         now,
		LastUpdatedAt:     now,
	}, nil
}

// TransitionTo moves the entry out of PENDING. Any other starting state is refused.
func (t *Transaction) TransitionTo(status TransactionStatus, now time.Time) error {
	if t.Status != StatusPending || !status.IsTerminal() {
		return fmt.Errorf("%s -> %s: %w", t.Status, status, apperrors.ErrInvalidStatusTransition)
	}
	t.Status = status
	t.LastUpdatedAt = now
	return nil
}
