package services

import (
	"context"

	"github.com/SscSPs/wallet_app/internal/core/domain"
)

// ReputationChecker consults an external blacklist before a user is registered.
// A blacklisted identity yields apperrors.ErrReputationCheckFailed.
type ReputationChecker interface {
	Check(ctx context.Context, identity string) error
}

// EventPublisher announces completed ledger entries to other systems.
// Publishing is best effort; callers log and ignore failures.
type EventPublisher interface {
	PublishTransaction(ctx context.Context, txn domain.Transaction) error
	Close() error
}
