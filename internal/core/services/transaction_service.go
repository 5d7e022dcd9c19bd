package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// transactionService is the transaction engine. It owns ledger entries and drives
// balance changes through the account service.
type transactionService struct {
	BaseService
	txnRepo    portsrepo.TransactionRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
	publisher  portssvc.EventPublisher
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithEventPublisher announces completed entries through publisher.
func WithEventPublisher(publisher portssvc.EventPublisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.publisher = publisher
	}
}

// WithTransactionClock pins the clock used for entry timestamps.
func WithTransactionClock(clock func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// NewTransactionService creates the transaction engine.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, accountSvc portssvc.AccountSvcFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:    txnRepo,
		accountSvc: accountSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
	account, err := s.accountSvc.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, account.AccountID, amount, domain.Deposit, "", func() error {
		_, err := s.accountSvc.Credit(ctx, account.AccountID, amount)
		return err
	})
}

func (s *transactionService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Transaction, error) {
	account, err := s.accountSvc.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, account.AccountID, amount, domain.Withdrawal, "", func() error {
		_, err := s.accountSvc.Debit(ctx, account.AccountID, amount)
		return err
	})
}

func (s *transactionService) Transfer(ctx context.Context, userID string, amount decimal.Decimal, receiverAccountNumber string) (*domain.Transaction, error) {
	sender, err := s.accountSvc.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.accountSvc.FindByAccountNumber(ctx, receiverAccountNumber)
	if err != nil {
		return nil, err
	}
	if sender.AccountID == receiver.AccountID {
		return nil, fmt.Errorf("cannot transfer to your own account: %w", apperrors.ErrValidation)
	}
	return s.record(ctx, sender.AccountID, amount, domain.Transfer, receiver.AccountID, func() error {
		_, err := s.accountSvc.TransferTo(ctx, sender.AccountID, amount, receiver.AccountID)
		return err
	})
}

// record persists a PENDING entry, runs mutate and settles the entry. A failed mutation
// marks the entry FAILED and returns the mutation's error. If that mark cannot be
// written the entry stays PENDING; the mutation's error is still what the caller sees.
func (s *transactionService) record(ctx context.Context, accountID string, amount decimal.Decimal, txType domain.TransactionType, receiverID string, mutate func() error) (*domain.Transaction, error) {
	txn, err := domain.NewTransaction(accountID, amount, txType, receiverID, s.Now())
	if err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txType)),
		slog.String("account_id", accountID),
	)

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.ErrorContext(ctx, "Failed to save pending transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record %s: %w", txType, err)
	}

	if mutateErr := mutate(); mutateErr != nil {
		logger.WarnContext(ctx, "Balance change rejected", slog.String("error", mutateErr.Error()))
		if err := txn.TransitionTo(domain.StatusFailed, s.Now()); err == nil {
			if err := s.txnRepo.UpdateTransactionStatus(ctx, txn.TransactionID, txn.Status, txn.LastUpdatedAt); err != nil {
				logger.ErrorContext(ctx, "Failed to mark transaction failed, left pending", slog.String("error", err.Error()))
			}
		}
		return nil, mutateErr
	}

	if err := txn.TransitionTo(domain.StatusCompleted, s.Now()); err != nil {
		return nil, err
	}
	if err := s.txnRepo.UpdateTransactionStatus(ctx, txn.TransactionID, txn.Status, txn.LastUpdatedAt); err != nil {
		logger.ErrorContext(ctx, "Failed to mark transaction completed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to complete %s: %w", txType, err)
	}
	logger.InfoContext(ctx, "Transaction completed", slog.String("amount", amount.String()))

	s.publish(ctx, txn)
	return &txn, nil
}

func (s *transactionService) publish(ctx context.Context, txn domain.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransaction(ctx, txn); err != nil {
		s.LogWarn(ctx, err, "Failed to publish transaction event", slog.String("transaction_id", txn.TransactionID))
	}
}

func (s *transactionService) GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	txns, _, err := s.GetTransactionsPage(ctx, userID, 0, nil)
	return txns, err
}

func (s *transactionService) GetTransactionsPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	account, err := s.accountSvc.FindByOwner(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	txns, next, err := s.txnRepo.ListTransactionsByAccountID(ctx, account.AccountID, limit, nextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", account.AccountID))
		}
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, next, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) GetTransactionForUser(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	account, err := s.accountSvc.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.AccountID != account.AccountID && txn.ReceiverAccountID != account.AccountID {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return txn, nil
}
