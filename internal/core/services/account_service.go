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
	"github.com/SscSPs/wallet_app/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountNumberAttempts = 5

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	defaultCurrency string
	numberGenerator func() (string, error)
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithDefaultCurrency sets the currency tag of new accounts.
func WithDefaultCurrency(code string) AccountServiceOption {
	return func(s *accountService) {
		if code != "" {
			s.defaultCurrency = code
		}
	}
}

// WithAccountNumberGenerator replaces the random account number source.
func WithAccountNumberGenerator(gen func() (string, error)) AccountServiceOption {
	return func(s *accountService) {
		s.numberGenerator = gen
	}
}

// WithAccountClock pins the clock used for audit fields.
func WithAccountClock(clock func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = clock
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:     repo,
		defaultCurrency: "NGN",
		numberGenerator: func() (string, error) { return utils.GenerateAccountNumber(domain.AccountNumberLength) },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, userID string) (*domain.Account, error) {
	if _, err := s.accountRepo.FindAccountByUserID(ctx, userID); err == nil {
		return nil, fmt.Errorf("%w: user %s already owns an account", apperrors.ErrDuplicate, userID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check existing account", slog.String("user_id", userID))
		return nil, err
	}

	now := s.Now()
	var lastErr error
	// Retry only to get past a colliding random account number.
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		number, err := s.numberGenerator()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate account number")
			return nil, err
		}
		account := domain.Account{
			AccountID:     uuid.NewString(),
			UserID:        userID,
			AccountNumber: number,
			Balance:       decimal.Zero,
			CurrencyCode:  s.defaultCurrency,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		lastErr = s.accountRepo.SaveAccount(ctx, account)
		if lastErr == nil {
			s.LogInfo(ctx, "Account created successfully",
				slog.String("account_id", account.AccountID),
				slog.String("user_id", userID))
			return &account, nil
		}
		if !errors.Is(lastErr, apperrors.ErrDuplicate) {
			s.LogError(ctx, lastErr, "Failed to save account", slog.String("user_id", userID))
			return nil, lastErr
		}
		if _, err := s.accountRepo.FindAccountByUserID(ctx, userID); err == nil {
			// Lost a race with a concurrent create for the same user.
			return nil, lastErr
		}
	}
	s.LogError(ctx, lastErr, "Exhausted account number attempts", slog.String("user_id", userID))
	return nil, lastErr
}

func (s *accountService) DeleteAccount(ctx context.Context, userID string) error {
	account, err := s.FindByOwner(ctx, userID)
	if err != nil {
		return err
	}
	err = s.accountRepo.DeleteAccount(ctx, account.AccountID, func(locked domain.Account) error {
		if !locked.Balance.IsZero() {
			return fmt.Errorf("%w: account balance must be zero before deletion, is %s", apperrors.ErrValidation, locked.Balance.String())
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", account.AccountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", account.AccountID))
	return nil
}

func (s *accountService) FindByOwner(ctx context.Context, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by owner", slog.String("user_id", userID))
		}
		return nil, err
	}
	return account, nil
}

// FindByAccountNumber treats malformed numbers as unknown ones.
func (s *accountService) FindByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	if !domain.IsValidAccountNumber(accountNumber) {
		return nil, fmt.Errorf("%w: malformed account number", apperrors.ErrNotFound)
	}
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by number")
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) FindByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}
	return s.accountRepo.ApplyBalanceChange(ctx, accountID, func(acc *domain.Account) error {
		return acc.Credit(amount)
	})
}

func (s *accountService) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("debit: %w", err)
	}
	return s.accountRepo.ApplyBalanceChange(ctx, accountID, func(acc *domain.Account) error {
		return acc.Debit(amount)
	})
}

// TransferTo checks the sender can cover amount, credits the receiver and then debits
// the sender while both rows are locked. Either both balances change or neither does.
func (s *accountService) TransferTo(ctx context.Context, senderID string, amount decimal.Decimal, receiverID string) (*domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("transfer to the same account: %w", apperrors.ErrValidation)
	}
	sender, _, err := s.accountRepo.ApplyTransfer(ctx, senderID, receiverID, func(sender, receiver *domain.Account) error {
		if err := sender.CanDebit(amount); err != nil {
			return err
		}
		if err := receiver.Credit(amount); err != nil {
			return err
		}
		return sender.Debit(amount)
	})
	if err != nil {
		return nil, err
	}
	return sender, nil
}
