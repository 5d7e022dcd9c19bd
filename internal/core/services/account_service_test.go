package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/core/services"
	"github.com/SscSPs/wallet_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sequentialNumbers hands out predictable account numbers.
func sequentialNumbers() func() (string, error) {
	var mu sync.Mutex
	next := 1000000000
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		next++
		return fmt.Sprintf("%d", next), nil
	}
}

type AccountServiceTestSuite struct {
	suite.Suite
	repo    *memory.AccountRepository
	service portssvc.AccountSvcFacade
	ctx     context.Context
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.repo = memory.NewAccountRepository()
	s.service = services.NewAccountService(s.repo,
		services.WithDefaultCurrency("NGN"),
		services.WithAccountNumberGenerator(sequentialNumbers()),
		services.WithAccountClock(func() time.Time { return fixedNow }),
	)
	s.ctx = context.Background()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) fund(userID, amount string) *domain.Account {
	acc, err := s.service.CreateAccount(s.ctx, userID)
	s.Require().NoError(err)
	if amount != "0" {
		acc, err = s.service.Credit(s.ctx, acc.AccountID, dec(amount))
		s.Require().NoError(err)
	}
	return acc
}

func (s *AccountServiceTestSuite) balanceOf(accountID string) decimal.Decimal {
	acc, err := s.service.FindByID(s.ctx, accountID)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *AccountServiceTestSuite) TestCreateAccount() {
	acc, err := s.service.CreateAccount(s.ctx, "user-1")
	s.Require().NoError(err)

	s.Equal("user-1", acc.UserID)
	s.True(acc.Balance.IsZero())
	s.Equal("NGN", acc.CurrencyCode)
	s.True(domain.IsValidAccountNumber(acc.AccountNumber))
	s.Equal(fixedNow, acc.CreatedAt)

	found, err := s.service.FindByOwner(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(acc.AccountID, found.AccountID)

	byNumber, err := s.service.FindByAccountNumber(s.ctx, acc.AccountNumber)
	s.Require().NoError(err)
	s.Equal(acc.AccountID, byNumber.AccountID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_SecondForSameUser() {
	_, err := s.service.CreateAccount(s.ctx, "user-1")
	s.Require().NoError(err)

	_, err = s.service.CreateAccount(s.ctx, "user-1")
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *AccountServiceTestSuite) TestCreateAccount_RetriesCollidingNumber() {
	numbers := []string{"1111111111", "1111111111", "2222222222"}
	i := 0
	svc := services.NewAccountService(s.repo, services.WithAccountNumberGenerator(func() (string, error) {
		n := numbers[i]
		i++
		return n, nil
	}))

	first, err := svc.CreateAccount(s.ctx, "user-a")
	s.Require().NoError(err)
	second, err := svc.CreateAccount(s.ctx, "user-b")
	s.Require().NoError(err)

	s.Equal("1111111111", first.AccountNumber)
	s.Equal("2222222222", second.AccountNumber)
}

func (s *AccountServiceTestSuite) TestFinders_NotFound() {
	_, err := s.service.FindByOwner(s.ctx, "nobody")
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.service.FindByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.service.FindByAccountNumber(s.ctx, "9999999999")
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.service.FindByAccountNumber(s.ctx, "not-a-number")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestCreditThenDebitRestoresBalance() {
	acc := s.fund("user-1", "250.50")

	for _, amount := range []string{"0.01", "1", "99.99", "1000"} {
		_, err := s.service.Credit(s.ctx, acc.AccountID, dec(amount))
		s.Require().NoError(err)
		_, err = s.service.Debit(s.ctx, acc.AccountID, dec(amount))
		s.Require().NoError(err)
		s.True(dec("250.50").Equal(s.balanceOf(acc.AccountID)), "amount %s", amount)
	}
}

func (s *AccountServiceTestSuite) TestDebit_InsufficientBalance() {
	acc := s.fund("user-1", "100")

	_, err := s.service.Debit(s.ctx, acc.AccountID, dec("100.01"))
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.True(dec("100").Equal(s.balanceOf(acc.AccountID)))
}

func (s *AccountServiceTestSuite) TestNonPositiveAmounts() {
	acc := s.fund("user-1", "100")
	other := s.fund("user-2", "0")

	for _, amount := range []string{"0", "-5"} {
		_, err := s.service.Credit(s.ctx, acc.AccountID, dec(amount))
		s.ErrorIs(err, apperrors.ErrInvalidAmount)
		_, err = s.service.Debit(s.ctx, acc.AccountID, dec(amount))
		s.ErrorIs(err, apperrors.ErrInvalidAmount)
		_, err = s.service.TransferTo(s.ctx, acc.AccountID, dec(amount), other.AccountID)
		s.ErrorIs(err, apperrors.ErrInvalidAmount)
	}
	s.True(dec("100").Equal(s.balanceOf(acc.AccountID)))
	s.True(s.balanceOf(other.AccountID).IsZero())
}

func (s *AccountServiceTestSuite) TestTransferTo_ConservesSum() {
	a := s.fund("user-a", "2000")
	b := s.fund("user-b", "0")

	sender, err := s.service.TransferTo(s.ctx, a.AccountID, dec("500"), b.AccountID)
	s.Require().NoError(err)
	s.True(dec("1500").Equal(sender.Balance))

	s.True(dec("1500").Equal(s.balanceOf(a.AccountID)))
	s.True(dec("500").Equal(s.balanceOf(b.AccountID)))
	s.True(dec("2000").Equal(s.balanceOf(a.AccountID).Add(s.balanceOf(b.AccountID))))
}

func (s *AccountServiceTestSuite) TestTransferTo_Failures() {
	a := s.fund("user-a", "100")
	b := s.fund("user-b", "10")

	_, err := s.service.TransferTo(s.ctx, a.AccountID, dec("100.01"), b.AccountID)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)

	_, err = s.service.TransferTo(s.ctx, a.AccountID, dec("1"), "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.service.TransferTo(s.ctx, a.AccountID, dec("1"), a.AccountID)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.True(dec("100").Equal(s.balanceOf(a.AccountID)))
	s.True(dec("10").Equal(s.balanceOf(b.AccountID)))
}

func (s *AccountServiceTestSuite) TestDeleteAccount() {
	acc := s.fund("user-1", "5")

	err := s.service.DeleteAccount(s.ctx, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.service.Debit(s.ctx, acc.AccountID, dec("5"))
	s.Require().NoError(err)
	s.Require().NoError(s.service.DeleteAccount(s.ctx, "user-1"))

	_, err = s.service.FindByOwner(s.ctx, "user-1")
	s.ErrorIs(err, apperrors.ErrNotFound)

	err = s.service.DeleteAccount(s.ctx, "user-1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountService_ConcurrentTransfersKeepBalancesNonNegative(t *testing.T) {
	ctx := context.Background()
	svc := services.NewAccountService(memory.NewAccountRepository(), services.WithAccountNumberGenerator(sequentialNumbers()))

	a, err := svc.CreateAccount(ctx, "user-a")
	require.NoError(t, err)
	b, err := svc.CreateAccount(ctx, "user-b")
	require.NoError(t, err)
	_, err = svc.Credit(ctx, a.AccountID, dec("100"))
	require.NoError(t, err)
	_, err = svc.Credit(ctx, b.AccountID, dec("100"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.TransferTo(ctx, a.AccountID, dec("7"), b.AccountID)
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.TransferTo(ctx, b.AccountID, dec("3"), a.AccountID)
		}()
	}
	wg.Wait()

	finalA, err := svc.FindByID(ctx, a.AccountID)
	require.NoError(t, err)
	finalB, err := svc.FindByID(ctx, b.AccountID)
	require.NoError(t, err)

	assert.False(t, finalA.Balance.IsNegative())
	assert.False(t, finalB.Balance.IsNegative())
	assert.True(t, dec("200").Equal(finalA.Balance.Add(finalB.Balance)))
}
