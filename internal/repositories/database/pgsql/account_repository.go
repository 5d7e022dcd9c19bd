package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/wallet_app/internal/models"
	"github.com/SscSPs/wallet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, user_id, account_number, balance, currency_code, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.AccountNumber,
		&m.Balance,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.AccountNumber,
		m.Balance,
		m.CurrencyCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account for user %s or number %s already exists", apperrors.ErrDuplicate, m.UserID, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return acc, err
}

// FindAccountByUserID retrieves the earliest created account of a user.
func (r *PgxAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at, account_id LIMIT 1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, userID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find account for user %s: %w", userID, err)
	}
	return acc, err
}

// FindAccountByNumber retrieves an account by its public number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find account by number: %w", err)
	}
	return acc, err
}

// DeleteAccount locks the row, lets guard inspect it and deletes it.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string, guard func(domain.Account) error) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		locked, err := lockAccounts(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if err := guard(*locked[accountID]); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID); err != nil {
			return fmt.Errorf("failed to delete account %s: %w", accountID, err)
		}
		return nil
	})
}

// ApplyBalanceChange locks one account row, applies mutate and writes the new balance.
func (r *PgxAccountRepository) ApplyBalanceChange(ctx context.Context, accountID string, mutate func(*domain.Account) error) (*domain.Account, error) {
	var result *domain.Account
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		locked, err := lockAccounts(ctx, tx, accountID)
		if err != nil {
			return err
		}
		acc := locked[accountID]
		if err := mutate(acc); err != nil {
			return err
		}
		if err := updateBalance(ctx, tx, acc); err != nil {
			return err
		}
		result = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyTransfer locks both rows in account_id order and writes both balances in one transaction.
func (r *PgxAccountRepository) ApplyTransfer(ctx context.Context, senderID, receiverID string, mutate func(sender, receiver *domain.Account) error) (*domain.Account, *domain.Account, error) {
	if senderID == receiverID {
		return nil, nil, fmt.Errorf("transfer to the same account: %w", apperrors.ErrValidation)
	}
	var sender, receiver *domain.Account
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		locked, err := lockAccounts(ctx, tx, senderID, receiverID)
		if err != nil {
			return err
		}
		s, rc := locked[senderID], locked[receiverID]
		if err := mutate(s, rc); err != nil {
			return err
		}
		if err := updateBalance(ctx, tx, rc); err != nil {
			return err
		}
		if err := updateBalance(ctx, tx, s); err != nil {
			return err
		}
		sender, receiver = s, rc
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return sender, receiver, nil
}

// lockAccounts selects the given rows FOR UPDATE in ascending account_id order
// so concurrent transfers between the same pair cannot deadlock.
func lockAccounts(ctx context.Context, tx pgx.Tx, accountIDs ...string) (map[string]*domain.Account, error) {
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]*domain.Account, len(ids))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		locked[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return locked, nil
}

func updateBalance(ctx context.Context, tx pgx.Tx, acc *domain.Account) error {
	now := time.Now().UTC()
	ct, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $2, last_updated_at = $3 WHERE account_id = $1;`,
		acc.AccountID, acc.Balance, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", acc.AccountID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, acc.AccountID)
	}
	acc.LastUpdatedAt = now
	return nil
}
