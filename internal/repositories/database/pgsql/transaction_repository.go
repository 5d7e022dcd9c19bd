package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/wallet_app/internal/models"
	"github.com/SscSPs/wallet_app/internal/utils/mapping"
	"github.com/SscSPs/wallet_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `seq, transaction_id, account_id, amount, type, status, receiver_account_id, created_at, last_updated_at`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.Seq,
		&m.TransactionID,
		&m.AccountID,
		&m.Amount,
		&m.Type,
		&m.Status,
		&m.ReceiverAccountID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveTransaction inserts a ledger entry; seq is assigned by the BIGSERIAL default.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, account_id, amount, type, status, receiver_account_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.Amount,
		m.Type,
		m.Status,
		m.ReceiverAccountID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransactionStatus only touches rows still PENDING.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, updatedAt time.Time) error {
	if !status.IsTerminal() {
		return fmt.Errorf("%w: target status %s", apperrors.ErrInvalidStatusTransition, status)
	}
	ct, err := r.Pool.Exec(ctx,
		`UPDATE transactions SET status = $2, last_updated_at = $3 WHERE transaction_id = $1 AND status = $4;`,
		transactionID, string(status), updatedAt, string(domain.StatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	existing, err := r.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStatusTransition, existing.Status, status)
}

// FindTransactionByID retrieves a ledger entry by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByAccountID lists entries by insertion order using a seq cursor.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	afterSeq := int64(0)
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		}
		afterSeq = seq
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 AND seq > $2 ORDER BY seq`
	args := []any{accountID, afterSeq}
	if limit > 0 {
		// One extra row tells whether another page exists.
		query += ` LIMIT $3`
		args = append(args, limit+1)
	}

	rows, err := r.Pool.Query(ctx, query+";", args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	results := make([]models.Transaction, 0)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transaction row for account "+accountID, err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating transaction rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if limit > 0 && len(results) > limit {
		results = results[:limit]
		token := pagination.EncodeSequenceToken(results[limit-1].Seq)
		nextTokenVal = &token
	}
	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}
