package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction. Rolling back a finished transaction is a no-op.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// InTx runs fn inside a transaction, committing when fn succeeds.
func (r *BaseRepository) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// Ping checks connectivity for the health endpoint.
func (r *BaseRepository) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
