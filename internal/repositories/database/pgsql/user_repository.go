package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/wallet_app/internal/models"
	"github.com/SscSPs/wallet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, name, email, password_hash, auth_provider, provider_user_id, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, name, email, password_hash, auth_provider, provider_user_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Name,
		strings.ToLower(m.Email),
		m.PasswordHash,
		m.AuthProvider,
		m.ProviderUserID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, `user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `email = $1`, strings.ToLower(email))
}

func (r *PgxUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findOne(ctx, `auth_provider = $1 AND provider_user_id = $2`, string(provider), providerUserID)
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, args ...any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL;`
	var m models.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}
