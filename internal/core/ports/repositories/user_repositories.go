package repositories

import (
	"context"

	"github.com/SscSPs/wallet_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a user linked to an external identity provider.
	FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. A reused email fails with apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
