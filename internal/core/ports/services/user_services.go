package services

import (
	"context"

	"github.com/SscSPs/wallet_app/internal/core/domain"
	"github.com/SscSPs/wallet_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser registers a local user after the reputation check passes.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// CreateOAuthUser finds or creates a user signing in through an external provider.
	CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	// Unknown email and wrong password both yield apperrors.ErrUnauthorized.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
