package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/dto"
	"github.com/SscSPs/wallet_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo   portsrepo.UserRepositoryFacade
	reputation portssvc.ReputationChecker
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*userService)

// WithReputationChecker makes registration consult checker first.
func WithReputationChecker(checker portssvc.ReputationChecker) UserServiceOption {
	return func(s *userService) {
		s.reputation = checker
	}
}

// NewUserService creates a new user service with the provided options
func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...UserServiceOption) portssvc.UserSvcFacade {
	svc := &userService{userRepo: userRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user by email")
		return nil, err
	}

	if s.reputation != nil {
		if err := s.reputation.Check(ctx, email); err != nil {
			if errors.Is(err, apperrors.ErrReputationCheckFailed) {
				s.LogInfo(ctx, "Registration refused by reputation check")
			} else {
				s.LogError(ctx, err, "Reputation check could not be completed")
			}
			return nil, err
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user")
		}
		return nil, err
	}
	s.LogInfo(ctx, "User registered", slog.String("user_id", userID))
	return &user, nil
}

// CreateOAuthUser returns the user already linked to the provider identity, or the local
// user with the same verified email, or a new user.
func (s *userService) CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByProviderDetails(ctx, provider, providerUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find user by provider details", slog.String("provider", string(provider)))
		return nil, err
	}

	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: provider did not supply an email", apperrors.ErrValidation)
	}
	byEmail, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		if !emailVerified {
			return nil, fmt.Errorf("%w: email is registered and not verified by provider", apperrors.ErrDuplicate)
		}
		return byEmail, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up user by email")
		return nil, err
	}

	now := s.Now()
	userID := uuid.NewString()
	if strings.TrimSpace(name) == "" {
		name = email
	}
	user := domain.User{
		UserID:         userID,
		Name:           strings.TrimSpace(name),
		Email:          email,
		AuthProvider:   provider,
		ProviderUserID: providerUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save oauth user")
		}
		return nil, err
	}
	s.LogInfo(ctx, "OAuth user created", slog.String("user_id", userID), slog.String("provider", string(provider)))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return user, nil
}
