package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/core/services"
	"github.com/SscSPs/wallet_app/internal/dto"
	"github.com/SscSPs/wallet_app/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
	SaveUserFn        func(ctx context.Context, user domain.User) error
	FindUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if m.SaveUserFn != nil {
		return m.SaveUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindUserByEmailFn != nil {
		return m.FindUserByEmailFn(ctx, email)
	}
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

// --- Mock ReputationChecker ---
type MockReputationChecker struct {
	mock.Mock
}

func (m *MockReputationChecker) Check(ctx context.Context, identity string) error {
	return m.Called(ctx, identity).Error(0)
}

type UserServiceTestSuite struct {
	suite.Suite
	repo       *memory.UserRepository
	reputation *MockReputationChecker
	service    portssvc.UserSvcFacade
	ctx        context.Context
}

func (s *UserServiceTestSuite) SetupTest() {
	s.repo = memory.NewUserRepository()
	s.reputation = new(MockReputationChecker)
	s.service = services.NewUserService(s.repo, services.WithReputationChecker(s.reputation))
	s.ctx = context.Background()
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestCreateUser_Success() {
	s.reputation.On("Check", mock.Anything, "ada@example.com").Return(nil).Once()

	user, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{
		Name:     " Ada ",
		Email:    "Ada@Example.com",
		Password: "secret123",
	})
	s.Require().NoError(err)
	s.Equal("Ada", user.Name)
	s.Equal("ada@example.com", user.Email)
	s.Equal(domain.ProviderLocal, user.AuthProvider)
	s.NotEqual("secret123", user.PasswordHash)
	s.reputation.AssertExpectations(s.T())

	found, err := s.service.GetUserByID(s.ctx, user.UserID)
	s.Require().NoError(err)
	s.Equal(user.Email, found.Email)
}

func (s *UserServiceTestSuite) TestCreateUser_Blacklisted() {
	s.reputation.On("Check", mock.Anything, "debtor@example.com").Return(apperrors.ErrReputationCheckFailed).Once()

	_, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{Name: "Debtor", Email: "debtor@example.com", Password: "secret123"})
	s.ErrorIs(err, apperrors.ErrReputationCheckFailed)

	_, err = s.repo.FindUserByEmail(s.ctx, "debtor@example.com")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *UserServiceTestSuite) TestCreateUser_DuplicateEmailSkipsReputationCheck() {
	s.reputation.On("Check", mock.Anything, "ada@example.com").Return(nil).Once()
	_, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	s.Require().NoError(err)

	_, err = s.service.CreateUser(s.ctx, dto.CreateUserRequest{Name: "Ada 2", Email: "ADA@example.com", Password: "secret123"})
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.reputation.AssertNumberOfCalls(s.T(), "Check", 1)
}

func (s *UserServiceTestSuite) TestAuthenticateUser() {
	s.reputation.On("Check", mock.Anything, mock.Anything).Return(nil)
	created, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	s.Require().NoError(err)

	user, err := s.service.AuthenticateUser(s.ctx, "ADA@example.com", "secret123")
	s.Require().NoError(err)
	s.Equal(created.UserID, user.UserID)

	_, err = s.service.AuthenticateUser(s.ctx, "ada@example.com", "wrong")
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = s.service.AuthenticateUser(s.ctx, "nobody@example.com", "secret123")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestCreateOAuthUser() {
	first, err := s.service.CreateOAuthUser(s.ctx, "Grace", "grace@example.com", domain.ProviderGoogle, "google-1", true)
	s.Require().NoError(err)
	s.Equal(domain.ProviderGoogle, first.AuthProvider)

	again, err := s.service.CreateOAuthUser(s.ctx, "Grace", "grace@example.com", domain.ProviderGoogle, "google-1", true)
	s.Require().NoError(err)
	s.Equal(first.UserID, again.UserID)

	_, err = s.service.AuthenticateUser(s.ctx, "grace@example.com", "")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.reputation.AssertNotCalled(s.T(), "Check", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestCreateOAuthUser_UnverifiedEmailCollision() {
	s.reputation.On("Check", mock.Anything, mock.Anything).Return(nil)
	_, err := s.service.CreateUser(s.ctx, dto.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	s.Require().NoError(err)

	_, err = s.service.CreateOAuthUser(s.ctx, "Ada", "ada@example.com", domain.ProviderGoogle, "google-2", false)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func TestUserService_StorageFailure(t *testing.T) {
	storageErr := errors.New("connection refused")
	repo := &MockUserRepository{
		FindUserByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, storageErr
		},
	}
	svc := services.NewUserService(repo)

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, storageErr)

	_, err = svc.AuthenticateUser(context.Background(), "ada@example.com", "secret123")
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)
	svc := services.NewUserService(repo)

	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}
