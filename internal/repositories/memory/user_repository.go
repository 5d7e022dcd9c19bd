package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/wallet_app/internal/apperrors"
	"github.com/SscSPs/wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
)

type UserRepository struct {
	insertMu sync.Mutex
	users    *Table[domain.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: NewTable[domain.User]()}
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	r.insertMu.Lock()
	defer r.insertMu.Unlock()

	user.Email = strings.ToLower(user.Email)
	if _, err := r.FindUserByEmail(ctx, user.Email); err == nil {
		return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, user.Email)
	}
	if !r.users.Insert(user.UserID, user) {
		return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.UserID)
	}
	return nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	u, ok := r.users.Get(userID)
	if !ok || u.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	return r.findFirst(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findFirst(func(u domain.User) bool {
		return u.AuthProvider == provider && u.ProviderUserID == providerUserID
	})
}

func (r *UserRepository) findFirst(match func(domain.User) bool) (*domain.User, error) {
	var found *domain.User
	r.users.Scan(func(_ string, u domain.User) bool {
		if u.DeletedAt == nil && match(u) {
			found = &u
			return false
		}
		return true
	})
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}
