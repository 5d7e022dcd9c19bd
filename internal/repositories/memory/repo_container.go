package memory

import (
	"context"

	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
)

type alwaysHealthy struct{}

func (alwaysHealthy) Ping(context.Context) error { return nil }

// NewRepositoryProvider wires fresh in-memory repositories.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     NewAccountRepository(),
		TransactionRepo: NewTransactionRepository(),
		UserRepo:        NewUserRepository(),
		Health:          alwaysHealthy{},
	}
}
