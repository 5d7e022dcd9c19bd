package services

import (
	portsrepo "github.com/SscSPs/wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/wallet_app/internal/core/ports/services"
	"github.com/SscSPs/wallet_app/internal/platform/config"
)

// ContainerOption supplies optional collaborators to NewServiceContainer.
type ContainerOption func(*containerDeps)

type containerDeps struct {
	reputation portssvc.ReputationChecker
	publisher  portssvc.EventPublisher
}

// WithReputation wires the registration reputation check.
func WithReputation(checker portssvc.ReputationChecker) ContainerOption {
	return func(d *containerDeps) {
		d.reputation = checker
	}
}

// WithPublisher wires the ledger event publisher.
func WithPublisher(publisher portssvc.EventPublisher) ContainerOption {
	return func(d *containerDeps) {
		d.publisher = publisher
	}
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithDefaultCurrency(cfg.DefaultCurrency),
	)

	txnOpts := []TransactionServiceOption{}
	if deps.publisher != nil {
		txnOpts = append(txnOpts, WithEventPublisher(deps.publisher))
	}
	container.Transaction = NewTransactionService(repos.TransactionRepo, container.Account, txnOpts...)

	userOpts := []UserServiceOption{}
	if deps.reputation != nil {
		userOpts = append(userOpts, WithReputationChecker(deps.reputation))
	}
	container.User = NewUserService(repos.UserRepo, userOpts...)

	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
