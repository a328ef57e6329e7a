package services

import (
	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/events"
	"github.com/finvault/ebank/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. A single lock registry is shared by the funds
// engine and the account service so every mutation path serializes on the
// same per-account locks.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	locks := newAccountLocks()

	accountSvc := NewAccountService(repos.AccountRepo, locks, cfg.LockTimeout)
	container := &portssvc.ServiceContainer{
		Account: accountSvc,
		User:    NewUserService(repos.UserRepo, accountSvc),
		Funds:   NewFundsService(repos.AccountRepo, repos.LedgerRepo, locks, cfg.LockTimeout, publisher),
		History: NewHistoryService(repos.AccountRepo, repos.LedgerRepo),
	}
	return container
}
