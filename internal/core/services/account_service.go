package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finvault/ebank/internal/core/domain"
	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
)

// DefaultCurrencyCode is assigned to accounts created at registration.
const DefaultCurrencyCode = "USD"

// accountService manages account lifecycle. Mutating operations go through
// the same lock registry as the funds engine so deactivation cannot race a
// movement on the same account.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	locks       *accountLocks
	lockTimeout time.Duration
}

// NewAccountService creates the account lifecycle service.
func NewAccountService(accountRepo portsrepo.AccountRepository, locks *accountLocks, lockTimeout time.Duration) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, locks: locks, lockTimeout: lockTimeout}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a fresh zero-balance active account for ownerID.
func (s *accountService) CreateAccount(ctx context.Context, ownerID, currencyCode string) (*domain.Account, error) {
	if currencyCode == "" {
		currencyCode = DefaultCurrencyCode
	}
	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      ownerID,
		Balance:      0,
		CurrencyCode: currencyCode,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("owner_id", ownerID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountForOwner(ctx context.Context, ownerID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for owner %s: %w", ownerID, err)
	}
	return account, nil
}

// DeactivateAccount flips the account's IsActive gate. The account lock is
// held so an in-flight movement either completes before the flag flips or
// observes the inactive account and rejects.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string) error {
	release, err := s.locks.Acquire(ctx, accountID, s.lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
