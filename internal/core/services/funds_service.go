package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/core/domain"
	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
	"github.com/finvault/ebank/internal/events"
)

// DefaultCategory is assigned to entries created without an explicit category.
const DefaultCategory = "General"

// fundsService is the funds-movement engine. It validates deposit, withdraw,
// and transfer requests, serializes mutations per account through the lock
// registry, and delegates the atomic balance+entry commit to the ledger
// repository. Two-account mutations go through the transfer coordinator.
type fundsService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	locks       *accountLocks
	lockTimeout time.Duration
	coordinator *transferCoordinator
	publisher   events.Publisher // nil when events are disabled
}

// NewFundsService creates the funds-movement engine. publisher may be nil.
func NewFundsService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, locks *accountLocks, lockTimeout time.Duration, publisher events.Publisher) portssvc.FundsSvcFacade {
	return &fundsService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		locks:       locks,
		lockTimeout: lockTimeout,
		coordinator: newTransferCoordinator(accountRepo, ledgerRepo, locks, lockTimeout),
		publisher:   publisher,
	}
}

var _ portssvc.FundsSvcFacade = (*fundsService)(nil)

// Deposit increases the account balance by amount and appends a COMPLETED
// DEPOSIT entry, atomically.
func (s *fundsService) Deposit(ctx context.Context, accountID string, amount int64, description, category string) (*portssvc.MovementResult, error) {
	result, err := s.applySingle(ctx, accountID, domain.KindDeposit, amount, description, category)
	if err != nil {
		return nil, err
	}
	s.publishMovement(ctx, result.Entry, result.NewBalance)
	return result, nil
}

// Withdraw decreases the account balance by amount and appends a COMPLETED
// WITHDRAW entry, atomically. Fails with ErrInsufficientFunds if amount
// exceeds the balance.
func (s *fundsService) Withdraw(ctx context.Context, accountID string, amount int64, description, category string) (*portssvc.MovementResult, error) {
	result, err := s.applySingle(ctx, accountID, domain.KindWithdraw, amount, description, category)
	if err != nil {
		return nil, err
	}
	s.publishMovement(ctx, result.Entry, result.NewBalance)
	return result, nil
}

// Transfer moves amount from sender to receiver as a single logical unit.
// The dual mutation is sequenced by the transfer coordinator.
func (s *fundsService) Transfer(ctx context.Context, senderID, receiverID string, amount int64, description string) (*portssvc.TransferResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrInvalidAmount)
	}
	if senderID == receiverID {
		return nil, apperrors.ErrSameAccount
	}

	result, err := s.coordinator.Execute(ctx, senderID, receiverID, amount, description)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("sender_id", senderID),
		slog.String("receiver_id", receiverID),
		slog.Int64("amount", amount))
	s.publishMovement(ctx, result.Entries[0], result.SenderBalance)
	s.publishMovement(ctx, result.Entries[1], result.ReceiverBalance)
	return result, nil
}

// applySingle performs a one-account movement: lock, re-validate under the
// lock, then one atomic repository commit. The critical section holds
// exactly that commit and nothing else.
func (s *fundsService) applySingle(ctx context.Context, accountID string, kind domain.EntryKind, amount int64, description, category string) (*portssvc.MovementResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}

	release, err := s.locks.Acquire(ctx, accountID, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	account, err := s.loadActiveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	delta := amount
	if kind == domain.KindWithdraw {
		if amount > account.Balance {
			return nil, fmt.Errorf("%w: balance %d, requested %d", apperrors.ErrInsufficientFunds, account.Balance, amount)
		}
		delta = -amount
	}

	entry := newEntry(accountID, kind, amount, description, category)
	newBalance, err := s.ledgerRepo.ApplyMovement(ctx, accountID, delta, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to commit movement",
			slog.String("account_id", accountID),
			slog.String("kind", string(kind)))
		return nil, asPersistenceError(err)
	}

	s.LogInfo(ctx, "Movement applied",
		slog.String("account_id", accountID),
		slog.String("kind", string(kind)),
		slog.Int64("amount", amount),
		slog.Int64("new_balance", newBalance))
	return &portssvc.MovementResult{NewBalance: newBalance, Entry: entry}, nil
}

func (s *fundsService) loadActiveAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, asPersistenceError(err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountInactive, accountID)
	}
	return account, nil
}

// publishMovement emits a movement-completed event outside the critical
// section. Best-effort: failures are logged, never surfaced.
func (s *fundsService) publishMovement(ctx context.Context, entry domain.LedgerEntry, newBalance int64) {
	if s.publisher == nil {
		return
	}
	event := events.MovementCompleted{
		EntryID:       entry.EntryID,
		AccountID:     entry.AccountID,
		Kind:          string(entry.Kind),
		Amount:        entry.Amount,
		CounterpartID: entry.CounterpartID,
		TransferID:    entry.TransferID,
		NewBalance:    newBalance,
		OccurredAt:    entry.CreatedAt,
	}
	if err := s.publisher.Publish(entry.AccountID, event); err != nil {
		s.LogWarn(ctx, "Failed to publish movement event",
			slog.String("entry_id", entry.EntryID),
			slog.String("error", err.Error()))
	}
}

// newEntry builds a COMPLETED single-account entry.
func newEntry(accountID string, kind domain.EntryKind, amount int64, description, category string) domain.LedgerEntry {
	if category == "" {
		category = DefaultCategory
	}
	return domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount,
		Status:      domain.StatusCompleted,
		Description: description,
		Category:    category,
		CreatedAt:   time.Now().UTC(),
	}
}

// asPersistenceError classifies repository failures: domain sentinels pass
// through untouched, everything else is a persistence failure.
func asPersistenceError(err error) error {
	for _, sentinel := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrInsufficientFunds,
		apperrors.ErrAccountInactive,
		apperrors.ErrPersistence,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrPersistence, err)
}
