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
)

// creditRetries bounds the internal retry of the credit step. This is the
// only retried condition in the engine; all other errors reflect caller or
// state conditions that retrying will not fix.
const creditRetries = 1

// transferCoordinator sequences the two-account mutation of a transfer as a
// single logical unit. Both account locks are held for the whole protocol,
// acquired in ascending accountID order, so no other reader or writer of
// either account can observe a lone debit.
type transferCoordinator struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
	locks       *accountLocks
	lockTimeout time.Duration
}

func newTransferCoordinator(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository, locks *accountLocks, lockTimeout time.Duration) *transferCoordinator {
	return &transferCoordinator{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		locks:       locks,
		lockTimeout: lockTimeout,
	}
}

// Execute runs the transfer protocol: acquire both locks in fixed order,
// re-validate under the locks, debit the sender, credit the receiver. If
// the credit cannot commit after its bounded retry, the debit is rolled
// back and both entries are recorded FAILED — the sender is never left
// short. Callers must have validated amount > 0 and sender != receiver.
func (c *transferCoordinator) Execute(ctx context.Context, senderID, receiverID string, amount int64, description string) (*portssvc.TransferResult, error) {
	release, err := c.locks.AcquireOrdered(ctx, c.lockTimeout, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	defer release()

	sender, err := c.loadAccount(ctx, senderID, "sender")
	if err != nil {
		return nil, err
	}
	receiver, err := c.loadAccount(ctx, receiverID, "receiver")
	if err != nil {
		return nil, err
	}
	if !sender.IsActive {
		return nil, fmt.Errorf("%w: sender account %s", apperrors.ErrAccountInactive, senderID)
	}
	if !receiver.IsActive {
		return nil, fmt.Errorf("%w: receiver account %s", apperrors.ErrAccountInactive, receiverID)
	}

	// Balance may have changed between the engine's pre-checks and lock
	// acquisition; validate again under the locks.
	if amount > sender.Balance {
		return nil, fmt.Errorf("%w: balance %d, requested %d", apperrors.ErrInsufficientFunds, sender.Balance, amount)
	}

	transferID := uuid.NewString()
	now := time.Now().UTC()
	outEntry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		AccountID:     senderID,
		Kind:          domain.KindTransferOut,
		Amount:        amount,
		CounterpartID: receiverID,
		TransferID:    transferID,
		Status:        domain.StatusCompleted,
		Description:   description,
		Category:      DefaultCategory,
		CreatedAt:     now,
	}
	inEntry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		AccountID:     receiverID,
		Kind:          domain.KindTransferIn,
		Amount:        amount,
		CounterpartID: senderID,
		TransferID:    transferID,
		Status:        domain.StatusCompleted,
		Description:   description,
		Category:      DefaultCategory,
		CreatedAt:     now,
	}

	senderBalance, err := c.ledgerRepo.ApplyMovement(ctx, senderID, -amount, outEntry)
	if err != nil {
		c.LogError(ctx, err, "Transfer debit failed", slog.String("transfer_id", transferID))
		return nil, asPersistenceError(err)
	}

	receiverBalance, creditErr := c.creditWithRetry(ctx, receiverID, amount, inEntry)
	if creditErr != nil {
		c.rollbackDebit(ctx, transferID, senderID, amount, outEntry, inEntry)
		return nil, fmt.Errorf("transfer %s failed crediting receiver: %w", transferID, asPersistenceError(creditErr))
	}

	return &portssvc.TransferResult{
		SenderBalance:   senderBalance,
		ReceiverBalance: receiverBalance,
		Entries:         [2]domain.LedgerEntry{outEntry, inEntry},
	}, nil
}

// creditWithRetry applies the credit leg, retrying once on persistence
// failure before giving up.
func (c *transferCoordinator) creditWithRetry(ctx context.Context, receiverID string, amount int64, inEntry domain.LedgerEntry) (int64, error) {
	var lastErr error
	for attempt := 0; attempt <= creditRetries; attempt++ {
		balance, err := c.ledgerRepo.ApplyMovement(ctx, receiverID, amount, inEntry)
		if err == nil {
			return balance, nil
		}
		lastErr = err
		c.LogWarn(ctx, "Transfer credit attempt failed",
			slog.String("receiver_id", receiverID),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
	}
	return 0, lastErr
}

// rollbackDebit undoes a committed debit after the credit could not commit,
// and records both legs as FAILED so the attempt stays auditable.
func (c *transferCoordinator) rollbackDebit(ctx context.Context, transferID, senderID string, amount int64, outEntry, inEntry domain.LedgerEntry) {
	now := time.Now().UTC()
	if _, err := c.ledgerRepo.RevertMovement(ctx, senderID, amount, outEntry.EntryID, now); err != nil {
		// A failed revert leaves the sender short: surface loudly, operators
		// must reconcile from the TRANSFER_OUT entry.
		c.LogError(ctx, err, "Transfer rollback failed, sender debited without credit",
			slog.String("transfer_id", transferID),
			slog.String("entry_id", outEntry.EntryID))
	}

	inEntry.Status = domain.StatusFailed
	if err := c.ledgerRepo.RecordEntry(ctx, inEntry); err != nil {
		c.LogError(ctx, err, "Failed to record failed credit leg",
			slog.String("transfer_id", transferID),
			slog.String("entry_id", inEntry.EntryID))
	}
}

func (c *transferCoordinator) loadAccount(ctx context.Context, accountID, side string) (*domain.Account, error) {
	account, err := c.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s account %s", apperrors.ErrNotFound, side, accountID)
		}
		return nil, asPersistenceError(err)
	}
	return account, nil
}
