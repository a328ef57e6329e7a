package repositories

import (
	"context"
	"time"

	"github.com/finvault/ebank/internal/core/domain"
)

// AccountRepository defines the persistence operations for accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByOwnerID(ctx context.Context, ownerID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, now time.Time) error
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
}

// LedgerRepository defines the persistence operations for ledger entries
// and the balance mutations they belong to. The contract with the
// funds-movement engine: a completed movement's balance change and its
// entry are committed together, or not at all.
type LedgerRepository interface {
	// ApplyMovement atomically applies delta (signed minor units) to the
	// account balance and appends the entry. It returns the new balance.
	// A delta that would drive the balance negative fails with
	// apperrors.ErrInsufficientFunds and commits nothing.
	ApplyMovement(ctx context.Context, accountID string, delta int64, entry domain.LedgerEntry) (int64, error)

	// RevertMovement undoes a previously applied movement: it applies the
	// compensating delta to the balance and flips the entry's status to
	// FAILED, atomically. Used by the transfer rollback path.
	RevertMovement(ctx context.Context, accountID string, delta int64, entryID string, now time.Time) (int64, error)

	// RecordEntry appends an entry without touching any balance. Used to
	// record the FAILED leg of a rolled-back transfer.
	RecordEntry(ctx context.Context, entry domain.LedgerEntry) error

	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListRecent returns up to limit COMPLETED entries for the account,
	// newest first (created_at desc, entry_id desc as tiebreak).
	ListRecent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error)

	// ListByDateRange returns COMPLETED entries with start <= created_at <= end,
	// newest first.
	ListByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerEntry, error)

	// SumByKind returns the sum of Amount over COMPLETED entries of the kind.
	SumByKind(ctx context.Context, accountID string, kind domain.EntryKind) (int64, error)

	// ListAll returns entries across all accounts, newest first. Admin use.
	ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error)
}

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// RepositoryProvider bundles repository implementations for injection into
// the service container. Both the pgsql and the memory packages provide one.
type RepositoryProvider struct {
	AccountRepo AccountRepository
	LedgerRepo  LedgerRepository
	UserRepo    UserRepository
}
