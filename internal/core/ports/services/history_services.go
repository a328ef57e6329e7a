package services

import (
	"context"
	"time"

	"github.com/finvault/ebank/internal/core/domain"
)

// HistorySvcFacade provides read-only projections over an account's ledger
// history. It never mutates account state.
type HistorySvcFacade interface {
	// Recent returns the limit most recent COMPLETED entries, newest first,
	// ties on createdAt broken by entryID descending.
	Recent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error)

	// ByDateRange returns COMPLETED entries with createdAt in [start, end].
	ByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerEntry, error)

	// Aggregate returns the sum in minor units of COMPLETED entries of the
	// given kind, for dashboard totals.
	Aggregate(ctx context.Context, accountID string, kind domain.EntryKind) (int64, error)

	// ListAll returns entries across all accounts, newest first. Admin use.
	ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error)
}
