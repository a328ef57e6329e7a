package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/core/domain"
	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
	portssvc "github.com/finvault/ebank/internal/core/ports/services"
)

// DefaultRecentLimit is used when a caller asks for recent history without
// a limit.
const DefaultRecentLimit = 5

// historyService provides read-only projections over an account's ledger
// entries. It takes no locks: reads are served from committed state and
// never mutate anything.
type historyService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	ledgerRepo  portsrepo.LedgerRepository
}

// NewHistoryService creates the history query service.
func NewHistoryService(accountRepo portsrepo.AccountRepository, ledgerRepo portsrepo.LedgerRepository) portssvc.HistorySvcFacade {
	return &historyService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.HistorySvcFacade = (*historyService)(nil)

func (s *historyService) Recent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	if err := s.ensureAccountExists(ctx, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	entries, err := s.ledgerRepo.ListRecent(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent entries for account %s: %w", accountID, err)
	}
	return entries, nil
}

func (s *historyService) ByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerEntry, error) {
	if err := s.ensureAccountExists(ctx, accountID); err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListByDateRange(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by date range for account %s: %w", accountID, err)
	}
	return entries, nil
}

func (s *historyService) Aggregate(ctx context.Context, accountID string, kind domain.EntryKind) (int64, error) {
	if err := s.ensureAccountExists(ctx, accountID); err != nil {
		return 0, err
	}
	total, err := s.ledgerRepo.SumByKind(ctx, accountID, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate %s entries for account %s: %w", kind, accountID, err)
	}
	return total, nil
}

func (s *historyService) ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.ledgerRepo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

func (s *historyService) ensureAccountExists(ctx context.Context, accountID string) error {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return fmt.Errorf("failed to look up account %s: %w", accountID, err)
	}
	return nil
}
