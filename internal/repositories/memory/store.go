package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/core/domain"
	portsrepo "github.com/finvault/ebank/internal/core/ports/repositories"
)

// Store is an in-memory implementation of all repository interfaces. It
// backs the test suites and the DB-less dev mode. All methods are safe for
// concurrent use; each mutation is applied under one mutex acquisition so a
// balance change and its entry commit together.
type Store struct {
	mu              sync.RWMutex
	accounts        map[string]domain.Account
	accountsByOwner map[string]string
	users           map[string]domain.User
	usersByEmail    map[string]string
	entries         []domain.LedgerEntry
	entryIndex      map[string]int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:        make(map[string]domain.Account),
		accountsByOwner: make(map[string]string),
		users:           make(map[string]domain.User),
		usersByEmail:    make(map[string]string),
		entryIndex:      make(map[string]int),
	}
}

// NewRepositoryProvider bundles a single store behind every repository port.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	store := NewStore()
	return portsrepo.RepositoryProvider{
		AccountRepo: store,
		LedgerRepo:  store,
		UserRepo:    store,
	}
}

var (
	_ portsrepo.AccountRepository = (*Store)(nil)
	_ portsrepo.LedgerRepository  = (*Store)(nil)
	_ portsrepo.UserRepository    = (*Store)(nil)
)

// --- AccountRepository ---

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, exists := s.accountsByOwner[account.OwnerID]; exists {
		return fmt.Errorf("%w: owner %s already has an account", apperrors.ErrDuplicate, account.OwnerID)
	}
	s.accounts[account.AccountID] = account
	s.accountsByOwner[account.OwnerID] = account.AccountID
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *Store) FindAccountByOwnerID(ctx context.Context, ownerID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.accountsByOwner[ownerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	account := s.accounts[accountID]
	return &account, nil
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	account.IsActive = false
	account.LastUpdatedAt = now
	s.accounts[accountID] = account
	return nil
}

func (s *Store) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		all = append(all, account)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AccountID < all[j].AccountID })
	return paginate(all, limit, offset), nil
}

// --- LedgerRepository ---

func (s *Store) ApplyMovement(ctx context.Context, accountID string, delta int64, entry domain.LedgerEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	newBalance := account.Balance + delta
	if newBalance < 0 {
		return 0, fmt.Errorf("%w: balance %d, delta %d", apperrors.ErrInsufficientFunds, account.Balance, delta)
	}
	if _, exists := s.entryIndex[entry.EntryID]; exists {
		return 0, fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}

	account.Balance = newBalance
	account.LastUpdatedAt = entry.CreatedAt
	s.accounts[accountID] = account
	s.entryIndex[entry.EntryID] = len(s.entries)
	s.entries = append(s.entries, entry)
	return newBalance, nil
}

func (s *Store) RevertMovement(ctx context.Context, accountID string, delta int64, entryID string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.entryIndex[entryID]
	if !ok {
		return 0, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	account, ok := s.accounts[accountID]
	if !ok {
		return 0, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	newBalance := account.Balance + delta
	if newBalance < 0 {
		return 0, fmt.Errorf("%w: revert would drive balance negative", apperrors.ErrInsufficientFunds)
	}

	account.Balance = newBalance
	account.LastUpdatedAt = now
	s.accounts[accountID] = account
	s.entries[idx].Status = domain.StatusFailed
	return newBalance, nil
}

func (s *Store) RecordEntry(ctx context.Context, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entryIndex[entry.EntryID]; exists {
		return fmt.Errorf("%w: entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	s.entryIndex[entry.EntryID] = len(s.entries)
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.entryIndex[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	entry := s.entries[idx]
	return &entry, nil
}

func (s *Store) ListRecent(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.completedFor(accountID, func(domain.LedgerEntry) bool { return true })
	sortNewestFirst(matched)
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) ListByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.completedFor(accountID, func(e domain.LedgerEntry) bool {
		return !e.CreatedAt.Before(start) && !e.CreatedAt.After(end)
	})
	sortNewestFirst(matched)
	return matched, nil
}

func (s *Store) SumByKind(ctx context.Context, accountID string, kind domain.EntryKind) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.entries {
		if e.AccountID == accountID && e.Kind == kind && e.Status == domain.StatusCompleted {
			total += e.Amount
		}
	}
	return total, nil
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.LedgerEntry, len(s.entries))
	copy(all, s.entries)
	sortNewestFirst(all)
	return paginate(all, limit, offset), nil
}

// --- UserRepository ---

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.UserID]; exists {
		return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.UserID)
	}
	if _, exists := s.usersByEmail[user.Email]; exists {
		return fmt.Errorf("%w: email %s", apperrors.ErrDuplicate, user.Email)
	}
	s.users[user.UserID] = user
	s.usersByEmail[user.Email] = user.UserID
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usersByEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	user := s.users[userID]
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return paginate(all, limit, offset), nil
}

// --- helpers ---

// completedFor returns copies of the account's COMPLETED entries matching keep.
// Callers must hold at least the read lock.
func (s *Store) completedFor(accountID string, keep func(domain.LedgerEntry) bool) []domain.LedgerEntry {
	matched := make([]domain.LedgerEntry, 0)
	for _, e := range s.entries {
		if e.AccountID == accountID && e.Status == domain.StatusCompleted && keep(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// sortNewestFirst orders entries by createdAt descending, ties broken by
// entryID descending for determinism.
func sortNewestFirst(entries []domain.LedgerEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].EntryID > entries[j].EntryID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
