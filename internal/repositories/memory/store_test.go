package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/core/domain"
	"github.com/finvault/ebank/internal/repositories/memory"
)

func seedAccount(t *testing.T, store *memory.Store, balance int64) string {
	t.Helper()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		OwnerID:      uuid.NewString(),
		Balance:      balance,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	require.NoError(t, store.SaveAccount(context.Background(), account))
	return account.AccountID
}

func depositEntry(accountID string, amount int64, createdAt time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:   uuid.NewString(),
		AccountID: accountID,
		Kind:      domain.KindDeposit,
		Amount:    amount,
		Status:    domain.StatusCompleted,
		CreatedAt: createdAt,
	}
}

func TestStore_ApplyMovement(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	accountID := seedAccount(t, store, 1000)

	entry := depositEntry(accountID, 500, time.Now().UTC())
	balance, err := store.ApplyMovement(ctx, accountID, 500, entry)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), balance)

	// Balance change and entry commit together.
	account, err := store.FindAccountByID(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), account.Balance)
	found, err := store.FindEntryByID(ctx, entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, entry.EntryID, found.EntryID)
}

func TestStore_ApplyMovement_GuardsNonNegative(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	accountID := seedAccount(t, store, 100)

	entry := depositEntry(accountID, 101, time.Now().UTC())
	entry.Kind = domain.KindWithdraw
	_, err := store.ApplyMovement(ctx, accountID, -101, entry)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	// The rejected movement left neither a balance change nor an entry.
	account, findErr := store.FindAccountByID(ctx, accountID)
	require.NoError(t, findErr)
	assert.Equal(t, int64(100), account.Balance)
	_, findErr = store.FindEntryByID(ctx, entry.EntryID)
	assert.ErrorIs(t, findErr, apperrors.ErrNotFound)
}

func TestStore_ApplyMovement_UnknownAccount(t *testing.T) {
	store := memory.NewStore()
	entry := depositEntry(uuid.NewString(), 100, time.Now().UTC())
	_, err := store.ApplyMovement(context.Background(), entry.AccountID, 100, entry)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ApplyMovement_DuplicateEntry(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	accountID := seedAccount(t, store, 0)

	entry := depositEntry(accountID, 100, time.Now().UTC())
	_, err := store.ApplyMovement(ctx, accountID, 100, entry)
	require.NoError(t, err)
	_, err = store.ApplyMovement(ctx, accountID, 100, entry)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestStore_RevertMovement(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	accountID := seedAccount(t, store, 1000)

	entry := depositEntry(accountID, 400, time.Now().UTC())
	entry.Kind = domain.KindWithdraw
	_, err := store.ApplyMovement(ctx, accountID, -400, entry)
	require.NoError(t, err)

	balance, err := store.RevertMovement(ctx, accountID, 400, entry.EntryID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	// The reverted entry is FAILED and excluded from completed reads.
	found, err := store.FindEntryByID(ctx, entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, found.Status)
	recent, err := store.ListRecent(ctx, accountID, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestStore_ListRecent_TiebreakOnEntryID(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	accountID := seedAccount(t, store, 0)

	// Same timestamp: ordering falls back to entryID descending.
	now := time.Now().UTC()
	first := depositEntry(accountID, 100, now)
	first.EntryID = "aaa"
	second := depositEntry(accountID, 200, now)
	second.EntryID = "bbb"
	_, err := store.ApplyMovement(ctx, accountID, 100, first)
	require.NoError(t, err)
	_, err = store.ApplyMovement(ctx, accountID, 200, second)
	require.NoError(t, err)

	entries, err := store.ListRecent(ctx, accountID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bbb", entries[0].EntryID)
	assert.Equal(t, "aaa", entries[1].EntryID)
}
