package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvault/ebank/internal/apperrors"
	"github.com/finvault/ebank/internal/core/domain"
)

func TestHistory_RecentOrdering(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, 0)

	// Deposit 100, deposit 200, withdraw 50. History must come back newest
	// first regardless of amounts.
	_, err := f.container.Funds.Deposit(ctx, account, 10000, "", "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.container.Funds.Deposit(ctx, account, 20000, "", "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	last, err := f.container.Funds.Withdraw(ctx, account, 5000, "", "")
	require.NoError(t, err)

	entries, err := f.container.History.Recent(ctx, account, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, last.Entry.EntryID, entries[0].EntryID)
	assert.Equal(t, domain.KindWithdraw, entries[0].Kind)
	assert.Equal(t, int64(5000), entries[0].Amount)
	assert.Equal(t, int64(20000), entries[1].Amount)
	assert.Equal(t, int64(10000), entries[2].Amount)
}

func TestHistory_RecentLimit(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, 0)

	for i := 0; i < 8; i++ {
		_, err := f.container.Funds.Deposit(ctx, account, 100, "", "")
		require.NoError(t, err)
	}

	entries, err := f.container.History.Recent(ctx, account, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// A non-positive limit falls back to the default.
	entries, err = f.container.History.Recent(ctx, account, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestHistory_RecentIsIdempotent(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, 1000)

	_, err := f.container.Funds.Deposit(ctx, account, 500, "", "")
	require.NoError(t, err)

	first, err := f.container.History.Recent(ctx, account, 10)
	require.NoError(t, err)
	second, err := f.container.History.Recent(ctx, account, 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1500), f.balance(t, account))
}

func TestHistory_UnknownAccount(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()

	_, err := f.container.History.Recent(ctx, uuid.NewString(), 10)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.container.History.ByDateRange(ctx, uuid.NewString(), time.Now().Add(-time.Hour), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.container.History.Aggregate(ctx, uuid.NewString(), domain.KindDeposit)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHistory_ByDateRangeIsInclusive(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, 0)

	before := time.Now().UTC().Add(-time.Millisecond)
	result, err := f.container.Funds.Deposit(ctx, account, 100, "", "")
	require.NoError(t, err)
	after := time.Now().UTC().Add(time.Millisecond)

	// Both endpoints inclusive: the exact createdAt matches on either bound.
	entries, err := f.container.History.ByDateRange(ctx, account, before, after)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = f.container.History.ByDateRange(ctx, account, result.Entry.CreatedAt, result.Entry.CreatedAt)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// A window that ends before the entry excludes it.
	entries, err = f.container.History.ByDateRange(ctx, account, before.Add(-time.Hour), before)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_Aggregate(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, 0)
	other := f.seedAccount(t, 0)

	_, err := f.container.Funds.Deposit(ctx, account, 30000, "", "")
	require.NoError(t, err)
	_, err = f.container.Funds.Deposit(ctx, account, 20000, "", "")
	require.NoError(t, err)
	_, err = f.container.Funds.Withdraw(ctx, account, 5000, "", "")
	require.NoError(t, err)
	_, err = f.container.Funds.Transfer(ctx, account, other, 10000, "")
	require.NoError(t, err)

	deposits, err := f.container.History.Aggregate(ctx, account, domain.KindDeposit)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), deposits)

	withdrawals, err := f.container.History.Aggregate(ctx, account, domain.KindWithdraw)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), withdrawals)

	out, err := f.container.History.Aggregate(ctx, account, domain.KindTransferOut)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), out)

	in, err := f.container.History.Aggregate(ctx, other, domain.KindTransferIn)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), in)
}

func TestHistory_ListAll(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	a := f.seedAccount(t, 0)
	b := f.seedAccount(t, 0)

	_, err := f.container.Funds.Deposit(ctx, a, 100, "", "")
	require.NoError(t, err)
	_, err = f.container.Funds.Deposit(ctx, b, 200, "", "")
	require.NoError(t, err)

	entries, err := f.container.History.ListAll(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = f.container.History.ListAll(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
