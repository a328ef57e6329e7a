package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvault/ebank/internal/apperrors"
)

func TestAccountLocks_AcquireAndRelease(t *testing.T) {
	locks := newAccountLocks()
	ctx := context.Background()

	release, err := locks.Acquire(ctx, "acc-1", 50*time.Millisecond)
	require.NoError(t, err)
	release()

	// Released lock can be taken again.
	release, err = locks.Acquire(ctx, "acc-1", 50*time.Millisecond)
	require.NoError(t, err)
	release()
}

func TestAccountLocks_BusyOnContention(t *testing.T) {
	locks := newAccountLocks()
	ctx := context.Background()

	release, err := locks.Acquire(ctx, "acc-1", 50*time.Millisecond)
	require.NoError(t, err)
	defer release()

	_, err = locks.Acquire(ctx, "acc-1", 20*time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrBusy)

	// A different account is unaffected.
	otherRelease, err := locks.Acquire(ctx, "acc-2", 20*time.Millisecond)
	require.NoError(t, err)
	otherRelease()
}

func TestAccountLocks_ContextCancellation(t *testing.T) {
	locks := newAccountLocks()

	release, err := locks.Acquire(context.Background(), "acc-1", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locks.Acquire(ctx, "acc-1", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAccountLocks_AcquireOrderedReleasesOnFailure(t *testing.T) {
	locks := newAccountLocks()
	ctx := context.Background()

	// Hold the lock that sorts second so ordered acquisition fails after
	// taking the first.
	release, err := locks.Acquire(ctx, "b", 50*time.Millisecond)
	require.NoError(t, err)

	_, err = locks.AcquireOrdered(ctx, 20*time.Millisecond, "b", "a")
	assert.ErrorIs(t, err, apperrors.ErrBusy)

	// The first lock must have been released on the failure path.
	aRelease, err := locks.Acquire(ctx, "a", 20*time.Millisecond)
	require.NoError(t, err)
	aRelease()

	release()
}

func TestAccountLocks_AcquireOrderedBothHeld(t *testing.T) {
	locks := newAccountLocks()
	ctx := context.Background()

	releaseAll, err := locks.AcquireOrdered(ctx, 50*time.Millisecond, "y", "x")
	require.NoError(t, err)

	_, err = locks.Acquire(ctx, "x", 20*time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrBusy)
	_, err = locks.Acquire(ctx, "y", 20*time.Millisecond)
	assert.ErrorIs(t, err, apperrors.ErrBusy)

	releaseAll()

	release, err := locks.Acquire(ctx, "x", 20*time.Millisecond)
	require.NoError(t, err)
	release()
}
