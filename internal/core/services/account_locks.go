package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finvault/ebank/internal/apperrors"
)

// accountLocks hands out one exclusive lock per account ID. Locks are
// channel-based so acquisition can be bounded by a timeout instead of
// blocking indefinitely under contention.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]chan struct{})}
}

func (l *accountLocks) lockFor(accountID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[accountID] = ch
	}
	return ch
}

// Acquire takes the exclusive lock for accountID, waiting at most timeout.
// It returns a release func on success, or apperrors.ErrBusy if the lock
// could not be acquired in time.
func (l *accountLocks) Acquire(ctx context.Context, accountID string, timeout time.Duration) (func(), error) {
	ch := l.lockFor(accountID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, apperrors.ErrBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AcquireOrdered takes the locks for all accountIDs in ascending ID order.
// The fixed global order is the sole deadlock-avoidance rule for operations
// spanning two accounts; every caller path must go through here. The
// returned release func unlocks in reverse order.
func (l *accountLocks) AcquireOrdered(ctx context.Context, timeout time.Duration, accountIDs ...string) (func(), error) {
	ordered := make([]string, len(accountIDs))
	copy(ordered, accountIDs)
	sort.Strings(ordered)

	releases := make([]func(), 0, len(ordered))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, id := range ordered {
		release, err := l.Acquire(ctx, id, timeout)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
