package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dcastano/walletcore/internal/domain"
)

// LockManager implements AccountLocker with one exclusive lock per
// account id. Lock acquisition is bounded: waiting longer than the
// configured timeout surfaces domain.ErrLockTimeout instead of
// blocking indefinitely.
//
// Acquire sorts the requested ids ascending before locking, so every
// multi-account caller takes locks in the same global order. That is
// what makes two concurrent opposite-direction transfers deadlock-free.
type LockManager struct {
	timeout time.Duration

	mu    sync.Mutex
	locks map[string]*accountLock
}

// accountLock holds the lock token in a capacity-1 channel: whoever
// put the token in holds the lock. refs counts waiters plus the holder
// so unused entries can be evicted from the map.
type accountLock struct {
	held chan struct{}
	refs int
}

// NewLockManager creates a LockManager with the given acquisition
// timeout.
func NewLockManager(timeout time.Duration) *LockManager {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	return &LockManager{
		timeout: timeout,
		locks:   make(map[string]*accountLock),
	}
}

// Acquire locks every given account id in ascending order and returns
// a release function. On timeout or context cancellation, locks taken
// so far are released and no lock is held.
func (lm *LockManager) Acquire(ctx context.Context, accountIDs ...string) (func(), error) {
	ids := dedupeSorted(accountIDs)

	held := make([]string, 0, len(ids))
	release := func() {
		// Release in reverse acquisition order.
		for i := len(held) - 1; i >= 0; i-- {
			lm.release(held[i])
		}
	}

	for _, id := range ids {
		if err := lm.acquireOne(ctx, id); err != nil {
			release()
			return nil, err
		}

		held = append(held, id)
	}

	return release, nil
}

func (lm *LockManager) acquireOne(ctx context.Context, id string) error {
	l := lm.ref(id)

	timer := time.NewTimer(lm.timeout)
	defer timer.Stop()

	select {
	case l.held <- struct{}{}:
		return nil
	case <-timer.C:
		lm.unref(id)
		return fmt.Errorf("%w: account %s after %s", domain.ErrLockTimeout, id, lm.timeout)
	case <-ctx.Done():
		lm.unref(id)
		return ctx.Err()
	}
}

func (lm *LockManager) release(id string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l := lm.locks[id]
	<-l.held
	l.refs--
	if l.refs == 0 {
		delete(lm.locks, id)
	}
}

func (lm *LockManager) ref(id string) *accountLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l, ok := lm.locks[id]
	if !ok {
		l = &accountLock{held: make(chan struct{}, 1)}
		lm.locks[id] = l
	}
	l.refs++

	return l
}

func (lm *LockManager) unref(id string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	l := lm.locks[id]
	l.refs--
	if l.refs == 0 {
		delete(lm.locks, id)
	}
}

func dedupeSorted(ids []string) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	out := sorted[:0]
	for i, id := range sorted {
		if i == 0 || sorted[i-1] != id {
			out = append(out, id)
		}
	}

	return out
}
