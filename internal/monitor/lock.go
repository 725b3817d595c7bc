package monitor

import (
	"context"
	"sync"
)

// LockResource is the fixed resource name serializing partition-recovery
// reconciliation cluster-wide.
const LockResource = "table_stitch"

// Locker is a mutual-exclusion lock keyed by resource name and owned by
// the caller's execution context: the lock is held exactly for the
// duration of fn and released when fn returns or fails. There is no
// manual release.
type Locker interface {
	Do(ctx context.Context, resource, owner string, fn func(ctx context.Context) error) error
}

// KeyedLock is an in-process Locker. A single-process deployment, and
// every test, gets real mutual exclusion from it; multi-node deployments
// supply a Locker backed by whatever lock service the store already
// runs on. Implementing distributed consensus is out of scope here.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLock creates an empty keyed lock.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[string]*sync.Mutex)}
}

// Do runs fn while holding the named lock. The second acquirer blocks
// until the first returns.
func (l *KeyedLock) Do(ctx context.Context, resource, owner string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[resource]
	if !ok {
		m = &sync.Mutex{}
		l.locks[resource] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}
