package ledger

import "sync"

// accountLocks serializes operations per account ID. Concurrent requests
// against the same account queue behind one mutex; different accounts
// proceed independently. Locks are created on first use and never freed —
// the population is bounded by the number of accounts ever touched.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the given account and returns the unlock function.
func (l *accountLocks) acquire(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
