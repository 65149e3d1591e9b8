package pipeline

import "sync"

// keyLock serializes the read-modify-write balance sequence per
// (partition, item) key, closing the lost-update race between two actors
// committing the same item at once. The lock map grows with the catalog and
// partition count, which is bounded, so entries are never reclaimed.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLock) lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
