package ledger

import (
	"sync"

	"github.com/google/uuid"
)

// keyedMutex serializes work per customer id. Distinct customers proceed
// concurrently; two reconciliations for the same customer run one at a
// time. Entries are reference counted so the map does not grow with the
// customer population.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*keyedMutexEntry
}

type keyedMutexEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		entries: make(map[uuid.UUID]*keyedMutexEntry),
	}
}

// Lock acquires the mutex for the given key, blocking while another
// holder owns it
func (k *keyedMutex) Lock(key uuid.UUID) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &keyedMutexEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for the given key
func (k *keyedMutex) Unlock(key uuid.UUID) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, key)
		}
	}
	k.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
