package keylock

import (
	"sync"

	portsout "nexafaucet/internal/application/ports/out"
)

// KeyedMutex hands out one mutex per key, created on demand and released
// when the last holder or waiter unlocks. It serializes the dispense
// check-then-act sequence per recipient address within the process.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	refCount int
}

var _ portsout.AddressLocker = (*KeyedMutex)(nil)

func New() *KeyedMutex {
	return &KeyedMutex{
		entries: map[string]*entry{},
	}
}

func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, exists := k.entries[key]
	if !exists {
		e = &entry{}
		k.entries[key] = e
	}
	e.refCount++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refCount--
			if e.refCount == 0 {
				delete(k.entries, key)
			}
			k.mu.Unlock()
		})
	}
}
