package keylock

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locks := New()

	const goroutines = 32
	counter := 0

	wg := sync.WaitGroup{}
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("nexa:qqsamekey")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Fatalf("expected %d increments, got %d", goroutines, counter)
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	locks := New()

	unlock := locks.Lock("nexa:qqaddr1")
	unlock()
	// Double unlock must be a no-op.
	unlock()

	locks.mu.Lock()
	remaining := len(locks.entries)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected no retained entries, got %d", remaining)
	}
}

func TestKeyedMutexIndependentKeysDoNotBlock(t *testing.T) {
	locks := New()

	unlockA := locks.Lock("nexa:qqaddra")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("nexa:qqaddrb")
		unlockB()
		close(done)
	}()

	<-done
}
