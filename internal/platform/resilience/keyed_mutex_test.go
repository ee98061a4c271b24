package resilience

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	t.Parallel()

	var km KeyedMutex
	var counter int

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("roster:user-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	t.Parallel()

	var km KeyedMutex

	unlockA := km.Lock("a")
	// A different key must not block even while "a" is held.
	unlockB := km.Lock("b")
	unlockB()
	unlockA()
}

func TestKeyedMutex_DropsIdleEntries(t *testing.T) {
	t.Parallel()

	var km KeyedMutex

	unlock := km.Lock("a")
	unlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("expected empty lock table, got %d entries", len(km.locks))
	}
}
