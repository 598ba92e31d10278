package idalloc

import (
	"sync"
	"testing"
)

func TestNextIsMonotonic(t *testing.T) {
	a := New(0)
	if got := a.Next(); got != 1 {
		t.Fatalf("expected first id 1, got %d", got)
	}
	if got := a.Next(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestObserveSkipsSuppliedIDs(t *testing.T) {
	a := New(1)
	a.Observe(10)
	a.Observe(3) // lower ids do not move the counter back
	if got := a.Next(); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
	if got := a.Next(); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
}

func TestConcurrentNextUnique(t *testing.T) {
	a := New(1)
	const n = 200
	ids := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- a.Next()
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
}
