// Package idalloc hands out local integer identifiers.
package idalloc

import "sync"

// Allocator issues strictly increasing ids within one scope (the sections of an
// adventure, or the adventures of a registry). Ids are never reused, even
// after the thing they named is deleted.
type Allocator struct {
	mu   sync.Mutex
	last int
}

// New returns an allocator whose first id is start (or 1 if start < 1).
func New(start int) *Allocator {
	if start < 1 {
		start = 1
	}
	return &Allocator{last: start - 1}
}

// Next returns a fresh id.
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last++
	return a.last
}

// Observe records an id supplied from elsewhere (storage, import) so it is
// never issued by Next.
func (a *Allocator) Observe(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id > a.last {
		a.last = id
	}
}
