package viewbox

import "sync"

// Shared serialises access to a Box across goroutines. Where a bare Box
// panics on an incompatible borrow, Shared blocks until the borrow is free.
type Shared[D, V any] struct {
	mu  sync.RWMutex
	box *Box[D, V]
}

func NewShared[D, V any](b *Box[D, V]) *Shared[D, V] {
	return &Shared[D, V]{box: b}
}

func (s *Shared[D, V]) View(fn func(V)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.box.View(fn)
}

func (s *Shared[D, V]) ViewMut(fn func(V)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.box.ViewMut(fn)
}

func (s *Shared[D, V]) IntoInner() (D, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.box.IntoInner()
}

func (s *Shared[D, V]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.box.Close()
}
