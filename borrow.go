package viewbox

import "sync/atomic"

const (
	stateFree      int32 = 0
	stateExclusive int32 = -1
	stateConsumed  int32 = -2
)

// borrowGuard enforces single-writer/multi-reader access to a Box at run
// time. A positive state counts outstanding shared borrows.
type borrowGuard struct {
	state atomic.Int32
}

func (g *borrowGuard) shared(op string) {
	for {
		n := g.state.Load()
		switch n {
		case stateConsumed:
			panic(&BorrowError{Op: op, Err: ErrConsumed})
		case stateExclusive:
			panic(&BorrowError{Op: op, Err: ErrBorrowConflict})
		}
		if g.state.CompareAndSwap(n, n+1) {
			return
		}
	}
}

func (g *borrowGuard) releaseShared() {
	g.state.Add(-1)
}

func (g *borrowGuard) tryExclusive(op string) error {
	if g.state.CompareAndSwap(stateFree, stateExclusive) {
		return nil
	}
	if g.state.Load() == stateConsumed {
		return &BorrowError{Op: op, Err: ErrConsumed}
	}
	return &BorrowError{Op: op, Err: ErrBorrowConflict}
}

func (g *borrowGuard) exclusive(op string) {
	if err := g.tryExclusive(op); err != nil {
		panic(err)
	}
}

func (g *borrowGuard) releaseExclusive() {
	g.state.Store(stateFree)
}

// consume must be called while holding the exclusive borrow; it never
// releases.
func (g *borrowGuard) consume() {
	g.state.Store(stateConsumed)
}

func (g *borrowGuard) consumed() bool {
	return g.state.Load() == stateConsumed
}
