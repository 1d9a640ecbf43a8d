package viewbox

import (
	"errors"
	"fmt"
)

var (
	// ErrBorrowConflict marks a borrow that overlaps an incompatible one.
	ErrBorrowConflict = errors.New("conflicting borrow")
	// ErrConsumed marks use of a Box after IntoInner or Close.
	ErrConsumed       = errors.New("box already consumed")
)

// BorrowError is the panic value raised when a borrow of a Box overlaps an
// incompatible one, or when a consumed Box is touched again.
type BorrowError struct {
	Op  string
	Err error
}

func (e *BorrowError) Error() string {
	return fmt.Sprintf("viewbox: %s: %v", e.Op, e.Err)
}

func (e *BorrowError) Unwrap() error { return e.Err }

// BuildError is returned by TryNew when the builder fails. Data is the value
// the caller passed in, handed back unchanged.
type BuildError[D any] struct {
	Data D
	Err  error
}

func (e *BuildError[D]) Error() string {
	return fmt.Sprintf("viewbox: build view: %v", e.Err)
}

func (e *BuildError[D]) Unwrap() error { return e.Err }

// Recover extracts the data handed back by a failed TryNew from anywhere in
// err's chain.
func Recover[D any](err error) (D, bool) {
	var be *BuildError[D]
	if errors.As(err, &be) {
		return be.Data, true
	}
	var zero D
	return zero, false
}
