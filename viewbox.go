package viewbox

import (
	"errors"
	"fmt"
	"io"
	"reflect"
)

// Box owns a heap-resident D and a view V built from it. The zero Box is
// not usable; construct one with New or TryNew.
type Box[D, V any] struct {
	guard borrowGuard
	data  *D
	view  V
}

// New moves data into a fresh heap slot and calls build with a pointer to
// that slot. References build takes into *D stay valid until the Box is
// consumed.
func New[D, V any](data D, build func(*D) V) *Box[D, V] {
	if build == nil {
		panic("viewbox: nil builder")
	}
	p := new(D)
	*p = data
	return &Box[D, V]{data: p, view: build(p)}
}

// TryNew is New for builders that can fail. On failure it returns a
// *BuildError[D] carrying the original data and the builder's error; any
// view the builder returned alongside the error is dropped.
func TryNew[D, V any](data D, build func(*D) (V, error)) (*Box[D, V], error) {
	if build == nil {
		panic("viewbox: nil builder")
	}
	p := new(D)
	*p = data
	v, err := build(p)
	if err != nil {
		var zero D
		*p = zero
		return nil, &BuildError[D]{Data: data, Err: err}
	}
	return &Box[D, V]{data: p, view: v}, nil
}

// View calls fn with the view under a shared borrow. fn must not write
// through the view nor retain it after returning.
func (b *Box[D, V]) View(fn func(V)) {
	b.guard.shared("View")
	defer b.guard.releaseShared()
	fn(b.view)
}

// ViewMut calls fn with the view under an exclusive borrow. Writes through
// the view's references reach the data; the stored view itself cannot be
// replaced.
func (b *Box[D, V]) ViewMut(fn func(V)) {
	b.guard.exclusive("ViewMut")
	defer b.guard.releaseExclusive()
	fn(b.view)
}

// IntoInner consumes the Box and returns the data. The view is released
// first; a non-nil error reports a failing view Close, the data is returned
// regardless.
func (b *Box[D, V]) IntoInner() (D, error) {
	b.guard.exclusive("IntoInner")
	// a panicking view Close still leaves the box consumed
	defer b.guard.consume()
	err := b.releaseView()
	return b.takeData(), err
}

// Close consumes the Box, closing the view and then the data when they
// implement io.Closer. Closing a consumed Box returns ErrConsumed.
func (b *Box[D, V]) Close() error {
	if err := b.guard.tryExclusive("Close"); err != nil {
		if errors.Is(err, ErrConsumed) {
			return ErrConsumed
		}
		panic(err)
	}
	defer b.guard.consume()
	errs := []error{b.releaseView()}
	if c := b.dataCloser(); c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("viewbox: close data: %w", err))
		}
	}
	b.takeData()
	return errors.Join(errs...)
}

// Consumed reports whether IntoInner or Close has run.
func (b *Box[D, V]) Consumed() bool {
	return b.guard.consumed()
}

// releaseView tears the view down and clears its slot. Called with the
// exclusive borrow held and the data still in place.
func (b *Box[D, V]) releaseView() error {
	var err error
	if c, ok := any(b.view).(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			err = fmt.Errorf("viewbox: close view: %w", cerr)
		}
	}
	var zero V
	b.view = zero
	return err
}

// dataCloser finds Close on *D, or on D itself when D is a pointer or
// interface holding a closer. A nil D has nothing to close.
func (b *Box[D, V]) dataCloser() io.Closer {
	if c, ok := any(b.data).(io.Closer); ok {
		return c
	}
	c, ok := any(*b.data).(io.Closer)
	if !ok {
		return nil
	}
	if v := reflect.ValueOf(c); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return c
}

// takeData moves the data out and zeroes the heap slot. Only fields stored
// inline in D are cut off from a leaked view; memory D points to (a slice's
// backing array, a pointee) is shared with the returned value and stays
// reachable through such a view.
func (b *Box[D, V]) takeData() D {
	data := *b.data
	var zero D
	*b.data = zero
	b.data = nil
	return data
}
