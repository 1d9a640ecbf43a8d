// Package viewbox bundles an owned value together with a "view" whose
// references point into that value, so the pair travels as one unit.
//
// A typical use is a decoded buffer plus the strings and slices that alias
// it: the buffer must stay alive and unmodified for exactly as long as the
// aliases are reachable, and nobody outside the pair may write to it.
//
//	b := viewbox.New(buf, func(p *[]byte) Header {
//		return parseHeader(*p) // Header fields alias *p
//	})
//	b.View(func(h Header) { fmt.Println(h.Name) })
//	buf, _ = b.IntoInner()
//
// The data is copied into its own heap slot before the builder runs, so
// every reference the builder takes stays valid however the *Box is passed
// around. The view is only ever handed to callbacks; it never leaves a
// borrow. Borrows are checked at run time: View calls may overlap each
// other, while ViewMut, IntoInner and Close demand exclusive access. An
// incompatible overlap panics with a *BorrowError.
//
// Teardown always releases the view before the data. A view or data type
// holding resources can implement io.Closer; Close and IntoInner call the
// view's Close while the data is still intact.
//
// A Box provides no locking of its own. Wrap it in a Shared to use it from
// several goroutines that may write.
package viewbox
