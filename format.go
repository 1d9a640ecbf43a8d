package viewbox

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

var debugConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// Equal reports whether the two views are structurally equal. References are
// followed, so boxes over different data compare equal when their views
// show the same values. A view type's own Equal method takes precedence.
func (b *Box[D, V]) Equal(other *Box[D, V]) bool {
	if b == nil || other == nil {
		return b == other
	}
	var eq bool
	b.View(func(x V) {
		other.View(func(y V) {
			eq = cmp.Equal(x, y, exportAll)
		})
	})
	return eq
}

// Format formats the view. %#v prints a dump with references followed.
func (b *Box[D, V]) Format(f fmt.State, verb rune) {
	b.View(func(v V) {
		if verb == 'v' && f.Flag('#') {
			io.WriteString(f, strings.TrimSuffix(debugConfig.Sdump(v), "\n"))
			return
		}
		fmt.Fprintf(f, fmt.FormatString(f, verb), v)
	})
}

func (b *Box[D, V]) String() string {
	var s string
	b.View(func(v V) { s = fmt.Sprint(v) })
	return s
}

// MarshalYAML encodes the view. The node is built inside the borrow, so the
// encoder never touches the view afterwards.
func (b *Box[D, V]) MarshalYAML() (any, error) {
	var (
		node yaml.Node
		err  error
	)
	b.View(func(v V) { err = node.Encode(v) })
	if err != nil {
		return nil, err
	}
	return &node, nil
}
