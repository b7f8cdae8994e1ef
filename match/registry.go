package match

import (
	"iter"
	"maps"
	"strconv"

	"github.com/benbjohnson/immutable"
	"github.com/n2cholas/shapecheck/shape"
)

// Binding is the value a named dimension is bound to: a single size for
// Named tokens, or a tuple of sizes for VariadicNamed tokens.
type Binding struct {
	Dim      int
	Span     shape.Shape
	Variadic bool
}

func Dim(n int) Binding { return Binding{Dim: n} }

func Span(dims shape.Shape) Binding {
	if dims == nil {
		dims = shape.Shape{}
	}
	return Binding{Span: dims, Variadic: true}
}

func (b Binding) Equal(o Binding) bool {
	if b.Variadic != o.Variadic {
		return false
	}
	if b.Variadic {
		return b.Span.Equal(o.Span)
	}
	return b.Dim == o.Dim
}

func (b Binding) String() string {
	if b.Variadic {
		return b.Span.String()
	}
	return strconv.Itoa(b.Dim)
}

// Lookup finds existing bindings by key. See shapespec.Token.Key.
type Lookup interface {
	Lookup(key string) (Binding, bool)
}

// Registry holds the named dimensions bound during one call.
//
// It is backed by a persistent map, so a match can bind tentatively and
// only commit once the whole leaf is known to match.
type Registry struct {
	bindings *immutable.SortedMap[string, Binding]
}

var _ Lookup = &Registry{}

func NewRegistry() *Registry {
	return &Registry{bindings: immutable.NewSortedMap[string, Binding](nil)}
}

func (r *Registry) Lookup(key string) (Binding, bool) {
	return r.bindings.Get(key)
}

func (r *Registry) Len() int {
	return r.bindings.Len()
}

// All iterates over the bindings of r in key order.
func (r *Registry) All() iter.Seq2[string, Binding] {
	return func(yield func(string, Binding) bool) {
		itr := r.bindings.Iterator()
		for !itr.Done() {
			k, v, _ := itr.Next()
			if !yield(k, v) {
				return
			}
		}
	}
}

// Snapshot copies the bindings of r into a plain map.
func (r *Registry) Snapshot() map[string]Binding {
	return maps.Collect(r.All())
}

// Keys returns the bound keys of r in order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, r.Len())
	for k := range r.All() {
		keys = append(keys, k)
	}
	return keys
}
