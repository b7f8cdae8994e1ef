// Package walk pairs nested shape declarations with nested arguments and
// matches every leaf, collecting the outcomes into a Result tree.
package walk

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"
	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/n2cholas/shapecheck/shapespec"
)

type Kind uint8

const (
	LeafKind Kind = iota
	MappingKind
	SequenceKind
)

func (k Kind) String() string {
	switch k {
	case LeafKind:
		return "leaf"
	case MappingKind:
		return "mapping"
	case SequenceKind:
		return "sequence"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Node is a declared structure of shapes: a Leaf, a Mapping or a Sequence.
// No other implementations are possible.
type Node interface {
	Kind() Kind
	// Labels are the registry keys the leaves under this node can bind
	Labels() *set.Set[string]
	node()
}

// Leaf declares the shape of a single array, or exempts it from checking.
type Leaf struct {
	Spec shapespec.Spec
	Skip bool
}

// Mapping declares one Node per key; arguments must have exactly these keys.
type Mapping map[string]Node

// Sequence declares one Node per position; arguments must have the same length.
type Sequence []Node

var (
	_ Node = Leaf{}
	_ Node = Mapping{}
	_ Node = Sequence{}
)

func (Leaf) Kind() Kind     { return LeafKind }
func (Mapping) Kind() Kind  { return MappingKind }
func (Sequence) Kind() Kind { return SequenceKind }

func (Leaf) node()     {}
func (Mapping) node()  {}
func (Sequence) node() {}

func (l Leaf) Labels() *set.Set[string] {
	if l.Skip {
		return set.New[string](0)
	}
	return l.Spec.Labels()
}

func (m Mapping) Labels() *set.Set[string] {
	labels := set.New[string](len(m))
	for _, n := range m {
		labels.InsertSet(n.Labels())
	}
	return labels
}

func (s Sequence) Labels() *set.Set[string] {
	labels := set.New[string](len(s))
	for _, n := range s {
		labels.InsertSet(n.Labels())
	}
	return labels
}

// Skip exempts an argument from checking.
func Skip() Leaf { return Leaf{Skip: true} }

// Shape declares a leaf from a spec string.
func Shape(spec string) (Leaf, error) {
	parsed, err := shapespec.Cached(spec)
	if err != nil {
		return Leaf{}, err
	}
	return Leaf{Spec: parsed}, nil
}

// MustShape is like Shape but panics if spec is malformed.
func MustShape(spec string) Leaf {
	leaf, err := Shape(spec)
	if err != nil {
		panic(err)
	}
	return leaf
}

// FromAny builds a Node from loosely typed declarations:
//
//   - nil skips the argument
//   - a string, shapespec.Spec or shapespec.Dims declares a Leaf
//   - a map[string]any declares a Mapping
//   - a []any declares a Sequence
//   - a Node is returned as is
func FromAny(v any) (Node, error) {
	switch v := v.(type) {
	case nil:
		return Skip(), nil
	case Node:
		return v, nil
	case string:
		return Shape(v)
	case shapespec.Spec:
		return Leaf{Spec: v}, nil
	case shapespec.Dims:
		parsed, err := shapespec.ParseSeq(v...)
		if err != nil {
			return nil, err
		}
		return Leaf{Spec: parsed}, nil
	case map[string]any:
		m := make(Mapping, len(v))
		for k, child := range v {
			n, err := FromAny(child)
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case []any:
		s := make(Sequence, len(v))
		for i, child := range v {
			n, err := FromAny(child)
			if err != nil {
				return nil, err
			}
			s[i] = n
		}
		return s, nil
	default:
		return nil, shapeerr.New(shapeerr.UnsupportedSpec, "", "cannot declare a shape with a %T", v)
	}
}
