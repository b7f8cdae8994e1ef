package walk

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/hashicorp/go-set/v3"
	"github.com/n2cholas/shapecheck/match"
	"github.com/n2cholas/shapecheck/shape"
	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/n2cholas/shapecheck/util"
)

// Walker matches arguments against declared structures. All leaves walked
// by one Walker share its Registry, so named dimensions must agree across them.
type Walker struct {
	Registry *match.Registry
	// Ancestors is consulted for names the Registry has not bound yet; may be nil
	Ancestors match.Lookup
}

func NewWalker(ancestors match.Lookup) *Walker {
	return &Walker{
		Registry:  match.NewRegistry(),
		Ancestors: ancestors,
	}
}

// Walk pairs decl with arg and matches every leaf. key names the root of
// the walk, typically an argument name.
//
// Shape mismatches never make Walk fail; they are recorded in the returned
// Result. A *shapeerr.SpecError is returned as soon as arg does not have
// the structure decl declares.
func (w *Walker) Walk(decl Node, arg any, key string) (*Result, error) {
	return w.walk(decl, arg, key, key)
}

func (w *Walker) walk(decl Node, arg any, key, path string) (*Result, error) {
	switch decl := decl.(type) {
	case Leaf:
		return w.leaf(decl, arg, key, path)
	case Mapping:
		return w.mapping(decl, arg, key, path)
	case Sequence:
		return w.sequence(decl, arg, key, path)
	case nil:
		return w.leaf(Skip(), arg, key, path)
	default:
		panic(fmt.Sprintf("unexpected node type %T", decl))
	}
}

func (w *Walker) leaf(decl Leaf, arg any, key, path string) (*Result, error) {
	if decl.Skip {
		return &Result{Kind: LeafKind, Key: key, Path: path, Outcome: match.Skipped}, nil
	}
	actual, ok := shape.Of(arg)
	if !ok {
		return nil, shapeerr.AtPath(shapeerr.NoShape, path, "expected an array of shape (%v), got %T", decl.Spec, arg)
	}
	res := match.Shape(decl.Spec, actual, w.Registry, w.Ancestors)
	return &Result{
		Kind:     LeafKind,
		Key:      key,
		Path:     path,
		Outcome:  res.Outcome,
		Expected: decl.Spec,
		Actual:   actual,
		Reason:   res.Reason,
	}, nil
}

func (w *Walker) mapping(decl Mapping, arg any, key, path string) (*Result, error) {
	rv := indirect(reflect.ValueOf(arg))
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, shapeerr.AtPath(shapeerr.KindMismatch, path, "expected a mapping with string keys, got %T", arg)
	}

	declKeys := util.SortedKeys(decl)
	want := set.From(declKeys)
	got := util.SetFromSeq(func(yield func(string) bool) {
		for _, k := range rv.MapKeys() {
			if !yield(k.String()) {
				return
			}
		}
	}, rv.Len())
	if !want.Equal(got) {
		missing := util.Sorted(want.Difference(got))
		extra := util.Sorted(got.Difference(want))
		return nil, shapeerr.AtPath(shapeerr.KeyMismatch, path, "missing keys %v, unexpected keys %v", missing, extra)
	}

	keyType := rv.Type().Key()
	children := make([]*Result, 0, len(declKeys))
	for _, k := range declKeys {
		v := rv.MapIndex(reflect.ValueOf(k).Convert(keyType))
		child, err := w.walk(decl[k], v.Interface(), k, path+"."+k)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return Branch(MappingKind, key, path, children), nil
}

func (w *Walker) sequence(decl Sequence, arg any, key, path string) (*Result, error) {
	rv := indirect(reflect.ValueOf(arg))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, shapeerr.AtPath(shapeerr.KindMismatch, path, "expected a sequence, got %T", arg)
	}
	if rv.Len() != len(decl) {
		return nil, shapeerr.AtPath(shapeerr.LengthMismatch, path, "expected %d elements, got %d", len(decl), rv.Len())
	}

	children := make([]*Result, 0, len(decl))
	for i, n := range decl {
		idx := strconv.Itoa(i)
		child, err := w.walk(n, rv.Index(i).Interface(), idx, path+"["+idx+"]")
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return Branch(SequenceKind, key, path, children), nil
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
