package walk

import (
	"iter"

	"github.com/n2cholas/shapecheck/match"
	"github.com/n2cholas/shapecheck/shape"
	"github.com/n2cholas/shapecheck/shapespec"
)

// Result mirrors the declared structure it was produced from. Leaves carry
// the outcome of one match, branches aggregate their children.
type Result struct {
	Kind Kind
	// Key is the mapping key, sequence index or argument name of this node
	Key string
	// Path locates this node from the root of the walk
	Path    string
	Outcome match.Outcome

	// leaves only
	Expected shapespec.Spec
	Actual   shape.Shape
	Reason   string

	// branches only, in key or index order
	Children []*Result
}

func (r *Result) OK() bool {
	return r == nil || r.Outcome != match.Mismatch
}

// Leaves iterates over the leaves under r in walk order.
func (r *Result) Leaves() iter.Seq[*Result] {
	return func(yield func(*Result) bool) {
		r.leaves(yield)
	}
}

func (r *Result) leaves(yield func(*Result) bool) bool {
	if r == nil {
		return true
	}
	if r.Kind == LeafKind {
		return yield(r)
	}
	for _, c := range r.Children {
		if !c.leaves(yield) {
			return false
		}
	}
	return true
}

// Mismatches returns the mismatching leaves under r in walk order.
func (r *Result) Mismatches() []*Result {
	var out []*Result
	for leaf := range r.Leaves() {
		if leaf.Outcome == match.Mismatch {
			out = append(out, leaf)
		}
	}
	return out
}

// Branch groups children under a new node whose outcome is Mismatch if
// any child's is.
func Branch(kind Kind, key, path string, children []*Result) *Result {
	outcome := match.Match
	for _, c := range children {
		if c.Outcome == match.Mismatch {
			outcome = match.Mismatch
			break
		}
	}
	return &Result{
		Kind:     kind,
		Key:      key,
		Path:     path,
		Outcome:  outcome,
		Children: children,
	}
}
