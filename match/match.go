// Package match checks actual array shapes against parsed shape specs,
// binding named dimensions as it goes.
package match

import (
	"fmt"

	"github.com/benbjohnson/immutable"
	"github.com/n2cholas/shapecheck/internal/log"
	"github.com/n2cholas/shapecheck/shape"
	"github.com/n2cholas/shapecheck/shapespec"
)

var logger = log.DefaultLogger.With("section", "match")

type Outcome uint8

const (
	Match Outcome = iota
	Mismatch
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Match:
		return "Match"
	case Mismatch:
		return "MisMatch"
	case Skipped:
		return "Skipped"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// Result is the outcome of matching a single shape.
type Result struct {
	Outcome Outcome
	// Reason describes the first failing check of a Mismatch
	Reason string
	// Bound are the keys newly bound by a Match, in spec order
	Bound []string
}

func (r Result) OK() bool { return r.Outcome != Mismatch }

// Shape checks actual against spec.
//
// Named dimensions are looked up in, and bound into, reg. When ancestors
// is not nil, a name that reg has not bound yet must also agree with the
// ancestors' binding of it, if there is one.
//
// Bindings are committed to reg only if the whole shape matches.
func Shape(spec shapespec.Spec, actual shape.Shape, reg *Registry, ancestors Lookup) Result {
	m := matcher{
		tentative: reg.bindings,
		ancestors: ancestors,
	}
	if reason, ok := m.run(spec, actual); !ok {
		logger.Debug("shape mismatch", "spec", spec, "actual", actual, "reason", reason)
		return Result{Outcome: Mismatch, Reason: reason}
	}
	reg.bindings = m.tentative
	return Result{Outcome: Match, Bound: m.bound}
}

type matcher struct {
	tentative *immutable.SortedMap[string, Binding]
	ancestors Lookup
	bound     []string
}

func (m *matcher) run(spec shapespec.Spec, actual shape.Shape) (reason string, ok bool) {
	if !actual.Valid() {
		return fmt.Sprintf("actual shape %v has a negative dimension", actual), false
	}
	nTokens, rank := spec.Len(), len(actual)
	variadic := spec.Variadic()

	// span is how many actual dims the variadic token absorbs
	span := 0
	if variadic < 0 {
		if nTokens != rank {
			return fmt.Sprintf("rank %d does not match %d expected dims", rank, nTokens), false
		}
	} else {
		if rank < nTokens-1 {
			return fmt.Sprintf("rank %d is less than the %d non-variadic dims expected", rank, nTokens-1), false
		}
		span = rank - (nTokens - 1)
	}

	for i, tok := range spec.All() {
		switch {
		case variadic < 0 || i < variadic:
			if reason, ok := m.dim(tok, i, actual[i]); !ok {
				return reason, false
			}
		case i == variadic:
			if reason, ok := m.span(tok, i, actual[i:i+span]); !ok {
				return reason, false
			}
		default:
			pos := i + span - 1
			if reason, ok := m.dim(tok, pos, actual[pos]); !ok {
				return reason, false
			}
		}
	}
	return "", true
}

func (m *matcher) dim(tok shapespec.Token, pos int, d int) (string, bool) {
	switch tok.Kind {
	case shapespec.Fixed:
		if d != tok.Size {
			return fmt.Sprintf("dim %d: expected %d, got %d", pos, tok.Size, d), false
		}
		return "", true
	case shapespec.Wildcard:
		return "", true
	case shapespec.Named:
		return m.bind(tok.Key(), Dim(d), pos)
	default:
		panic(fmt.Sprintf("unexpected %v token at dim %d", tok.Kind, pos))
	}
}

func (m *matcher) span(tok shapespec.Token, pos int, dims shape.Shape) (string, bool) {
	switch tok.Kind {
	case shapespec.VariadicAnon:
		return "", true
	case shapespec.VariadicNamed:
		return m.bind(tok.Key(), Span(append(shape.Shape{}, dims...)), pos)
	default:
		panic(fmt.Sprintf("unexpected %v token at dim %d", tok.Kind, pos))
	}
}

func (m *matcher) bind(key string, b Binding, pos int) (string, bool) {
	if prev, ok := m.tentative.Get(key); ok {
		if !prev.Equal(b) {
			return fmt.Sprintf("dim %d: %s bound to %v, got %v", pos, key, prev, b), false
		}
		return "", true
	}
	if m.ancestors != nil {
		if prev, ok := m.ancestors.Lookup(key); ok && !prev.Equal(b) {
			return fmt.Sprintf("dim %d: %s bound to %v by a calling function, got %v", pos, key, prev, b), false
		}
	}
	m.tentative = m.tentative.Set(key, b)
	m.bound = append(m.bound, key)
	return "", true
}
