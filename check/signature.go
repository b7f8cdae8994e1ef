package check

import (
	"strconv"

	"github.com/hashicorp/go-set/v3"
	"github.com/n2cholas/shapecheck/shapeerr"
	"github.com/n2cholas/shapecheck/walk"
)

// Param declares one argument of a checked function. Spec is anything
// walk.FromAny accepts.
type Param struct {
	Name string
	Spec any
}

// Positional declares unnamed parameters, named arg0, arg1 and so on.
func Positional(specs ...any) []Param {
	params := make([]Param, len(specs))
	for i, spec := range specs {
		params[i] = Param{Name: "arg" + strconv.Itoa(i), Spec: spec}
	}
	return params
}

type param struct {
	name string
	node walk.Node
}

// Signature declares the shapes a function takes and returns.
type Signature struct {
	name         string
	params       []param
	out          walk.Node
	matchCallees bool
}

type Option func(*Signature) error

// WithOut declares the shape of the function's result.
func WithOut(spec any) Option {
	return func(s *Signature) error {
		n, err := walk.FromAny(spec)
		if err != nil {
			return err
		}
		s.out = n
		return nil
	}
}

// MatchCallees requires checked functions called from this one, directly or
// not, to agree with the named dimensions it binds.
func MatchCallees() Option {
	return func(s *Signature) error {
		s.matchCallees = true
		return nil
	}
}

// NewSignature parses every declaration up front, so that a malformed spec
// is reported when the function is declared rather than when it is called.
func NewSignature(name string, in []Param, opts ...Option) (*Signature, error) {
	sig := &Signature{name: name, params: make([]param, 0, len(in))}
	seen := set.New[string](len(in))
	for _, p := range in {
		if !seen.Insert(p.Name) {
			return nil, shapeerr.AtPath(shapeerr.UnsupportedSpec, name, "duplicate parameter %q", p.Name)
		}
		n, err := walk.FromAny(p.Spec)
		if err != nil {
			return nil, err
		}
		sig.params = append(sig.params, param{name: p.Name, node: n})
	}
	for _, opt := range opts {
		if err := opt(sig); err != nil {
			return nil, err
		}
	}
	return sig, nil
}

// MustSignature is like NewSignature but panics on error.
func MustSignature(name string, in []Param, opts ...Option) *Signature {
	sig, err := NewSignature(name, in, opts...)
	if err != nil {
		panic(err)
	}
	return sig
}

func (s *Signature) Name() string { return s.name }

func (s *Signature) Arity() int { return len(s.params) }

func (s *Signature) HasOut() bool { return s.out != nil }

func (s *Signature) MatchesCallees() bool { return s.matchCallees }

// Labels returns every registry key the signature can bind.
func (s *Signature) Labels() *set.Set[string] {
	labels := set.New[string](0)
	for _, p := range s.params {
		labels.InsertSet(p.node.Labels())
	}
	if s.out != nil {
		labels.InsertSet(s.out.Labels())
	}
	return labels
}
