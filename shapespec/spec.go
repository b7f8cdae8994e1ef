// Package shapespec parses shape specs: the compact grammar used to declare
// the dimensions an array is expected to have.
//
// A spec is a comma-separated list of entries, each one of
//
//	-1        any single dimension
//	3         exactly 3
//	N         a named dimension, equal wherever N is used within a call
//	...       zero or more dimensions
//	batch...  zero or more dimensions, equal as a whole wherever batch... is used
//
// Whitespace around entries is ignored, and at most one entry may be variadic.
// The empty string declares a rank-0 array.
package shapespec

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Spec is an ordered sequence of Tokens holding at most one variadic token.
// The zero Spec is the rank-0 spec.
type Spec struct {
	tokens []Token
	// variadic is the position of the variadic token, or -1
	variadic int
	source   string
}

// Empty is the rank-0 spec, matching only shapes without dimensions
var Empty = Spec{variadic: -1}

// Len returns the number of tokens in s.
func (s Spec) Len() int { return len(s.tokens) }

// At returns the i-th token of s.
func (s Spec) At(i int) Token { return s.tokens[i] }

// All iterates over the tokens of s in order.
func (s Spec) All() iter.Seq2[int, Token] {
	return func(yield func(int, Token) bool) {
		for i, tok := range s.tokens {
			if !yield(i, tok) {
				return
			}
		}
	}
}

// Tokens returns a copy of the tokens of s.
func (s Spec) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Variadic returns the position of the variadic token of s, or -1 if there is none.
func (s Spec) Variadic() int {
	if len(s.tokens) == 0 {
		return -1
	}
	return s.variadic
}

// Source returns the text s was parsed from, or its canonical form when
// it was built from structured entries.
func (s Spec) Source() string {
	return s.source
}

// String renders s in canonical spec grammar.
func (s Spec) String() string {
	parts := make([]string, len(s.tokens))
	for i, tok := range s.tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, ", ")
}

func (s Spec) LogValue() slog.Value {
	return slog.StringValue("(" + s.String() + ")")
}

// Labels returns the registry keys s can bind. See Token.Key.
func (s Spec) Labels() *set.Set[string] {
	labels := set.New[string](len(s.tokens))
	for _, tok := range s.tokens {
		if key := tok.Key(); key != "" {
			labels.Insert(key)
		}
	}
	return labels
}

// Equal reports whether s and o hold the same tokens.
func (s Spec) Equal(o Spec) bool {
	if len(s.tokens) != len(o.tokens) {
		return false
	}
	for i := range s.tokens {
		if s.tokens[i] != o.tokens[i] {
			return false
		}
	}
	return true
}
