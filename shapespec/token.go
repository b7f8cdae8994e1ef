package shapespec

import (
	"fmt"
	"strconv"
)

type Kind uint8

const (
	// Fixed matches exactly one dimension of Token.Size
	Fixed Kind = iota
	// Wildcard matches any one dimension
	Wildcard
	// Named matches one dimension, bound to Token.Label on first use
	Named
	// VariadicAnon matches zero or more dimensions and binds nothing
	VariadicAnon
	// VariadicNamed matches zero or more dimensions, bound as a tuple to Token.Label
	VariadicNamed
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "Fixed"
	case Wildcard:
		return "Wildcard"
	case Named:
		return "Named"
	case VariadicAnon:
		return "VariadicAnon"
	case VariadicNamed:
		return "VariadicNamed"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// WildcardDim is the literal for a Wildcard entry
const WildcardDim = -1

const ellipsis = "..."

// Token is one parsed entry of a shape spec.
type Token struct {
	Kind  Kind
	Size  int
	Label string
}

func FixedDim(n int) Token        { return Token{Kind: Fixed, Size: n} }
func AnyDim() Token               { return Token{Kind: Wildcard} }
func NamedDim(label string) Token { return Token{Kind: Named, Label: label} }
func Ellipsis() Token             { return Token{Kind: VariadicAnon} }
func NamedSpan(label string) Token {
	return Token{Kind: VariadicNamed, Label: label}
}

// IsVariadic reports whether t spans zero or more dimensions.
func (t Token) IsVariadic() bool {
	return t.Kind == VariadicAnon || t.Kind == VariadicNamed
}

// Key is the name t binds under, or "" if t binds nothing.
// Variadic names keep their "..." suffix so they never collide with a
// scalar dimension of the same label.
func (t Token) Key() string {
	switch t.Kind {
	case Named:
		return t.Label
	case VariadicNamed:
		return t.Label + ellipsis
	default:
		return ""
	}
}

// String renders t in spec grammar.
func (t Token) String() string {
	switch t.Kind {
	case Fixed:
		return strconv.Itoa(t.Size)
	case Wildcard:
		return strconv.Itoa(WildcardDim)
	case Named:
		return t.Label
	case VariadicAnon:
		return ellipsis
	case VariadicNamed:
		return t.Label + ellipsis
	default:
		panic(fmt.Sprintf("unexpected token kind %v", t.Kind))
	}
}
