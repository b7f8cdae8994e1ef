package shapespec

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/n2cholas/shapecheck/shapeerr"
)

// Dims is a pre-structured spec: each element is an int, a string entry or a Token.
type Dims []any

// Parse parses a spec string. See the package documentation for the grammar.
func Parse(s string) (Spec, error) {
	if strings.TrimSpace(s) == "" {
		return Spec{variadic: -1, source: s}, nil
	}
	entries := strings.Split(s, ",")
	tokens := make([]Token, 0, len(entries))
	for i, entry := range entries {
		tok, err := parseEntry(strings.TrimSpace(entry))
		if err != nil {
			return Spec{}, shapeerr.New(err.code, s, "entry %d: %s", i, err.detail)
		}
		tokens = append(tokens, tok)
	}
	return build(tokens, s)
}

// MustParse is like Parse but panics if s is malformed.
// It is meant for package-level declarations.
func MustParse(s string) Spec {
	spec, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// ParseSeq builds a Spec from already structured entries: Go integers
// (WildcardDim for a wildcard), strings holding a single entry, or Tokens.
func ParseSeq(entries ...any) (Spec, error) {
	tokens := make([]Token, 0, len(entries))
	for i, entry := range entries {
		tok, err := structuredEntry(entry)
		if err != nil {
			return Spec{}, shapeerr.New(err.code, "", "entry %d: %s", i, err.detail)
		}
		tokens = append(tokens, tok)
	}
	spec, err := build(tokens, "")
	if err != nil {
		return Spec{}, err
	}
	spec.source = spec.String()
	return spec, nil
}

var cache sync.Map

// Cached is Parse memoized on the raw spec string.
// Malformed specs are not cached.
func Cached(s string) (Spec, error) {
	if spec, ok := cache.Load(s); ok {
		return spec.(Spec), nil
	}
	spec, err := Parse(s)
	if err != nil {
		return Spec{}, err
	}
	cache.Store(s, spec)
	return spec, nil
}

func build(tokens []Token, source string) (Spec, error) {
	variadic := -1
	for i, tok := range tokens {
		if !tok.IsVariadic() {
			continue
		}
		if variadic >= 0 {
			return Spec{}, shapeerr.New(shapeerr.MultipleVariadic, source,
				"entries %d (%v) and %d (%v) are both variadic", variadic, tokens[variadic], i, tok)
		}
		variadic = i
	}
	return Spec{tokens: tokens, variadic: variadic, source: source}, nil
}

type entryError struct {
	code   shapeerr.ErrCode
	detail string
}

func parseEntry(entry string) (Token, *entryError) {
	if entry == "" {
		return Token{}, &entryError{shapeerr.EmptyLabel, "entry is empty"}
	}
	if entry == ellipsis {
		return Ellipsis(), nil
	}
	if label, ok := strings.CutSuffix(entry, ellipsis); ok {
		if err := checkLabel(label); err != nil {
			return Token{}, err
		}
		return NamedSpan(label), nil
	}
	if n, err := strconv.Atoi(entry); err == nil {
		return intEntry(n)
	}
	if err := checkLabel(entry); err != nil {
		return Token{}, err
	}
	return NamedDim(entry), nil
}

func intEntry(n int) (Token, *entryError) {
	switch {
	case n == WildcardDim:
		return AnyDim(), nil
	case n < 0:
		return Token{}, &entryError{shapeerr.NegativeDim, strconv.Itoa(n) + " is negative and not the wildcard -1"}
	default:
		return FixedDim(n), nil
	}
}

func checkLabel(label string) *entryError {
	switch {
	case label == "":
		return &entryError{shapeerr.EmptyLabel, "label is empty"}
	case strings.ContainsFunc(label, unicode.IsSpace):
		return &entryError{shapeerr.IllegalLabel, strconv.Quote(label) + " contains whitespace"}
	case strings.Contains(label, ","):
		return &entryError{shapeerr.IllegalLabel, strconv.Quote(label) + " contains a comma"}
	case strings.Contains(label, ellipsis):
		return &entryError{shapeerr.IllegalLabel, strconv.Quote(label) + " contains " + ellipsis}
	}
	return nil
}

func structuredEntry(entry any) (Token, *entryError) {
	switch entry := entry.(type) {
	case Token:
		return checkToken(entry)
	case string:
		return parseEntry(strings.TrimSpace(entry))
	}
	rv := reflect.ValueOf(entry)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intEntry(int(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt {
			return Token{}, &entryError{shapeerr.UnsupportedSpec, fmt.Sprintf("size %d overflows int", rv.Uint())}
		}
		return intEntry(int(rv.Uint()))
	default:
		return Token{}, &entryError{shapeerr.UnsupportedSpec, fmt.Sprintf("unsupported entry of type %T", entry)}
	}
}

func checkToken(tok Token) (Token, *entryError) {
	switch tok.Kind {
	case Fixed:
		if tok.Size < 0 {
			return Token{}, &entryError{shapeerr.NegativeDim, "fixed size " + strconv.Itoa(tok.Size) + " is negative"}
		}
	case Named, VariadicNamed:
		if err := checkLabel(tok.Label); err != nil {
			return Token{}, err
		}
	case Wildcard, VariadicAnon:
	default:
		return Token{}, &entryError{shapeerr.UnsupportedSpec, "unknown token kind " + tok.Kind.String()}
	}
	return tok, nil
}
