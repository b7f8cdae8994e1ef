package shape

import (
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Shape is the dimension sizes of an array, e.g. (2, 3, 4).
// The empty Shape is a rank-0 (scalar) array.
type Shape []int

// Array is anything whose shape can be inspected.
type Array interface {
	Dims() []int
}

var _ Array = Shape(nil)

func (s Shape) Dims() []int { return s }

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// Valid reports whether every dimension is non-negative.
func (s Shape) Valid() bool {
	for _, d := range s {
		if d < 0 {
			return false
		}
	}
	return true
}

// Equal reports whether s and o have the same rank and the same sizes.
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

// String renders s as a tuple: (3, 2), (3,) or ().
func (s Shape) String() string {
	sb := strings.Builder{}
	sb.WriteByte('(')
	for i, d := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(d))
	}
	if len(s) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

func (s Shape) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Of extracts the shape of v.
//
// Arrays report their own dimensions; integer slices are taken to be
// shapes themselves, which lets plain shapes stand in for arrays.
func Of(v any) (Shape, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case Array:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, false
		}
		return Shape(slices.Clone(v.Dims())), true
	case []int:
		return Shape(slices.Clone(v)), true
	case []int64:
		out := make(Shape, len(v))
		for i, d := range v {
			out[i] = int(d)
		}
		return out, true
	case []any:
		out := make(Shape, len(v))
		for i, d := range v {
			n, ok := asInt(d)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	}
	return nil, false
}

func asInt(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt {
			return 0, false
		}
		return int(rv.Uint()), true
	default:
		return 0, false
	}
}
