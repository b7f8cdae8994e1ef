package util

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/hashicorp/go-set/v3"
)

func SetFromSeq[V comparable](s iter.Seq[V], size int) *set.Set[V] {
	newSet := set.New[V](size)
	for item := range s {
		newSet.Insert(item)
	}
	return newSet
}

// Sorted returns the elements of s in ascending order.
func Sorted[A cmp.Ordered](s set.Collection[A]) []A {
	return slices.Sorted(s.Items())
}

func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
