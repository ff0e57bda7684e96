package set

import (
	"cmp"
	"slices"
)

type unit = struct{}

// Set is an unordered set of values of type T.
type Set[T comparable] map[T]unit

// New returns a empty set.
func New[T comparable]() Set[T] {
	return make(Set[T])
}

// FromSlice returns a set containing the values in the given slice; duplicates collapse.
func FromSlice[T comparable](keys []T) Set[T] {
	set := make(Set[T], len(keys))
	for _, x := range keys {
		set.Insert(x)
	}
	return set
}

// Contains checks whether the passed-in value is present in the Set.
func (s Set[T]) Contains(val T) bool {
	_, ok := s[val]
	return ok
}

// Insert adds the passed-in value to the Set and reports whether it was absent.
func (s Set[T]) Insert(val T) bool {
	if s.Contains(val) {
		return false
	}
	s[val] = unit{}
	return true
}

// Remove removes the passed-in value from the Set and reports whether it was present.
func (s Set[T]) Remove(val T) bool {
	if !s.Contains(val) {
		return false
	}
	delete(s, val)
	return true
}

// ToSlice builds a new slice, populates it with the contents of the Set, and returns it.
func (s Set[T]) ToSlice() []T {
	res := make([]T, 0, len(s))
	for val := range s {
		res = append(res, val)
	}
	return res
}

// Sorted returns the contents of an ordered set in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	res := s.ToSlice()
	slices.Sort(res)
	return res
}
