// Package collection has small generic helpers over slices.
package collection

// Map returns a new slice with fn applied to every element.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Reduce folds s into a single value.
func Reduce[T, R any](s []T, initial R, fn func(carry R, item T) R) R {
	carry := initial
	for _, v := range s {
		carry = fn(carry, v)
	}
	return carry
}

// KeyBy indexes s by key. Later elements win on duplicate keys.
func KeyBy[T any, K comparable](s []T, key func(T) K) map[K]T {
	out := make(map[K]T, len(s))
	for _, v := range s {
		out[key(v)] = v
	}
	return out
}

// Group is one key and the elements that share it.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupOrdered groups s by key. Groups appear in the order their key is
// first seen and items keep their order within a group, so a sorted
// fan-out join regroups into the same parent order.
func GroupOrdered[T any, K comparable](s []T, key func(T) K) []Group[K, T] {
	var groups []Group[K, T]
	index := make(map[K]int)

	for _, v := range s {
		k := key(v)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, v)
	}
	return groups
}
