// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the generic
Filter and Set helpers used by the letter service.
*/
package slice

// Filter keeps the elements for which predicate holds. It never returns nil.
func Filter[T any](input []T, predicate func(T) bool) []T {
	result := make([]T, 0, len(input))
	for _, v := range input {
		if predicate(v) {
			result = append(result, v)
		}
	}
	return result
}

// Set builds a membership set from the keys produced by key.
func Set[T any, K comparable](input []T, key func(T) K) map[K]struct{} {
	set := make(map[K]struct{}, len(input))
	for _, v := range input {
		set[key(v)] = struct{}{}
	}
	return set
}
