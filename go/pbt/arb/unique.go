// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package arb

// CustomSet accumulates the items of an array with a uniqueness constraint.
type CustomSet[T any] interface {
	// TryAdd adds value unless it collides with a value added before. It
	// reports whether value was added.
	TryAdd(value *Value[T]) bool
	// Size returns the number of values added so far.
	Size() int
	// Data returns the added values in insertion order.
	Data() []*Value[T]
}

// keySet is a CustomSet considering two values equal if their selected keys
// are equal.
type keySet[T any, K comparable] struct {
	selector func(T) K
	keys     map[K]struct{}
	data     []*Value[T]
}

// NewKeySet creates a CustomSet deduplicating values by the key produced by
// selector.
func NewKeySet[T any, K comparable](selector func(T) K) CustomSet[T] {
	return &keySet[T, K]{selector: selector, keys: map[K]struct{}{}}
}

func (s *keySet[T, K]) TryAdd(value *Value[T]) bool {
	key := s.selector(value.Raw())
	if _, found := s.keys[key]; found {
		return false
	}
	s.keys[key] = struct{}{}
	s.data = append(s.data, value)
	return true
}

func (s *keySet[T, K]) Size() int {
	return len(s.data)
}

func (s *keySet[T, K]) Data() []*Value[T] {
	return s.data
}

// UniqueArray creates an arbitrary for slices without two items sharing the
// same key. It accepts the options of Array.
func UniqueArray[T any, K comparable](item Arbitrary[T], selector func(T) K, opts ...Option) (*ArrayArbitrary[T], error) {
	return newArray(item, func() CustomSet[T] { return NewKeySet(selector) }, opts)
}

// UniqueArrayWithSet creates an arbitrary for slices deduplicated by custom
// sets created by newSet.
func UniqueArrayWithSet[T any](item Arbitrary[T], newSet func() CustomSet[T], opts ...Option) (*ArrayArbitrary[T], error) {
	return newArray(item, newSet, opts)
}
