// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package stream implements single-pass lazy sequences. Shrink spaces are
// combinatorially large and only ever partially explored, so nothing in this
// package computes an element before it is pulled.
package stream

// Stream is a single-consumption, possibly infinite sequence of values.
type Stream[T any] struct {
	next func() (T, bool)
	done bool
}

// New creates a stream pulling its values from next. The stream is exhausted
// as soon as next reports false.
func New[T any](next func() (T, bool)) *Stream[T] {
	return &Stream[T]{next: next}
}

// Nil returns an empty stream.
func Nil[T any]() *Stream[T] {
	return &Stream[T]{done: true}
}

// Of returns a stream of the given values.
func Of[T any](values ...T) *Stream[T] {
	return FromSlice(values)
}

// FromSlice returns a stream over the elements of values.
func FromSlice[T any](values []T) *Stream[T] {
	pos := 0
	return New(func() (T, bool) {
		if pos >= len(values) {
			var zero T
			return zero, false
		}
		pos++
		return values[pos-1], true
	})
}

// Lazy defers the construction of a stream until its first element is
// requested.
func Lazy[T any](build func() *Stream[T]) *Stream[T] {
	var inner *Stream[T]
	return New(func() (T, bool) {
		if inner == nil {
			inner = build()
		}
		return inner.Next()
	})
}

// Next pulls the next element. The second result is false once the stream is
// exhausted; an exhausted stream stays exhausted.
func (s *Stream[T]) Next() (T, bool) {
	var zero T
	if s.done {
		return zero, false
	}
	value, ok := s.next()
	if !ok {
		s.done = true
		s.next = nil
		return zero, false
	}
	return value, true
}

// Map transforms every element of s using f.
func Map[T, U any](s *Stream[T], f func(T) U) *Stream[U] {
	return New(func() (U, bool) {
		value, ok := s.Next()
		if !ok {
			var zero U
			return zero, false
		}
		return f(value), true
	})
}

// Filter keeps the elements of s satisfying predicate.
func (s *Stream[T]) Filter(predicate func(T) bool) *Stream[T] {
	return New(func() (T, bool) {
		for {
			value, ok := s.Next()
			if !ok || predicate(value) {
				return value, ok
			}
		}
	})
}

// Join concatenates s with others. A stream is only pulled from once all the
// streams before it are exhausted.
func (s *Stream[T]) Join(others ...*Stream[T]) *Stream[T] {
	all := append([]*Stream[T]{s}, others...)
	return New(func() (T, bool) {
		for len(all) > 0 {
			if value, ok := all[0].Next(); ok {
				return value, true
			}
			all = all[1:]
		}
		var zero T
		return zero, false
	})
}

// Take limits s to at most n elements.
func (s *Stream[T]) Take(n int) *Stream[T] {
	remaining := n
	return New(func() (T, bool) {
		if remaining <= 0 {
			var zero T
			return zero, false
		}
		remaining--
		return s.Next()
	})
}

// Drop skips the first n elements of s. Skipping happens when the first
// element of the result is requested.
func (s *Stream[T]) Drop(n int) *Stream[T] {
	skipped := false
	return New(func() (T, bool) {
		if !skipped {
			skipped = true
			for i := 0; i < n; i++ {
				if _, ok := s.Next(); !ok {
					var zero T
					return zero, false
				}
			}
		}
		return s.Next()
	})
}

// GetNthOrLast returns the element at index n, or the last element if the
// stream is shorter. The second result is false for an empty stream.
func (s *Stream[T]) GetNthOrLast(n int) (T, bool) {
	var last T
	found := false
	for i := 0; ; i++ {
		value, ok := s.Next()
		if !ok {
			return last, found
		}
		last, found = value, true
		if i >= n {
			return last, true
		}
	}
}

// Every reports whether all elements satisfy predicate. It stops at the
// first counterexample.
func (s *Stream[T]) Every(predicate func(T) bool) bool {
	for {
		value, ok := s.Next()
		if !ok {
			return true
		}
		if !predicate(value) {
			return false
		}
	}
}

// Has reports whether some element satisfies predicate. It stops at the
// first match.
func (s *Stream[T]) Has(predicate func(T) bool) bool {
	return !s.Every(func(value T) bool { return !predicate(value) })
}

// ToSlice drains the stream. Never call it on infinite streams.
func (s *Stream[T]) ToSlice() []T {
	res := []T{}
	for {
		value, ok := s.Next()
		if !ok {
			return res
		}
		res = append(res, value)
	}
}

// All calls yield for every element, stopping early once yield returns false.
// Its signature matches iter.Seq, so it can be ranged over once the module
// moves to a Go version supporting range-over-func.
func (s *Stream[T]) All(yield func(T) bool) {
	for {
		value, ok := s.Next()
		if !ok || !yield(value) {
			return
		}
	}
}
