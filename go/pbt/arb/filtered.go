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

import (
	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// FilteredArbitrary only produces values of another arbitrary satisfying a
// predicate.
type FilteredArbitrary[T any] struct {
	arb       Arbitrary[T]
	predicate func(T) bool
}

// Filter creates an arbitrary for the values of arb satisfying predicate.
// The predicate sees the raw values and must not modify them.
// Generation retries until a value satisfies the predicate, so predicates
// rejecting most values make generation slow.
func Filter[T any](arb Arbitrary[T], predicate func(T) bool) *FilteredArbitrary[T] {
	return &FilteredArbitrary[T]{arb: arb, predicate: predicate}
}

func (f *FilteredArbitrary[T]) Generate(rnd *random.Random, biasFactor int) *Value[T] {
	for {
		value := f.arb.Generate(rnd, biasFactor)
		if f.predicate(value.Raw()) {
			return value
		}
	}
}

func (f *FilteredArbitrary[T]) CanShrinkWithoutContext(value T) bool {
	return f.arb.CanShrinkWithoutContext(value) && f.predicate(value)
}

func (f *FilteredArbitrary[T]) Shrink(value T, context any) *stream.Stream[*Value[T]] {
	return f.arb.Shrink(value, context).Filter(func(v *Value[T]) bool {
		return f.predicate(v.Raw())
	})
}

// noShrinkArbitrary produces the values of another arbitrary without ever
// shrinking them.
type noShrinkArbitrary[T any] struct {
	arb Arbitrary[T]
}

func NoShrink[T any](arb Arbitrary[T]) Arbitrary[T] {
	return &noShrinkArbitrary[T]{arb: arb}
}

func (n *noShrinkArbitrary[T]) Generate(rnd *random.Random, biasFactor int) *Value[T] {
	return n.arb.Generate(rnd, biasFactor)
}

func (n *noShrinkArbitrary[T]) CanShrinkWithoutContext(value T) bool {
	return n.arb.CanShrinkWithoutContext(value)
}

func (n *noShrinkArbitrary[T]) Shrink(T, any) *stream.Stream[*Value[T]] {
	return stream.Nil[*Value[T]]()
}

// noBiasArbitrary produces the values of another arbitrary ignoring bias.
type noBiasArbitrary[T any] struct {
	arb Arbitrary[T]
}

func NoBias[T any](arb Arbitrary[T]) Arbitrary[T] {
	return &noBiasArbitrary[T]{arb: arb}
}

func (n *noBiasArbitrary[T]) Generate(rnd *random.Random, _ int) *Value[T] {
	return n.arb.Generate(rnd, 0)
}

func (n *noBiasArbitrary[T]) CanShrinkWithoutContext(value T) bool {
	return n.arb.CanShrinkWithoutContext(value)
}

func (n *noBiasArbitrary[T]) Shrink(value T, context any) *stream.Stream[*Value[T]] {
	return n.arb.Shrink(value, context)
}
