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

// MappedArbitrary transforms the values of another arbitrary.
type MappedArbitrary[T, U any] struct {
	arb      Arbitrary[T]
	mapper   func(T) U
	unmapper func(U) (T, bool)
}

// mappedContext keeps the source value and its context, such that values can
// be shrunk on the source side.
type mappedContext[T any] struct {
	originalValue   T
	originalContext any
}

// Map creates an arbitrary producing mapper(v) for every v produced by arb.
// unmapper, if not nil, inverts mapper; it enables shrinking values without
// context. It reports false for values outside of the image of mapper.
func Map[T, U any](arb Arbitrary[T], mapper func(T) U, unmapper func(U) (T, bool)) *MappedArbitrary[T, U] {
	return &MappedArbitrary[T, U]{arb: arb, mapper: mapper, unmapper: unmapper}
}

func (m *MappedArbitrary[T, U]) Generate(rnd *random.Random, biasFactor int) *Value[U] {
	return m.mapValue(m.arb.Generate(rnd, biasFactor))
}

// mapValue maps v. If the source value needs cloning and the mapped value
// cannot clone itself, clones are produced by mapping clones of the source.
func (m *MappedArbitrary[T, U]) mapValue(v *Value[T]) *Value[U] {
	source := v.Value()
	mapped := m.mapper(source)
	context := &mappedContext[T]{originalValue: source, originalContext: v.Context()}
	if clone := clonerOf(mapped); clone != nil || !v.HasToBeCloned() {
		return NewValueWithCloner(mapped, context, clone)
	}
	return NewValueWithCloner(mapped, context, func() U {
		return m.mapper(v.Value())
	})
}

func (m *MappedArbitrary[T, U]) CanShrinkWithoutContext(value U) (res bool) {
	if m.unmapper == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			res = false
		}
	}()
	source, ok := m.unmapper(value)
	return ok && m.arb.CanShrinkWithoutContext(source)
}

func (m *MappedArbitrary[T, U]) Shrink(value U, context any) *stream.Stream[*Value[U]] {
	if ctx, ok := context.(*mappedContext[T]); ok {
		return stream.Map(m.arb.Shrink(ctx.originalValue, ctx.originalContext), m.mapValue)
	}
	if m.unmapper == nil {
		return stream.Nil[*Value[U]]()
	}
	source, ok := m.unmapper(value)
	if !ok {
		return stream.Nil[*Value[U]]()
	}
	return stream.Map(m.arb.Shrink(source, nil), m.mapValue)
}

// erasedArbitrary hides the value type of an arbitrary.
type erasedArbitrary[T any] struct {
	arb Arbitrary[T]
}

// Erase adapts arb to produce values of type any. Contexts and the cloning
// policy of the values are preserved.
func Erase[T any](arb Arbitrary[T]) Arbitrary[any] {
	return &erasedArbitrary[T]{arb: arb}
}

func (e *erasedArbitrary[T]) Generate(rnd *random.Random, biasFactor int) *Value[any] {
	return eraseValue(e.arb.Generate(rnd, biasFactor))
}

func eraseValue[T any](v *Value[T]) *Value[any] {
	if !v.HasToBeCloned() {
		return NewValueWithCloner[any](v.Raw(), v.Context(), nil)
	}
	return NewValueWithCloner[any](v.Value(), v.Context(), func() any { return v.Value() })
}

func (e *erasedArbitrary[T]) CanShrinkWithoutContext(value any) bool {
	typed, ok := value.(T)
	return ok && e.arb.CanShrinkWithoutContext(typed)
}

func (e *erasedArbitrary[T]) Shrink(value any, context any) *stream.Stream[*Value[any]] {
	typed, ok := value.(T)
	if !ok {
		return stream.Nil[*Value[any]]()
	}
	return stream.Map(e.arb.Shrink(typed, context), eraseValue[T])
}
