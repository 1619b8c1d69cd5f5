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
	"fmt"

	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// TupleArbitrary generates fixed-size heterogeneous tuples. The shrink context
// of a tuple is the list of the contexts of its slots.
type TupleArbitrary struct {
	arbs []Arbitrary[any]
}

func Tuple(arbs ...Arbitrary[any]) (*TupleArbitrary, error) {
	for i, arb := range arbs {
		if arb == nil {
			return nil, fmt.Errorf("%w, tuple slot %d", ErrMissingArbitrary, i)
		}
	}
	return &TupleArbitrary{arbs: arbs}, nil
}

func (a *TupleArbitrary) Generate(rnd *random.Random, biasFactor int) *Value[[]any] {
	values := make([]*Value[any], len(a.arbs))
	for i, arb := range a.arbs {
		values[i] = arb.Generate(rnd, biasFactor)
	}
	return wrapTuple(values)
}

func wrapTuple(values []*Value[any]) *Value[[]any] {
	cloneable := false
	raw := make([]any, len(values))
	contexts := make([]any, len(values))
	for i, value := range values {
		cloneable = cloneable || value.HasToBeCloned()
		raw[i] = value.Value()
		contexts[i] = value.Context()
	}
	if !cloneable {
		return NewValueWithCloner(raw, contexts, nil)
	}
	return NewValueWithCloner(raw, contexts, func() []any {
		res := make([]any, len(values))
		for i, value := range values {
			res[i] = value.Value()
		}
		return res
	})
}

func (a *TupleArbitrary) CanShrinkWithoutContext(value []any) bool {
	if len(value) != len(a.arbs) {
		return false
	}
	for i, arb := range a.arbs {
		if !arb.CanShrinkWithoutContext(value[i]) {
			return false
		}
	}
	return true
}

// Shrink shrinks one slot at a time, starting with the first. The slots kept
// as they are get cloned so that they are not shared with the original tuple.
func (a *TupleArbitrary) Shrink(value []any, context any) *stream.Stream[*Value[[]any]] {
	contexts, _ := context.([]any)
	contextOf := func(i int) any {
		if i < len(contexts) {
			return contexts[i]
		}
		return nil
	}
	shrinks := make([]*stream.Stream[*Value[[]any]], 0, len(a.arbs))
	for index, arb := range a.arbs {
		shrinks = append(shrinks, stream.Lazy(func() *stream.Stream[*Value[[]any]] {
			return stream.Map(arb.Shrink(value[index], contextOf(index)), func(v *Value[any]) *Value[[]any] {
				next := make([]*Value[any], len(value))
				for i := range value {
					if i == index {
						next[i] = v
					} else {
						next[i] = NewValue(cloneIfNeeded(value[i]), contextOf(i))
					}
				}
				return wrapTuple(next)
			})
		}))
	}
	return stream.Nil[*Value[[]any]]().Join(shrinks...)
}

// Pair is the value type of Tuple2.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the value type of Tuple3.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple2 creates a typed tuple arbitrary of two slots.
func Tuple2[A, B any](a Arbitrary[A], b Arbitrary[B]) (Arbitrary[Pair[A, B]], error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w, tuple slot", ErrMissingArbitrary)
	}
	tuple, err := Tuple(Erase(a), Erase(b))
	if err != nil {
		return nil, err
	}
	return Map[[]any, Pair[A, B]](tuple,
		func(values []any) Pair[A, B] {
			return Pair[A, B]{as[A](values[0]), as[B](values[1])}
		},
		func(p Pair[A, B]) ([]any, bool) {
			return []any{p.First, p.Second}, true
		},
	), nil
}

// Tuple3 creates a typed tuple arbitrary of three slots.
func Tuple3[A, B, C any](a Arbitrary[A], b Arbitrary[B], c Arbitrary[C]) (Arbitrary[Triple[A, B, C]], error) {
	if a == nil || b == nil || c == nil {
		return nil, fmt.Errorf("%w, tuple slot", ErrMissingArbitrary)
	}
	tuple, err := Tuple(Erase(a), Erase(b), Erase(c))
	if err != nil {
		return nil, err
	}
	return Map[[]any, Triple[A, B, C]](tuple,
		func(values []any) Triple[A, B, C] {
			return Triple[A, B, C]{as[A](values[0]), as[B](values[1]), as[C](values[2])}
		},
		func(t Triple[A, B, C]) ([]any, bool) {
			return []any{t.First, t.Second, t.Third}, true
		},
	), nil
}

// as converts an erased value back to its type; nil becomes the zero value.
func as[T any](value any) T {
	res, _ := value.(T)
	return res
}
