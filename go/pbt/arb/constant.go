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
	"reflect"

	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// ConstantArbitrary picks one of a fixed list of values. The context of a
// value is its index in the list; values shrink toward the first constant.
type ConstantArbitrary[T any] struct {
	values []T
}

func Constant[T any](values ...T) (*ConstantArbitrary[T], error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w, at least one constant is required", ErrMissingArbitrary)
	}
	return &ConstantArbitrary[T]{values: values}, nil
}

func (c *ConstantArbitrary[T]) Generate(rnd *random.Random, _ int) *Value[T] {
	idx := 0
	if len(c.values) > 1 {
		idx = int(rnd.NextInt(0, int64(len(c.values)-1)))
	}
	return NewValue(c.values[idx], idx)
}

func (c *ConstantArbitrary[T]) CanShrinkWithoutContext(value T) bool {
	for _, candidate := range c.values {
		if reflect.DeepEqual(candidate, value) {
			return true
		}
	}
	return false
}

func (c *ConstantArbitrary[T]) Shrink(value T, context any) *stream.Stream[*Value[T]] {
	if idx, ok := context.(int); (ok && idx == 0) || reflect.DeepEqual(value, c.values[0]) {
		return stream.Nil[*Value[T]]()
	}
	return stream.Of(NewValue(c.values[0], 0))
}

// Boolean creates an arbitrary for booleans shrinking toward false.
func Boolean() Arbitrary[bool] {
	return Map[int, bool](Must(Integer(0, 1)),
		func(i int) bool { return i == 1 },
		func(b bool) (int, bool) {
			if b {
				return 1, true
			}
			return 0, true
		},
	)
}
