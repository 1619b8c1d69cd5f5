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

	"golang.org/x/exp/constraints"

	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// Int is the set of integer types whose values fit into an int64.
type Int interface {
	constraints.Signed | ~uint8 | ~uint16 | ~uint32
}

// IntegerArbitrary generates integers of the inclusive range [min, max].
//
// The shrink context of its values is the last value known to pass, stored
// as an int64, or nil. Shrinking walks toward a target by halving the gap to
// it: 0 if the range contains 0, the bound closest to 0 otherwise.
type IntegerArbitrary[T Int] struct {
	min, max int64 // < inclusive boundaries
}

// Integer creates an arbitrary for integers in the inclusive range [min, max].
func Integer[T Int](min, max T) (*IntegerArbitrary[T], error) {
	if min > max {
		return nil, fmt.Errorf("%w, integer range [%d,%d] is empty", ErrInvalidRange, min, max)
	}
	return &IntegerArbitrary[T]{min: int64(min), max: int64(max)}, nil
}

func (a *IntegerArbitrary[T]) Min() T {
	return T(a.min)
}

func (a *IntegerArbitrary[T]) Max() T {
	return T(a.max)
}

func (a *IntegerArbitrary[T]) Generate(rnd *random.Random, biasFactor int) *Value[T] {
	r := pickBiasedRange(rnd, biasFactor, a.min, a.max)
	return NewValue(T(r.Generate(rnd)), nil)
}

func (a *IntegerArbitrary[T]) CanShrinkWithoutContext(value T) bool {
	v := int64(value)
	return a.min <= v && v <= a.max
}

func (a *IntegerArbitrary[T]) Shrink(value T, context any) *stream.Stream[*Value[T]] {
	current := int64(value)
	if !isValidIntegerContext(current, context) {
		return shrinkInteger[T](current, a.defaultTarget(), true)
	}
	lastPassing := context.(int64)
	if a.isLastChanceTry(current, lastPassing) {
		return stream.Of(NewValue(T(lastPassing), nil))
	}
	return shrinkInteger[T](current, lastPassing, false)
}

func (a *IntegerArbitrary[T]) String() string {
	return numericRange{a.min, a.max}.String()
}

// defaultTarget is the value shrinking aims for without prior knowledge.
func (a *IntegerArbitrary[T]) defaultTarget() int64 {
	if a.min <= 0 && a.max >= 0 {
		return 0
	}
	if a.min < 0 {
		return a.max
	}
	return a.min
}

// isLastChanceTry detects the end of a halving sequence: the current value is
// one step away from the last passing one. Re-offering the last passing value
// recovers from cases where the shrink of another arbitrary changed the
// outcome of the predicate in the meantime.
func (a *IntegerArbitrary[T]) isLastChanceTry(current, context int64) bool {
	if current > 0 {
		return current == context+1 && current > a.min
	}
	if current < 0 {
		return current == context-1 && current < a.max
	}
	return false
}

func isValidIntegerContext(current int64, context any) bool {
	if context == nil {
		return false
	}
	lastPassing, ok := context.(int64)
	if !ok {
		panic(fmt.Sprintf("invalid context type passed to IntegerArbitrary (#1): %T", context))
	}
	if lastPassing != 0 && sign(current) != sign(lastPassing) {
		panic(fmt.Sprintf("invalid context value passed to IntegerArbitrary (#2): %d for value %d", lastPassing, current))
	}
	return true
}

func sign(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// shrinkInteger produces values moving from current toward target, each one
// halving the remaining distance of the previous. Every value carries the
// value produced before it as context. If tryTargetAsap is set, target itself
// is offered first.
func shrinkInteger[T Int](current, target int64, tryTargetAsap bool) *stream.Stream[*Value[T]] {
	realGap := current - target
	var previous any
	toRemove := realGap
	if !tryTargetAsap {
		previous = target
		toRemove = realGap / 2 // rounds toward zero, i.e. floor for gaps > 0 and ceil for gaps < 0
	}
	return stream.New(func() (*Value[T], bool) {
		if (realGap > 0 && toRemove <= 0) || (realGap <= 0 && toRemove >= 0) {
			return nil, false
		}
		next := current - toRemove
		if toRemove == realGap {
			next = target
		}
		res := NewValue(T(next), previous)
		previous = next
		toRemove /= 2
		return res, true
	})
}
