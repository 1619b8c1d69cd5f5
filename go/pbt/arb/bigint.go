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
	"math/big"

	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// BigIntArbitrary generates arbitrary precision integers of the inclusive
// range [min, max]. It shrinks like IntegerArbitrary; contexts are *big.Int.
// Generated values are fresh instances and must be treated as immutable.
type BigIntArbitrary struct {
	min, max *big.Int
}

func BigInt(min, max *big.Int) (*BigIntArbitrary, error) {
	if min == nil || max == nil {
		return nil, fmt.Errorf("%w, big integer range requires both bounds", ErrInvalidRange)
	}
	if min.Cmp(max) > 0 {
		return nil, fmt.Errorf("%w, big integer range [%v,%v] is empty", ErrInvalidRange, min, max)
	}
	return &BigIntArbitrary{min: new(big.Int).Set(min), max: new(big.Int).Set(max)}, nil
}

func (a *BigIntArbitrary) Generate(rnd *random.Random, biasFactor int) *Value[*big.Int] {
	r := pickBiasedBigRange(rnd, biasFactor, a.min, a.max)
	return NewValue(rnd.NextBigInt(r.min, r.max), nil)
}

func (a *BigIntArbitrary) CanShrinkWithoutContext(value *big.Int) bool {
	return value != nil && a.min.Cmp(value) <= 0 && value.Cmp(a.max) <= 0
}

func (a *BigIntArbitrary) Shrink(value *big.Int, context any) *stream.Stream[*Value[*big.Int]] {
	if !isValidBigIntContext(value, context) {
		return shrinkBigInt(value, a.defaultTarget(), true)
	}
	lastPassing := context.(*big.Int)
	if a.isLastChanceTry(value, lastPassing) {
		return stream.Of(NewValue(new(big.Int).Set(lastPassing), nil))
	}
	return shrinkBigInt(value, lastPassing, false)
}

func (a *BigIntArbitrary) String() string {
	return bigRange{a.min, a.max}.String()
}

func (a *BigIntArbitrary) defaultTarget() *big.Int {
	if a.min.Sign() <= 0 && a.max.Sign() >= 0 {
		return new(big.Int)
	}
	if a.min.Sign() < 0 {
		return a.max
	}
	return a.min
}

func (a *BigIntArbitrary) isLastChanceTry(current, context *big.Int) bool {
	switch current.Sign() {
	case 1:
		next := new(big.Int).Add(context, big.NewInt(1))
		return current.Cmp(next) == 0 && current.Cmp(a.min) > 0
	case -1:
		next := new(big.Int).Sub(context, big.NewInt(1))
		return current.Cmp(next) == 0 && current.Cmp(a.max) < 0
	}
	return false
}

func isValidBigIntContext(current *big.Int, context any) bool {
	if context == nil {
		return false
	}
	lastPassing, ok := context.(*big.Int)
	if !ok {
		panic(fmt.Sprintf("invalid context type passed to BigIntArbitrary (#1): %T", context))
	}
	if lastPassing.Sign() != 0 && current.Sign() != lastPassing.Sign() {
		panic(fmt.Sprintf("invalid context value passed to BigIntArbitrary (#2): %v for value %v", lastPassing, current))
	}
	return true
}

func shrinkBigInt(current, target *big.Int, tryTargetAsap bool) *stream.Stream[*Value[*big.Int]] {
	realGap := new(big.Int).Sub(current, target)
	gapSign := realGap.Sign()
	var previous any
	toRemove := new(big.Int).Set(realGap)
	if !tryTargetAsap {
		previous = target
		toRemove.Quo(toRemove, big.NewInt(2))
	}
	two := big.NewInt(2)
	return stream.New(func() (*Value[*big.Int], bool) {
		if (gapSign > 0 && toRemove.Sign() <= 0) || (gapSign <= 0 && toRemove.Sign() >= 0) {
			return nil, false
		}
		var next *big.Int
		if toRemove.Cmp(realGap) == 0 {
			next = new(big.Int).Set(target)
		} else {
			next = new(big.Int).Sub(current, toRemove)
		}
		res := NewValue(next, previous)
		previous = next
		toRemove = new(big.Int).Quo(toRemove, two)
		return res, true
	})
}
