// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"math"

	"github.com/Fantom-foundation/pbt/go/common"
	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"github.com/Fantom-foundation/pbt/go/pbt/check"
	"github.com/Fantom-foundation/pbt/go/pbt/random"
)

// selfChecks is the suite of properties the engine has to satisfy when
// applied to its own arbitraries.
var selfChecks = []selfCheck{
	newSelfCheck("integer/generated-within-bounds", integerGeneratedWithinBounds),
	newSelfCheck("integer/shrinks-toward-target", integerShrinksTowardTarget),
	newSelfCheck("array/length-within-limits", arrayLengthWithinLimits),
	newSelfCheck("array/unique-has-no-duplicates", uniqueArrayHasNoDuplicates),
	newSelfCheck("frequency/recursion-terminates", frequencyRecursionTerminates),
	newSelfCheck("tuple/shrinks-one-slot-at-a-time", tupleShrinksOneSlotAtATime),
	newSelfCheck("u256/arithmetic-laws", u256ArithmeticLaws),
	newSelfCheck("memo/tree-height-bounded", memoTreeHeightBounded),
	newSelfCheck("random/clone-replays", randomCloneReplays),
}

const (
	numGenerated = 20
	numShrinks   = 64
)

type boundsCase = arb.Triple[int64, int64, int64] // < min, width, seed
type depthCase = arb.Pair[int, int64]             // < depth, seed

func seeds() arb.Arbitrary[int64] {
	return arb.Must(arb.Integer[int64](0, math.MaxInt64))
}

func boundsCases() arb.Arbitrary[boundsCase] {
	return arb.Must(arb.Tuple3[int64, int64, int64](
		arb.Must(arb.Integer[int64](-1_000_000, 1_000_000)),
		arb.Must(arb.Integer[int64](0, 1_000_000)),
		seeds(),
	))
}

func depthCases(min, max int) arb.Arbitrary[depthCase] {
	return arb.Must(arb.Tuple2[int, int64](arb.Must(arb.Integer(min, max)), seeds()))
}

func integerGeneratedWithinBounds() check.Property[boundsCase] {
	return check.ForAll(boundsCases(), func(in boundsCase) error {
		min, max := in.First, in.First+in.Second
		integer, err := arb.Integer(min, max)
		if err != nil {
			return err
		}
		rnd := random.New(uint64(in.Third))
		for biasFactor := 0; biasFactor < numGenerated; biasFactor++ {
			if value := integer.Generate(rnd, biasFactor).Value(); value < min || value > max {
				return fmt.Errorf("generated %d outside of [%d,%d]", value, min, max)
			}
		}
		return nil
	})
}

func integerShrinksTowardTarget() check.Property[boundsCase] {
	return check.ForAll(boundsCases(), func(in boundsCase) error {
		min, max := in.First, in.First+in.Second
		integer, err := arb.Integer(min, max)
		if err != nil {
			return err
		}
		target := int64(0)
		if min > 0 {
			target = min
		} else if max < 0 {
			target = max
		}
		distance := func(v int64) int64 {
			if v < target {
				return target - v
			}
			return v - target
		}

		value := integer.Generate(random.New(uint64(in.Third)), 2).Value()
		for _, shrink := range integer.Shrink(value, nil).Take(numShrinks).ToSlice() {
			candidate := shrink.Value()
			if candidate < min || candidate > max {
				return fmt.Errorf("shrink %d of %d outside of [%d,%d]", candidate, value, min, max)
			}
			if distance(candidate) >= distance(value) {
				return fmt.Errorf("shrink %d of %d is not closer to %d", candidate, value, target)
			}
		}
		return nil
	})
}

func arrayLengthWithinLimits() check.Property[boundsCase] {
	cases := arb.Must(arb.Tuple3[int64, int64, int64](
		arb.Must(arb.Integer[int64](0, 10)),
		arb.Must(arb.Integer[int64](0, 10)),
		seeds(),
	))
	return check.ForAll(cases, func(in boundsCase) error {
		minLength, maxLength := int(in.First), int(in.First+in.Second)
		array, err := arb.Array[int](
			arb.Must(arb.Integer(0, 9)),
			arb.MinLength(minLength),
			arb.MaxLength(maxLength),
		)
		if err != nil {
			return err
		}
		rnd := random.New(uint64(in.Third))
		for i := 0; i < numGenerated; i++ {
			value := array.Generate(rnd, i)
			if got := len(value.Raw()); got < minLength || got > maxLength {
				return fmt.Errorf("generated length %d outside of [%d,%d]", got, minLength, maxLength)
			}
			for _, shrink := range array.Shrink(value.Value(), value.Context()).Take(numShrinks).ToSlice() {
				if got := len(shrink.Raw()); got < minLength || got > maxLength {
					return fmt.Errorf("shrunk length %d outside of [%d,%d]", got, minLength, maxLength)
				}
			}
		}
		return nil
	})
}

func uniqueArrayHasNoDuplicates() check.Property[[]int] {
	array := arb.Must(arb.UniqueArray[int, int](
		arb.Must(arb.Integer(0, 50)),
		func(v int) int { return v },
		arb.MaxLength(30),
	))
	return check.ForAll[[]int](array, func(values []int) error {
		seen := map[int]bool{}
		for _, v := range values {
			if seen[v] {
				return fmt.Errorf("duplicate %d in %v", v, values)
			}
			seen[v] = true
		}
		return nil
	})
}

// heightOf maps a list of child heights to the height of their parent.
func heightOf(children []int) int {
	res := 0
	for _, child := range children {
		res = max(res, child)
	}
	return res + 1
}

func frequencyRecursionTerminates() check.Property[depthCase] {
	return check.ForAll(depthCases(0, 6), func(in depthCase) error {
		ctx := arb.NewDepthContext()
		trees := arb.Letrec(func(tie func(string) arb.Arbitrary[int]) map[string]arb.Arbitrary[int] {
			node := arb.Map[[]int, int](arb.Must(arb.Array(tie("tree"), arb.MaxLength(3))), heightOf, nil)
			return map[string]arb.Arbitrary[int]{
				"tree": arb.Must(arb.Frequency([]arb.WeightedArbitrary[int]{
					{Weight: 1, Arbitrary: arb.Must(arb.Constant(0))},
					{Weight: 3, Arbitrary: node},
				}, arb.MaxDepth(in.First), arb.WithDepthContext(ctx))),
			}
		})
		rnd := random.New(uint64(in.Second))
		for i := 0; i < numGenerated; i++ {
			if height := trees["tree"].Generate(rnd, 0).Value(); height > in.First {
				return fmt.Errorf("tree of height %d exceeds max depth %d", height, in.First)
			}
		}
		if depth := ctx.Depth(); depth != 0 {
			return fmt.Errorf("depth context not restored, got %d", depth)
		}
		return nil
	})
}

func tupleShrinksOneSlotAtATime() check.Property[arb.Pair[int, int]] {
	slot := arb.Must(arb.Integer(0, 1000))
	tuple := arb.Must(arb.Tuple2[int, int](slot, slot))
	return check.ForAll(tuple, func(in arb.Pair[int, int]) error {
		for _, shrink := range tuple.Shrink(in, nil).Take(numShrinks).ToSlice() {
			candidate := shrink.Value()
			firstChanged := candidate.First != in.First
			secondChanged := candidate.Second != in.Second
			if firstChanged == secondChanged {
				return fmt.Errorf("shrink %v of %v does not change exactly one slot", candidate, in)
			}
			if candidate.First > in.First || candidate.Second > in.Second {
				return fmt.Errorf("shrink %v of %v grows a slot", candidate, in)
			}
		}
		return nil
	})
}

func u256ArithmeticLaws() check.Property[arb.Triple[common.U256, common.U256, common.U256]] {
	operands := arb.Must(arb.Tuple3[common.U256, common.U256, common.U256](arb.U256(), arb.U256(), arb.U256()))
	return check.ForAll(operands, func(in arb.Triple[common.U256, common.U256, common.U256]) error {
		a, b, c := in.First, in.Second, in.Third
		if !a.Add(b).Eq(b.Add(a)) {
			return fmt.Errorf("addition of %v and %v is not commutative", a, b)
		}
		if !a.Add(b).Sub(b).Eq(a) {
			return fmt.Errorf("subtraction of %v does not revert addition to %v", b, a)
		}
		if !a.Mul(b.Add(c)).Eq(a.Mul(b).Add(a.Mul(c))) {
			return fmt.Errorf("multiplication of %v does not distribute over %v + %v", a, b, c)
		}
		if !b.IsZero() && !a.Div(b).Mul(b).Add(a.Mod(b)).Eq(a) {
			return fmt.Errorf("division of %v by %v loses its remainder", a, b)
		}
		return nil
	})
}

func memoTreeHeightBounded() check.Property[depthCase] {
	return check.ForAll(depthCases(1, 6), func(in depthCase) error {
		scope := arb.NewMemoScope()
		var tree *arb.Memo[int]
		tree = arb.NewMemo(scope, func(maxDepth int) arb.Arbitrary[int] {
			leaf := arb.Must(arb.Constant(1))
			if maxDepth <= 1 {
				return leaf
			}
			node := arb.Map[arb.Pair[int, int], int](arb.Must(arb.Tuple2(tree.Get(), tree.Get())),
				func(p arb.Pair[int, int]) int { return 1 + max(p.First, p.Second) }, nil)
			return arb.Must(arb.OneOf([]arb.Arbitrary[int]{leaf, node}))
		})
		trees := tree.At(in.First)
		rnd := random.New(uint64(in.Second))
		for i := 0; i < numGenerated; i++ {
			if height := trees.Generate(rnd, 0).Value(); height > in.First {
				return fmt.Errorf("tree of height %d exceeds max depth %d", height, in.First)
			}
		}
		return nil
	})
}

func randomCloneReplays() check.Property[int64] {
	return check.ForAll(seeds(), func(seed int64) error {
		rnd := random.New(uint64(seed))
		rnd.NextInt(0, 100)
		clone := rnd.Clone()
		for i := 0; i < numGenerated; i++ {
			if want, got := rnd.NextInt(-1e9, 1e9), clone.NextInt(-1e9, 1e9); want != got {
				return fmt.Errorf("clone diverged at draw %d, wanted %d, got %d", i, want, got)
			}
		}
		return nil
	})
}
