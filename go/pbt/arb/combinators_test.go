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
	"errors"
	"math/big"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Fantom-foundation/pbt/go/common"
	"github.com/Fantom-foundation/pbt/go/pbt/random"
)

// box is a mutable value used to check the cloning policy of values.
type box struct {
	content []int
}

func (b *box) Clone() *box {
	return &box{content: slices.Clone(b.content)}
}

func boxOf(i int) *box {
	return &box{content: []int{i}}
}

func TestConstant_ShrinksTowardFirstValue(t *testing.T) {
	arb := Must(Constant("a", "b", "c"))
	rnd := random.New(1)
	for i := 0; i < 50; i++ {
		value := arb.Generate(rnd, 0)
		shrinks := valuesOf(arb.Shrink(value.Value(), value.Context()).ToSlice())
		if value.Raw() == "a" {
			require.Empty(t, shrinks)
		} else {
			require.Equal(t, []string{"a"}, shrinks)
		}
	}
	require.Equal(t, []string{"a"}, valuesOf(arb.Shrink("c", nil).ToSlice()))
	require.True(t, arb.CanShrinkWithoutContext("b"))
	require.False(t, arb.CanShrinkWithoutContext("d"))
}

func TestConstant_RequiresValues(t *testing.T) {
	_, err := Constant[int]()
	require.True(t, errors.Is(err, ErrMissingArbitrary))
}

func TestBoolean_ShrinksTowardFalse(t *testing.T) {
	arb := Boolean()
	require.Equal(t, []bool{false}, valuesOf(arb.Shrink(true, nil).ToSlice()))
	require.Empty(t, arb.Shrink(false, nil).ToSlice())

	rnd := random.New(2)
	seen := map[bool]bool{}
	for i := 0; i < 50; i++ {
		seen[arb.Generate(rnd, 0).Value()] = true
	}
	require.Len(t, seen, 2)
}

func TestMap_ShrinksThroughUnmapper(t *testing.T) {
	arb := Map[int, int](Must(Integer(0, 10)),
		func(i int) int { return 2 * i },
		func(i int) (int, bool) { return i / 2, i%2 == 0 },
	)
	require.Equal(t, []int{0, 8, 12, 14}, valuesOf(arb.Shrink(16, nil).ToSlice()))
	require.True(t, arb.CanShrinkWithoutContext(20))
	require.False(t, arb.CanShrinkWithoutContext(7))
	require.False(t, arb.CanShrinkWithoutContext(30))
}

func TestMap_ShrinksWithContextOfSource(t *testing.T) {
	arb := Map[int, int](Must(Integer(0, 10)), func(i int) int { return 2 * i }, nil)
	rnd := random.New(3)
	for i := 0; i < 20; i++ {
		value := arb.Generate(rnd, 0)
		for _, shrink := range arb.Shrink(value.Value(), value.Context()).ToSlice() {
			require.Less(t, shrink.Value(), value.Raw())
			require.Zero(t, shrink.Value()%2)
		}
	}
	require.Empty(t, arb.Shrink(8, nil).ToSlice())
	require.False(t, arb.CanShrinkWithoutContext(8))
}

func TestMap_PanickingUnmapperRejectsValue(t *testing.T) {
	arb := Map[int, []int](Must(Integer(0, 10)),
		func(i int) []int { return []int{i} },
		func(s []int) (int, bool) { return s[0], true },
	)
	require.False(t, arb.CanShrinkWithoutContext(nil))
	require.True(t, arb.CanShrinkWithoutContext([]int{3}))
}

func TestMap_ClonesMutableValues(t *testing.T) {
	arb := Map[int, *box](Must(Integer(0, 10)), boxOf, nil)
	value := arb.Generate(random.New(4), 0)
	require.True(t, value.HasToBeCloned())

	first := value.Value()
	second := value.Value()
	require.NotSame(t, first, second)
	second.content[0] = 42
	third := value.Value()
	require.NotSame(t, second, third)
	require.Equal(t, first.content, third.content)
}

func TestFilter_OnlyProducesAcceptedValues(t *testing.T) {
	even := func(i int) bool { return i%2 == 0 }
	arb := Filter[int](Must(Integer(0, 100)), even)
	rnd := random.New(5)
	for i := 0; i < 100; i++ {
		require.True(t, even(arb.Generate(rnd, 1).Value()))
	}
	require.Equal(t, []int{0, 4, 6}, valuesOf(arb.Shrink(8, nil).ToSlice()))
	require.False(t, arb.CanShrinkWithoutContext(7))
}

func TestFilter_KeepsFirstReadOfGeneratedValues(t *testing.T) {
	arb := Filter[*box](Map[int, *box](Must(Integer(0, 10)), boxOf, nil), func(b *box) bool { return b.content[0]%2 == 0 })
	value := arb.Generate(random.New(6), 0)
	require.True(t, value.HasToBeCloned())
	require.Same(t, value.Raw(), value.Value())

	for _, shrink := range arb.Shrink(value.Value(), value.Context()).ToSlice() {
		require.Same(t, shrink.Raw(), shrink.Value())
	}
}

func TestNoShrink_NeverShrinks(t *testing.T) {
	arb := NoShrink[int](Must(Integer(0, 100)))
	require.Empty(t, arb.Shrink(50, nil).ToSlice())
	require.True(t, arb.CanShrinkWithoutContext(50))
}

func TestNoBias_IgnoresBiasFactor(t *testing.T) {
	biased := Must(Integer(0, 1<<40))
	unbiased := NoBias[int](biased)
	a, b := random.New(6), random.New(6)
	for i := 0; i < 20; i++ {
		require.Equal(t, biased.Generate(a, 0).Value(), unbiased.Generate(b, 1).Value())
	}
}

func TestTuple_ShrinksOneSlotAtATime(t *testing.T) {
	arb := Must(Tuple2[int, int](Must(Integer(0, 10)), Must(Integer(0, 10))))
	got := valuesOf(arb.Shrink(Pair[int, int]{2, 3}, nil).ToSlice())
	want := []Pair[int, int]{{0, 3}, {1, 3}, {2, 0}, {2, 2}}
	require.Equal(t, want, got)
}

func TestTuple_SlotsKeepTheirContexts(t *testing.T) {
	arb := Must(Tuple(Erase[int](Must(Integer(0, 10))), Erase[string](Must(Constant("x", "y")))))
	rnd := random.New(7)
	for i := 0; i < 20; i++ {
		value := arb.Generate(rnd, 0)
		require.Len(t, value.Raw(), 2)
		for _, shrink := range arb.Shrink(value.Value(), value.Context()).ToSlice() {
			require.True(t, arb.CanShrinkWithoutContext(shrink.Value()))
		}
	}
	require.False(t, arb.CanShrinkWithoutContext([]any{1}))
	require.False(t, arb.CanShrinkWithoutContext([]any{"x", 1}))
}

func TestTuple_ClonesMutableSlots(t *testing.T) {
	arb := Must(Tuple2[*box, int](Map[int, *box](Must(Integer(0, 10)), boxOf, nil), Must(Integer(0, 10))))
	value := arb.Generate(random.New(8), 0)
	require.True(t, value.HasToBeCloned())

	first := value.Value()
	second := value.Value()
	require.NotSame(t, first.First, second.First)
	second.First.content[0] = 42
	third := value.Value()
	require.Equal(t, first.First.content, third.First.content)
}

func TestTuple_MissingSlotIsRejected(t *testing.T) {
	_, err := Tuple(Erase[int](Must(Integer(0, 1))), nil)
	require.ErrorIs(t, err, ErrMissingArbitrary)
	_, err = Tuple2[int, int](Must(Integer(0, 1)), nil)
	require.ErrorIs(t, err, ErrMissingArbitrary)
}

func TestLetrec_BuildsMutuallyRecursiveArbitraries(t *testing.T) {
	arbs := Letrec(func(tie func(string) Arbitrary[int]) map[string]Arbitrary[int] {
		return map[string]Arbitrary[int]{
			"even": Must(OneOf([]Arbitrary[int]{
				Must(Constant(0)),
				Map[int, int](tie("odd"), func(i int) int { return i + 1 }, nil),
			}, MaxDepth(6))),
			"odd": Map[int, int](tie("even"), func(i int) int { return i + 1 }, nil),
		}
	})
	rnd := random.New(9)
	for i := 0; i < 100; i++ {
		require.Zero(t, arbs["even"].Generate(rnd, 0).Value()%2)
		require.Equal(t, 1, arbs["odd"].Generate(rnd, 0).Value()%2)
	}
}

func TestLetrec_UnresolvedPlaceholderPanics(t *testing.T) {
	arbs := Letrec(func(tie func(string) Arbitrary[int]) map[string]Arbitrary[int] {
		return map[string]Arbitrary[int]{"a": tie("missing")}
	})
	require.PanicsWithValue(t, `lazy arbitrary "missing" not correctly initialized`, func() {
		arbs["a"].Generate(random.New(10), 0)
	})
}

func TestMemo_BoundsDepthAndCachesArbitraries(t *testing.T) {
	scope := NewMemoScope()
	var tree *Memo[int]
	tree = NewMemo(scope, func(maxDepth int) Arbitrary[int] {
		leaf := Must(Constant(1))
		if maxDepth <= 1 {
			return leaf
		}
		node := Map[Pair[int, int], int](Must(Tuple2(tree.Get(), tree.Get())),
			func(p Pair[int, int]) int { return 1 + max(p.First, p.Second) }, nil)
		return Must(OneOf([]Arbitrary[int]{leaf, node}))
	})

	arb := tree.At(3)
	require.Same(t, arb, tree.At(3))
	require.Equal(t, DefaultMemoDepth, scope.RemainingDepth())

	rnd := random.New(11)
	for i := 0; i < 100; i++ {
		require.LessOrEqual(t, arb.Generate(rnd, 0).Value(), 3)
	}
}

func TestBigInt_ShrinksLikeIntegers(t *testing.T) {
	arb := Must(BigInt(big.NewInt(0), big.NewInt(10)))
	got := []int64{}
	for _, v := range valuesOf(arb.Shrink(big.NewInt(8), nil).ToSlice()) {
		got = append(got, v.Int64())
	}
	require.Equal(t, []int64{0, 4, 6, 7}, got)

	_, err := BigInt(big.NewInt(1), big.NewInt(0))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestU256_CoversRangeAndShrinksTowardZero(t *testing.T) {
	arb := U256()
	rnd := random.New(12)
	for i := 0; i < 50; i++ {
		value := arb.Generate(rnd, 1)
		for _, shrink := range arb.Shrink(value.Value(), value.Context()).Take(10).ToSlice() {
			require.True(t, shrink.Value().Lt(value.Raw()))
		}
	}
	first, ok := arb.Shrink(common.MaxU256(), nil).Next()
	require.True(t, ok)
	require.True(t, first.Value().IsZero())
}
