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
	"math"

	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// WeightedArbitrary is one branch of a FrequencyArbitrary.
type WeightedArbitrary[T any] struct {
	Weight    int
	Arbitrary Arbitrary[T]
	// Fallback, if set on the first branch, is offered as the first shrink
	// of values from other branches shrunk without context and with cross
	// shrinking enabled.
	Fallback *T
}

// FrequencyArbitrary picks one of several arbitraries with a probability
// proportional to its weight. The first branch is considered the simplest:
// the deeper the recursion, the more it is favored, and at the maximal depth
// it is the only one used.
type FrequencyArbitrary[T any] struct {
	warbs            []WeightedArbitrary[T]
	cumulatedWeights []int64
	totalWeight      int64
	maxDepth         int
	depthBias        float64
	withCrossShrink  bool
	context          *DepthContext
}

// frequencyContext is the shrink context of values of a FrequencyArbitrary.
type frequencyContext struct {
	selectedIndex   int
	originalBias    int
	originalContext any
	// fallbackRnd is a clone of the random state taken right after generating
	// the value. It is only read through further clones.
	fallbackRnd *random.Random
}

const maxSafeInteger = 1<<53 - 1

// Frequency creates a weighted choice among warbs. Supported options are
// MaxDepth, DepthFactor, DepthSize, WithCrossShrink, and WithDepthContext.
func Frequency[T any](warbs []WeightedArbitrary[T], opts ...Option) (*FrequencyArbitrary[T], error) {
	if len(warbs) == 0 {
		return nil, fmt.Errorf("%w, frequency expects at least one weighted arbitrary", ErrMissingArbitrary)
	}
	cumulated := make([]int64, 0, len(warbs))
	total := int64(0)
	for i, warb := range warbs {
		if warb.Arbitrary == nil {
			return nil, fmt.Errorf("%w, frequency branch %d has no arbitrary", ErrMissingArbitrary, i)
		}
		if warb.Weight < 0 {
			return nil, fmt.Errorf("%w, weight of branch %d is negative: %d", ErrInvalidWeights, i, warb.Weight)
		}
		total += int64(warb.Weight)
		cumulated = append(cumulated, total)
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w, the sum of weights must be positive", ErrInvalidWeights)
	}

	o := collectOptions(opts)
	maxDepth := math.MaxInt
	if o.maxDepth != nil {
		maxDepth = *o.maxDepth
	}
	return &FrequencyArbitrary[T]{
		warbs:            warbs,
		cumulatedWeights: cumulated,
		totalWeight:      total,
		maxDepth:         maxDepth,
		depthBias:        o.resolveDepthBias(),
		withCrossShrink:  o.withCrossShrink,
		context:          o.depthContextOrNew(),
	}, nil
}

// OneOf creates a choice among arbs with equal weights. It accepts the
// options of Frequency.
func OneOf[T any](arbs []Arbitrary[T], opts ...Option) (*FrequencyArbitrary[T], error) {
	warbs := make([]WeightedArbitrary[T], 0, len(arbs))
	for _, arb := range arbs {
		warbs = append(warbs, WeightedArbitrary[T]{Weight: 1, Arbitrary: arb})
	}
	return Frequency(warbs, opts...)
}

func (f *FrequencyArbitrary[T]) Generate(rnd *random.Random, biasFactor int) *Value[T] {
	if f.mustGenerateFirst() {
		return f.generateForIndex(rnd, 0, biasFactor)
	}
	selected := rnd.NextInt(f.negativeDepthBenefit(), f.totalWeight-1)
	for idx, cumulated := range f.cumulatedWeights {
		if selected < cumulated {
			return f.generateForIndex(rnd, idx, biasFactor)
		}
	}
	panic(fmt.Sprintf("unable to generate from frequency arbitrary, selected %d of %d", selected, f.totalWeight))
}

func (f *FrequencyArbitrary[T]) CanShrinkWithoutContext(value T) bool {
	return f.canShrinkWithoutContextIndex(value) != -1
}

func (f *FrequencyArbitrary[T]) Shrink(value T, context any) *stream.Stream[*Value[T]] {
	if ctx, ok := context.(*frequencyContext); ok {
		original := stream.Map(f.warbs[ctx.selectedIndex].Arbitrary.Shrink(value, ctx.originalContext), func(v *Value[T]) *Value[T] {
			return f.mapIntoValue(ctx.selectedIndex, v, nil, ctx.originalBias)
		})
		if ctx.fallbackRnd == nil {
			return original
		}
		fromFirst := stream.Lazy(func() *stream.Stream[*Value[T]] {
			return stream.Of(f.generateForIndex(ctx.fallbackRnd.Clone(), 0, ctx.originalBias))
		})
		return fromFirst.Join(original)
	}

	idx := f.canShrinkWithoutContextIndex(value)
	if idx == -1 {
		return stream.Nil[*Value[T]]()
	}
	return f.defaultShrinkForFirst(idx).Join(stream.Map(f.warbs[idx].Arbitrary.Shrink(value, nil), func(v *Value[T]) *Value[T] {
		return f.mapIntoValue(idx, v, nil, 0)
	}))
}

func (f *FrequencyArbitrary[T]) defaultShrinkForFirst(selectedIndex int) *stream.Stream[*Value[T]] {
	if !f.mustFallbackToFirstInShrink(selectedIndex) || f.warbs[0].Fallback == nil {
		return stream.Nil[*Value[T]]()
	}
	return stream.Of(f.mapIntoValue(0, NewValue(*f.warbs[0].Fallback, nil), nil, 0))
}

// canShrinkWithoutContextIndex returns the first branch accepting value, or
// -1 if there is none.
func (f *FrequencyArbitrary[T]) canShrinkWithoutContextIndex(value T) int {
	if f.mustGenerateFirst() {
		if f.warbs[0].Arbitrary.CanShrinkWithoutContext(value) {
			return 0
		}
		return -1
	}
	defer f.context.Descend(1)()
	for idx, warb := range f.warbs {
		if warb.Weight != 0 && warb.Arbitrary.CanShrinkWithoutContext(value) {
			return idx
		}
	}
	return -1
}

func (f *FrequencyArbitrary[T]) generateForIndex(rnd *random.Random, idx int, biasFactor int) *Value[T] {
	defer f.context.Descend(1)()
	value := f.warbs[idx].Arbitrary.Generate(rnd, biasFactor)
	var fallbackRnd *random.Random
	if f.mustFallbackToFirstInShrink(idx) {
		fallbackRnd = rnd.Clone()
	}
	return f.mapIntoValue(idx, value, fallbackRnd, biasFactor)
}

func (f *FrequencyArbitrary[T]) mapIntoValue(idx int, value *Value[T], fallbackRnd *random.Random, biasFactor int) *Value[T] {
	return withContext(value, &frequencyContext{
		selectedIndex:   idx,
		originalBias:    biasFactor,
		originalContext: value.Context(),
		fallbackRnd:     fallbackRnd,
	})
}

func (f *FrequencyArbitrary[T]) mustGenerateFirst() bool {
	return f.maxDepth <= f.context.Depth()
}

func (f *FrequencyArbitrary[T]) mustFallbackToFirstInShrink(idx int) bool {
	return idx != 0 && f.withCrossShrink && f.warbs[0].Weight != 0
}

// negativeDepthBenefit is the lower bound of the weight draw. Below zero, it
// extends the range of the first branch in proportion to the current depth.
func (f *FrequencyArbitrary[T]) negativeDepthBenefit() int64 {
	if f.depthBias <= 0 || f.warbs[0].Weight == 0 {
		return 0
	}
	benefit := math.Floor(math.Pow(1+f.depthBias, float64(f.context.Depth()))) - 1
	return -int64(math.Min(float64(f.totalWeight)*benefit, maxSafeInteger))
}
