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

// ArrayArbitrary generates slices of items produced by an item arbitrary.
type ArrayArbitrary[T any] struct {
	item               Arbitrary[T]
	minLength          int
	maxGeneratedLength int
	maxLength          int
	lengthArb          *IntegerArbitrary[int]
	depthContext       *DepthContext
	setBuilder         func() CustomSet[T]
}

// arrayContext is the shrink context of generated slices.
type arrayContext struct {
	shrunkOnce    bool
	lengthContext any   // < context of the length, if the length was shrunk
	itemsContexts []any // < one per item, may be shorter than the slice
	startIndex    int   // < first item considered for item-wise shrinking
}

func (c *arrayContext) itemContext(i int) any {
	if i < len(c.itemsContexts) {
		return c.itemsContexts[i]
	}
	return nil
}

// arrayCandidate is an intermediate shrink result before being wrapped into
// a Value.
type arrayCandidate[T any] struct {
	items         []*Value[T]
	lengthContext any
	startIndex    int
}

// Array creates an arbitrary for slices of item. Supported options are
// MinLength, MaxLength, MaxGeneratedLength, WithSize, and WithDepthContext.
func Array[T any](item Arbitrary[T], opts ...Option) (*ArrayArbitrary[T], error) {
	return newArray(item, nil, opts)
}

func newArray[T any](item Arbitrary[T], setBuilder func() CustomSet[T], opts []Option) (*ArrayArbitrary[T], error) {
	if item == nil {
		return nil, fmt.Errorf("%w, array requires an item arbitrary", ErrMissingArbitrary)
	}
	o := collectOptions(opts)
	minLength := o.minLength
	maxLength := MaxLengthUpperBound
	if o.maxLength != nil {
		maxLength = *o.maxLength
	}
	if minLength < 0 || minLength > maxLength || maxLength > MaxLengthUpperBound {
		return nil, fmt.Errorf("%w, length range [%d,%d]", ErrInvalidLength, minLength, maxLength)
	}
	maxGeneratedLength := o.resolveMaxGeneratedLength(minLength, maxLength)
	if maxGeneratedLength < minLength || maxGeneratedLength > maxLength {
		return nil, fmt.Errorf("%w, generated length limit %d outside of [%d,%d]", ErrInvalidLength, maxGeneratedLength, minLength, maxLength)
	}
	lengthArb, err := Integer(minLength, maxGeneratedLength)
	if err != nil {
		return nil, err
	}
	return &ArrayArbitrary[T]{
		item:               item,
		minLength:          minLength,
		maxGeneratedLength: maxGeneratedLength,
		maxLength:          maxLength,
		lengthArb:          lengthArb,
		depthContext:       o.depthContextOrNew(),
		setBuilder:         setBuilder,
	}, nil
}

func (a *ArrayArbitrary[T]) Generate(rnd *random.Random, biasFactor int) *Value[[]T] {
	size, itemsBiasFactor := a.applyBias(rnd, biasFactor)
	var items []*Value[T]
	if a.setBuilder != nil {
		items = a.generateNItemsNoDuplicates(size, rnd, itemsBiasFactor)
	} else {
		items = a.generateNItems(size, rnd, itemsBiasFactor)
	}
	return a.wrap(items, false, nil, 0)
}

// applyBias picks the length of the next slice and the bias factor for its
// items. Biased runs prefer short slices, up to a log-scaled limit.
func (a *ArrayArbitrary[T]) applyBias(rnd *random.Random, biasFactor int) (int, int) {
	if biasFactor <= 0 {
		return a.lengthArb.Generate(rnd, 0).Value(), 0
	}
	if a.minLength == a.maxGeneratedLength {
		return a.lengthArb.Generate(rnd, 0).Value(), biasFactor
	}
	if rnd.NextInt(1, int64(biasFactor)) != 1 {
		return a.lengthArb.Generate(rnd, 0).Value(), 0
	}
	if rnd.NextInt(1, int64(biasFactor)) != 1 {
		return a.lengthArb.Generate(rnd, 0).Value(), biasFactor
	}
	maxBiasedLength := biasedMaxLength(a.minLength, a.maxGeneratedLength)
	return int(rnd.NextInt(int64(a.minLength), int64(maxBiasedLength))), biasFactor
}

// depthImpact is the amount by which the depth grows while generating n
// items. Lengths within the biased limit have no impact.
func (a *ArrayArbitrary[T]) depthImpact(n int) int {
	return max(0, n-biasedMaxLength(a.minLength, a.maxGeneratedLength))
}

func (a *ArrayArbitrary[T]) generateNItems(n int, rnd *random.Random, biasFactor int) []*Value[T] {
	defer a.depthContext.Descend(a.depthImpact(n))()
	items := make([]*Value[T], 0, n)
	for i := 0; i < n; i++ {
		items = append(items, a.item.Generate(rnd, biasFactor))
	}
	return items
}

func (a *ArrayArbitrary[T]) generateNItemsNoDuplicates(n int, rnd *random.Random, biasFactor int) []*Value[T] {
	defer a.depthContext.Descend(a.depthImpact(n))()
	set := a.setBuilder()
	skippedInRow := 0
	for set.Size() < n && skippedInRow < n {
		if set.TryAdd(a.item.Generate(rnd, biasFactor)) {
			skippedInRow = 0
		} else {
			skippedInRow++
		}
	}
	return set.Data()
}

// preFilter drops duplicated items for arrays with a uniqueness constraint.
func (a *ArrayArbitrary[T]) preFilter(items []*Value[T]) []*Value[T] {
	if a.setBuilder == nil {
		return items
	}
	set := a.setBuilder()
	for _, item := range items {
		set.TryAdd(item)
	}
	return set.Data()
}

func (a *ArrayArbitrary[T]) wrap(itemsRaw []*Value[T], shrunkOnce bool, lengthContext any, startIndex int) *Value[[]T] {
	items := itemsRaw
	if shrunkOnce {
		items = a.preFilter(itemsRaw)
	}
	cloneable := false
	values := make([]T, len(items))
	contexts := make([]any, len(items))
	for i, item := range items {
		cloneable = cloneable || item.HasToBeCloned()
		values[i] = item.Value()
		contexts[i] = item.Context()
	}
	context := &arrayContext{
		shrunkOnce:    shrunkOnce,
		itemsContexts: contexts,
		startIndex:    startIndex,
	}
	if len(itemsRaw) == len(items) {
		context.lengthContext = lengthContext
	}
	if !cloneable {
		return NewValueWithCloner(values, context, nil)
	}
	return NewValueWithCloner(values, context, func() []T {
		res := make([]T, len(items))
		for i, item := range items {
			res[i] = item.Value()
		}
		return res
	})
}

func (a *ArrayArbitrary[T]) CanShrinkWithoutContext(value []T) bool {
	if len(value) < a.minLength || len(value) > a.maxLength {
		return false
	}
	for _, item := range value {
		if !a.item.CanShrinkWithoutContext(item) {
			return false
		}
	}
	if a.setBuilder == nil {
		return true
	}
	items := make([]*Value[T], len(value))
	for i, item := range value {
		items[i] = NewValue(item, nil)
	}
	return len(a.preFilter(items)) == len(value)
}

// Shrink first reduces the length of the slice (keeping its tail), then
// shrinks the first item, and finally recurses on the slice without its first
// item. Lengths never go below the minimal length, including candidates
// losing items to the uniqueness constraint.
func (a *ArrayArbitrary[T]) Shrink(value []T, context any) *stream.Stream[*Value[[]T]] {
	ctx, _ := context.(*arrayContext)
	return stream.Map(a.shrinkImpl(value, ctx), func(c arrayCandidate[T]) *Value[[]T] {
		return a.wrap(c.items, true, c.lengthContext, c.startIndex)
	}).Filter(func(v *Value[[]T]) bool {
		return len(v.Raw()) >= a.minLength
	})
}

func (a *ArrayArbitrary[T]) shrinkImpl(value []T, context *arrayContext) *stream.Stream[arrayCandidate[T]] {
	if len(value) == 0 {
		return stream.Nil[arrayCandidate[T]]()
	}
	if context == nil {
		context = &arrayContext{}
	}

	// The first length shrink of a slice shrunk before without length context
	// is the length it was derived from, which is known to pass.
	drop := 0
	if context.shrunkOnce && context.lengthContext == nil && len(value) > a.minLength+1 {
		drop = 1
	}
	lengths := stream.Map(a.lengthArb.Shrink(len(value), context.lengthContext).Drop(drop), func(length *Value[int]) arrayCandidate[T] {
		sliceStart := len(value) - length.Value()
		items := make([]*Value[T], 0, len(value)-sliceStart)
		for i := sliceStart; i < len(value); i++ {
			items = append(items, NewValue(cloneIfNeeded(value[i]), context.itemContext(i)))
		}
		return arrayCandidate[T]{items: items, lengthContext: length.Context()}
	})

	endIndex := len(value)
	if len(value) > a.minLength {
		endIndex = 1
	}
	itemWise := stream.Lazy(func() *stream.Stream[arrayCandidate[T]] {
		return a.shrinkItemByItem(value, context, endIndex)
	})

	if len(value) <= a.minLength {
		return lengths.Join(itemWise)
	}
	withoutFirst := stream.Lazy(func() *stream.Stream[arrayCandidate[T]] {
		subContext := &arrayContext{}
		if len(context.itemsContexts) > 0 {
			subContext.itemsContexts = context.itemsContexts[1:]
		}
		tail := a.shrinkImpl(value[1:], subContext).Filter(func(c arrayCandidate[T]) bool {
			return a.minLength <= len(c.items)+1
		})
		return stream.Map(tail, func(c arrayCandidate[T]) arrayCandidate[T] {
			first := NewValue(cloneIfNeeded(value[0]), context.itemContext(0))
			return arrayCandidate[T]{items: append([]*Value[T]{first}, c.items...)}
		})
	})
	return lengths.Join(itemWise, withoutFirst)
}

func (a *ArrayArbitrary[T]) shrinkItemByItem(value []T, context *arrayContext, endIndex int) *stream.Stream[arrayCandidate[T]] {
	shrinks := []*stream.Stream[arrayCandidate[T]]{}
	for index := context.startIndex; index < endIndex; index++ {
		shrinks = append(shrinks, stream.Lazy(func() *stream.Stream[arrayCandidate[T]] {
			return stream.Map(a.item.Shrink(value[index], context.itemContext(index)), func(v *Value[T]) arrayCandidate[T] {
				items := make([]*Value[T], len(value))
				for i := range value {
					if i == index {
						items[i] = v
					} else {
						items[i] = NewValue(cloneIfNeeded(value[i]), context.itemContext(i))
					}
				}
				return arrayCandidate[T]{items: items, startIndex: index}
			})
		}))
	}
	return stream.Nil[arrayCandidate[T]]().Join(shrinks...)
}
