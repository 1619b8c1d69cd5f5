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

// LazyArbitrary is a named placeholder for an arbitrary defined later. It is
// resolved by Letrec once all definitions are known.
type LazyArbitrary[T any] struct {
	name       string
	underlying Arbitrary[T]
}

func (l *LazyArbitrary[T]) resolved() Arbitrary[T] {
	if l.underlying == nil {
		panic(fmt.Sprintf("lazy arbitrary %q not correctly initialized", l.name))
	}
	return l.underlying
}

func (l *LazyArbitrary[T]) Generate(rnd *random.Random, biasFactor int) *Value[T] {
	return l.resolved().Generate(rnd, biasFactor)
}

func (l *LazyArbitrary[T]) CanShrinkWithoutContext(value T) bool {
	return l.resolved().CanShrinkWithoutContext(value)
}

func (l *LazyArbitrary[T]) Shrink(value T, context any) *stream.Stream[*Value[T]] {
	return l.resolved().Shrink(value, context)
}

// Letrec builds mutually recursive arbitraries. The builder receives a tie
// function returning a placeholder for any name; after the builder returned,
// every placeholder is bound to the arbitrary of the same name in the
// returned map. Placeholders with no matching definition panic when used.
func Letrec[T any](builder func(tie func(name string) Arbitrary[T]) map[string]Arbitrary[T]) map[string]Arbitrary[T] {
	lazies := map[string]*LazyArbitrary[T]{}
	tie := func(name string) Arbitrary[T] {
		lazy, found := lazies[name]
		if !found {
			lazy = &LazyArbitrary[T]{name: name}
			lazies[name] = lazy
		}
		return lazy
	}
	definitions := builder(tie)
	for name, lazy := range lazies {
		if def, found := definitions[name]; found {
			lazy.underlying = def
		}
	}
	return definitions
}
