// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package arb defines the Arbitrary contract and the structural generators
// of the engine: bounded integers, arrays, tuples, and weighted alternatives
// with recursion depth control, plus the combinators built on top of them.
package arb

import (
	"fmt"

	"github.com/Fantom-foundation/pbt/go/common"
	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// Arbitrary is the contract implemented by every generator.
type Arbitrary[T any] interface {
	// Generate produces a value. A biasFactor of n > 0 makes the arbitrary
	// prefer interesting values on roughly one out of n draws; biasFactor <= 0
	// disables biasing.
	Generate(rnd *random.Random, biasFactor int) *Value[T]

	// CanShrinkWithoutContext reports whether value could have been produced
	// by this arbitrary, such that Shrink may be called without a context.
	CanShrinkWithoutContext(value T) bool

	// Shrink produces a lazy stream of values smaller than value. context is
	// the context attached to value, or nil if it is unknown.
	Shrink(value T, context any) *stream.Stream[*Value[T]]
}

// ErrInvalidRange is returned when the bounds of a range are inverted.
const ErrInvalidRange = common.ConstErr("invalid range")

// ErrInvalidLength is returned for inconsistent length constraints.
const ErrInvalidLength = common.ConstErr("invalid length constraints")

// ErrInvalidWeights is returned for negative weights or a zero total weight.
const ErrInvalidWeights = common.ConstErr("invalid weights")

// ErrMissingArbitrary is returned when a composite arbitrary lacks a
// sub-arbitrary or a constant.
const ErrMissingArbitrary = common.ConstErr("missing arbitrary")

// Must panics if err is not nil. It is intended for composing arbitraries
// whose constraints are known to be valid.
func Must[A any](arb A, err error) A {
	if err != nil {
		panic(fmt.Sprintf("failed to build arbitrary: %v", err))
	}
	return arb
}
