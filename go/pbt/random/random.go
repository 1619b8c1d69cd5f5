// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package random provides the seeded, cloneable random source every arbitrary
// draws from.
package random

import (
	"fmt"
	"math"
	"math/big"

	"pgregory.net/rand"
)

// Random is a deterministic pseudo-random source. Two instances created with
// the same seed and streams produce identical sequences.
type Random struct {
	rnd *rand.Rand
}

// New creates a random source for the given seed. Additional stream ids derive
// independent sequences from the same seed, e.g. one per run of a property.
func New(seed uint64, streams ...uint64) *Random {
	return &Random{rnd: rand.New(append([]uint64{seed}, streams...)...)}
}

// Clone returns an independent random source producing the same future output
// as r at the time of cloning.
func (r *Random) Clone() *Random {
	state := *r.rnd
	return &Random{rnd: &state}
}

// NextInt draws uniformly from the closed range [min, max].
func (r *Random) NextInt(min, max int64) int64 {
	if min > max {
		panic(fmt.Sprintf("invalid range passed to NextInt: [%d,%d]", min, max))
	}
	diff := uint64(max) - uint64(min)
	if diff == math.MaxUint64 {
		return int64(r.rnd.Uint64())
	}
	return min + int64(r.rnd.Uint64n(diff+1))
}

// NextBoolean draws true or false with equal probability.
func (r *Random) NextBoolean() bool {
	return r.rnd.Uint64n(2) == 1
}

// NextDouble draws uniformly from [0,1).
func (r *Random) NextDouble() float64 {
	return r.rnd.Float64()
}

// NextBigInt draws uniformly from the closed range [min, max].
func (r *Random) NextBigInt(min, max *big.Int) *big.Int {
	if min.Cmp(max) > 0 {
		panic(fmt.Sprintf("invalid range passed to NextBigInt: [%v,%v]", min, max))
	}
	size := new(big.Int).Sub(max, min)
	size.Add(size, big.NewInt(1))

	bits := size.BitLen()
	words := (bits + 63) / 64
	topMask := uint64(math.MaxUint64)
	if rest := bits % 64; rest != 0 {
		topMask = (uint64(1) << rest) - 1
	}

	// Rejection sampling keeps the draw uniform; at least half of all
	// candidates are accepted.
	buffer := make([]byte, 8*words)
	candidate := new(big.Int)
	for {
		for i := 0; i < words; i++ {
			word := r.rnd.Uint64()
			if i == 0 {
				word &= topMask
			}
			for j := 0; j < 8; j++ {
				buffer[8*i+j] = byte(word >> (56 - 8*j))
			}
		}
		candidate.SetBytes(buffer)
		if candidate.Cmp(size) < 0 {
			return candidate.Add(candidate, min)
		}
	}
}
