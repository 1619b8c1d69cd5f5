// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// U256 is a 256-bit unsigned integer value. Contrary to holiman/uint256.Int
// the API operates on values rather than pointers, which makes it usable as a
// generated test value without aliasing concerns.
type U256 struct {
	internal uint256.Int
}

// NewU256 creates a new U256 instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewU256(args ...uint64) (result U256) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i := 0; i < len(args) && i < len(result.internal); i++ {
		result.internal[3-i-offset] = args[i]
	}
	return
}

func MaxU256() (result U256) {
	result.internal.SetAllOne()
	return
}

// U256FromBig converts b into a U256. The second result is false if b is
// negative or does not fit into 256 bits.
func U256FromBig(b *big.Int) (U256, bool) {
	if b.Sign() < 0 {
		return U256{}, false
	}
	value, overflow := uint256.FromBig(b)
	if overflow {
		return U256{}, false
	}
	return U256{internal: *value}, true
}

// ToBig returns a big.Int version of i.
func (i U256) ToBig() *big.Int {
	return i.internal.ToBig()
}

func (i U256) IsZero() bool {
	return i.internal.IsZero()
}

func (i U256) Uint64() uint64 {
	return i.internal.Uint64()
}

func (a U256) Eq(b U256) bool {
	return a.internal.Eq(&b.internal)
}

func (a U256) Lt(b U256) bool {
	return a.internal.Lt(&b.internal)
}

func (a U256) Add(b U256) (z U256) {
	z.internal.Add(&a.internal, &b.internal)
	return
}

func (a U256) Sub(b U256) (z U256) {
	z.internal.Sub(&a.internal, &b.internal)
	return
}

func (a U256) Mul(b U256) (z U256) {
	z.internal.Mul(&a.internal, &b.internal)
	return
}

func (a U256) Div(b U256) (z U256) {
	z.internal.Div(&a.internal, &b.internal)
	return
}

func (a U256) Mod(b U256) (z U256) {
	z.internal.Mod(&a.internal, &b.internal)
	return
}

func (i U256) String() string {
	return fmt.Sprintf("%016x %016x %016x %016x", i.internal[3], i.internal[2], i.internal[1], i.internal[0])
}
