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
	"math/big"

	"github.com/Fantom-foundation/pbt/go/common"
)

// U256 creates an arbitrary covering the full range of 256-bit unsigned
// integers, shrinking toward zero.
func U256() Arbitrary[common.U256] {
	return U256Range(common.NewU256(), common.MaxU256())
}

// U256Range creates an arbitrary for values in [min, max]. It panics if
// min > max.
func U256Range(min, max common.U256) Arbitrary[common.U256] {
	return Map[*big.Int, common.U256](Must(BigInt(min.ToBig(), max.ToBig())),
		func(b *big.Int) common.U256 {
			res, _ := common.U256FromBig(b)
			return res
		},
		func(u common.U256) (*big.Int, bool) {
			return u.ToBig(), true
		},
	)
}
