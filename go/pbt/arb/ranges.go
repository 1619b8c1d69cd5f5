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
)

// numericRange is an inclusive range [min, max] of integers.
type numericRange struct {
	min, max int64 // < inclusive boundaries
}

func (r numericRange) Generate(rnd *random.Random) int64 {
	return rnd.NextInt(r.min, r.max)
}

func (r numericRange) String() string {
	if r.min == r.max {
		return fmt.Sprintf("X=%d", r.min)
	}
	return fmt.Sprintf("%d≤X≤%d", r.min, r.max)
}

// biasNumericRange splits [min, max] into the log-sized sub-ranges considered
// interesting: around zero and close to the bounds. The first range has the
// highest priority.
func biasNumericRange(min, max int64) []numericRange {
	if min == max {
		return []numericRange{{min, max}}
	}
	if min < 0 && max > 0 {
		logMin := logLike(-uint64(min))
		logMax := logLike(uint64(max))
		return []numericRange{
			{-logMin, logMax},   // close to zero
			{max - logMax, max}, // close to max
			{min, min + logMin}, // close to min
		}
	}
	logGap := logLike(uint64(max) - uint64(min))
	closeToMin := numericRange{min, min + logGap}
	closeToMax := numericRange{max - logGap, max}
	if min < 0 {
		return []numericRange{closeToMax, closeToMin}
	}
	return []numericRange{closeToMin, closeToMax}
}

// pickBiasedRange selects the range to generate from. Unbiased draws and
// draws missing the 1-in-biasFactor chance use the full range.
func pickBiasedRange(rnd *random.Random, biasFactor int, min, max int64) numericRange {
	if biasFactor <= 0 || rnd.NextInt(1, int64(biasFactor)) != 1 {
		return numericRange{min, max}
	}
	ranges := biasNumericRange(min, max)
	if len(ranges) == 1 {
		return ranges[0]
	}
	id := rnd.NextInt(-2*int64(len(ranges)-1), int64(len(ranges)-2))
	if id < 0 {
		return ranges[0]
	}
	return ranges[id+1]
}

// bigRange is the big.Int counterpart of numericRange.
type bigRange struct {
	min, max *big.Int
}

func (r bigRange) String() string {
	if r.min.Cmp(r.max) == 0 {
		return fmt.Sprintf("X=%v", r.min)
	}
	return fmt.Sprintf("%v≤X≤%v", r.min, r.max)
}

func bigLogLike(v *big.Int) *big.Int {
	return big.NewInt(int64(v.BitLen() - 1))
}

func biasBigRange(min, max *big.Int) []bigRange {
	if min.Cmp(max) == 0 {
		return []bigRange{{min, max}}
	}
	if min.Sign() < 0 && max.Sign() > 0 {
		logMin := bigLogLike(new(big.Int).Neg(min))
		logMax := bigLogLike(max)
		return []bigRange{
			{new(big.Int).Neg(logMin), logMax},
			{new(big.Int).Sub(max, logMax), max},
			{min, new(big.Int).Add(min, logMin)},
		}
	}
	logGap := bigLogLike(new(big.Int).Sub(max, min))
	closeToMin := bigRange{min, new(big.Int).Add(min, logGap)}
	closeToMax := bigRange{new(big.Int).Sub(max, logGap), max}
	if min.Sign() < 0 {
		return []bigRange{closeToMax, closeToMin}
	}
	return []bigRange{closeToMin, closeToMax}
}

func pickBiasedBigRange(rnd *random.Random, biasFactor int, min, max *big.Int) bigRange {
	if biasFactor <= 0 || rnd.NextInt(1, int64(biasFactor)) != 1 {
		return bigRange{min, max}
	}
	ranges := biasBigRange(min, max)
	if len(ranges) == 1 {
		return ranges[0]
	}
	id := rnd.NextInt(-2*int64(len(ranges)-1), int64(len(ranges)-2))
	if id < 0 {
		return ranges[0]
	}
	return ranges[id+1]
}
