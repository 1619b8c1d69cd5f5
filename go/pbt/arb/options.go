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
	"math"
	"math/bits"
)

// Size is a coarse description of how large generated structures get.
type Size string

const (
	SizeXSmall Size = "xsmall"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXLarge Size = "xlarge"
	// SizeMax lets generation go up to the explicit limits.
	SizeMax Size = "max"
)

// DefaultSize is used when no size is given.
const DefaultSize = SizeSmall

// MaxLengthUpperBound is the largest supported length of generated arrays.
const MaxLengthUpperBound = math.MaxInt32

// Option configures the constraints of an arbitrary. Options irrelevant to an
// arbitrary are ignored by it.
type Option func(*options)

type options struct {
	minLength          int
	maxLength          *int
	maxGeneratedLength *int
	size               Size
	depthContext       *DepthContext
	maxDepth           *int
	depthFactor        *float64
	depthSize          Size
	withCrossShrink    bool
}

func collectOptions(opts []Option) options {
	res := options{}
	for _, opt := range opts {
		opt(&res)
	}
	return res
}

// MinLength sets the minimal length of generated arrays.
func MinLength(n int) Option {
	return func(o *options) { o.minLength = n }
}

// MaxLength sets the maximal length of arrays, both generated and accepted
// for shrinking. Generated lengths stay within the limit of the size, use
// WithSize(SizeMax) to generate up to n items.
func MaxLength(n int) Option {
	return func(o *options) { o.maxLength = &n }
}

// MaxGeneratedLength caps the length of generated arrays without restricting
// the length of values accepted for shrinking.
func MaxGeneratedLength(n int) Option {
	return func(o *options) { o.maxGeneratedLength = &n }
}

// WithSize sets the size used to derive the generated length of arrays.
func WithSize(size Size) Option {
	return func(o *options) { o.size = size }
}

// WithDepthContext makes the arbitrary share the given depth context.
func WithDepthContext(ctx *DepthContext) Option {
	return func(o *options) { o.depthContext = ctx }
}

// MaxDepth sets the depth at which weighted alternatives always pick their
// first branch.
func MaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = &depth }
}

// DepthFactor sets the bias toward the first branch of weighted alternatives
// with growing depth. Zero disables the bias.
func DepthFactor(factor float64) Option {
	return func(o *options) { o.depthFactor = &factor }
}

// DepthSize derives the depth factor from a size.
func DepthSize(size Size) Option {
	return func(o *options) { o.depthSize = size }
}

// WithCrossShrink lets weighted alternatives shrink toward their first branch.
func WithCrossShrink() Option {
	return func(o *options) { o.withCrossShrink = true }
}

func (o *options) depthContextOrNew() *DepthContext {
	if o.depthContext != nil {
		return o.depthContext
	}
	return NewDepthContext()
}

// maxLengthFromMinLength computes the generated length limit for a size.
func maxLengthFromMinLength(minLength int, size Size) int {
	var res float64
	switch size {
	case SizeXSmall:
		res = math.Floor(1.1*float64(minLength)) + 1
	case SizeMedium:
		res = 11*float64(minLength) + 100
	case SizeLarge:
		res = 101*float64(minLength) + 1000
	case SizeXLarge:
		res = 1001*float64(minLength) + 10000
	default:
		res = 2*float64(minLength) + 10
	}
	return int(math.Min(res, MaxLengthUpperBound))
}

// resolveMaxGeneratedLength resolves the generated length limit from the options.
// Without an explicit size, the default size applies, capped at maxLength.
func (o *options) resolveMaxGeneratedLength(minLength, maxLength int) int {
	if o.maxGeneratedLength != nil {
		return *o.maxGeneratedLength
	}
	size := o.size
	if size == "" {
		size = DefaultSize
	}
	if size == SizeMax {
		return maxLength
	}
	return min(maxLengthFromMinLength(minLength, size), maxLength)
}

// resolveDepthBias derives the depth bias of weighted alternatives.
func (o *options) resolveDepthBias() float64 {
	if o.depthFactor != nil {
		return *o.depthFactor
	}
	size := o.depthSize
	if size == "" {
		if o.maxDepth != nil {
			size = SizeMax
		} else {
			size = DefaultSize
		}
	}
	switch size {
	case SizeXSmall:
		return 1
	case SizeMedium:
		return 0.25
	case SizeLarge:
		return 0.125
	case SizeXLarge:
		return 0.0625
	case SizeMax:
		return 0
	default:
		return 0.5
	}
}

// biasedMaxLength is the log-scaled length limit used for biased arrays.
func biasedMaxLength(minLength, maxLength int) int {
	if minLength >= maxLength {
		return minLength
	}
	return minLength + int(logLike(uint64(maxLength-minLength)))
}

// logLike returns floor(log2(v)) for v > 0.
func logLike(v uint64) int64 {
	return int64(bits.Len64(v)) - 1
}
