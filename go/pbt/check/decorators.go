// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package check

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/Fantom-foundation/pbt/go/common"
	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"github.com/Fantom-foundation/pbt/go/pbt/random"
)

// ErrTimeout is the cause of failures of predicates exceeding their timeout.
const ErrTimeout = common.ConstErr("property timeout")

// decorated forwards all methods to the wrapped property.
type decorated[T any] struct {
	Property[T]
}

// timeoutProperty fails evaluations of an asynchronous predicate lasting
// longer than a time limit. The context of the predicate is cancelled when
// the limit is reached.
type timeoutProperty[T any] struct {
	decorated[T]
	timeout time.Duration
}

// Timeout limits the duration of every evaluation of an asynchronous property.
// Synchronous properties are returned unchanged.
func Timeout[T any](p Property[T], timeout time.Duration) Property[T] {
	if !p.IsAsync() {
		return p
	}
	return &timeoutProperty[T]{decorated[T]{p}, timeout}
}

func (p *timeoutProperty[T]) Run(ctx context.Context, value T) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- p.Property.Run(ctx, value)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		err := fmt.Errorf("%w: exceeded limit of %d milliseconds", ErrTimeout, p.timeout.Milliseconds())
		return &Failure{Cause: err, ErrorMessage: err.Error()}
	}
}

type unbiasedProperty[T any] struct {
	decorated[T]
}

// Unbiased disables biased generation of a property.
func Unbiased[T any](p Property[T]) Property[T] {
	return &unbiasedProperty[T]{decorated[T]{p}}
}

func (p *unbiasedProperty[T]) Generate(rnd *random.Random, _ int) *arb.Value[T] {
	return p.Property.Generate(rnd, -1)
}

// skipAfterProperty skips all evaluations once a deadline has passed.
type skipAfterProperty[T any] struct {
	decorated[T]
	now       func() time.Time
	deadline  time.Time
	interrupt bool
}

// SkipAfter makes p skip every value once limit has elapsed, counted from the
// call of SkipAfter. If interrupt is set, the check is interrupted instead.
func SkipAfter[T any](p Property[T], limit time.Duration, interrupt bool) Property[T] {
	return skipAfter(p, time.Now, limit, interrupt)
}

func skipAfter[T any](p Property[T], now func() time.Time, limit time.Duration, interrupt bool) Property[T] {
	return &skipAfterProperty[T]{decorated[T]{p}, now, now().Add(limit), interrupt}
}

func (p *skipAfterProperty[T]) Run(ctx context.Context, value T) error {
	if !p.now().Before(p.deadline) {
		return &PreconditionFailure{InterruptExecution: p.interrupt}
	}
	return p.Property.Run(ctx, value)
}

// ignoreEqualValuesProperty remembers the outcome per distinct value.
type ignoreEqualValuesProperty[T any] struct {
	decorated[T]
	skipRuns bool
	covered  map[string]error
}

// IgnoreEqualValues avoids evaluating the predicate twice on equal values. A
// repeated value reuses the outcome of its first evaluation, or is skipped if
// skipRuns is set.
func IgnoreEqualValues[T any](p Property[T], skipRuns bool) Property[T] {
	return &ignoreEqualValuesProperty[T]{decorated[T]{p}, skipRuns, map[string]error{}}
}

func (p *ignoreEqualValuesProperty[T]) Run(ctx context.Context, value T) error {
	key := dumper.Sdump(value)
	if out, found := p.covered[key]; found {
		if p.skipRuns {
			return &PreconditionFailure{}
		}
		return out
	}
	out := p.Property.Run(ctx, value)
	p.covered[key] = out
	return out
}

// dumper renders values deterministically, independent of pointer identity.
var dumper = &spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// decorate applies the decorators requested by params to p.
func decorate[T any](p Property[T], params Parameters) Property[T] {
	if p.IsAsync() && params.Timeout > 0 {
		p = Timeout(p, params.Timeout)
	}
	if params.Unbiased {
		p = Unbiased(p)
	}
	if params.SkipAllAfterTimeLimit > 0 {
		p = SkipAfter(p, params.SkipAllAfterTimeLimit, false)
	}
	if params.InterruptAfterTimeLimit > 0 {
		p = SkipAfter(p, params.InterruptAfterTimeLimit, true)
	}
	if params.SkipEqualValues {
		p = IgnoreEqualValues(p, true)
	}
	if params.IgnoreEqualValues {
		p = IgnoreEqualValues(p, false)
	}
	return p
}
