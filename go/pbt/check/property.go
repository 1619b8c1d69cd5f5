// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package check runs predicates against generated values. A Property ties an
// arbitrary to a predicate; Check drives the property through a seeded
// sequence of runs, shrinks the first failure it finds and reports the
// smallest counterexample together with a path allowing to replay it.
package check

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// Property is a predicate over generated values.
type Property[T any] interface {
	// IsAsync reports whether the predicate consumes the context passed to
	// Run. Only asynchronous properties can be timed out.
	IsAsync() bool

	// Generate produces the value for the given run. Run identifiers below
	// zero disable biasing.
	Generate(rnd *random.Random, runID int) *arb.Value[T]

	// Shrink produces smaller candidates of a value produced by Generate or
	// Shrink.
	Shrink(value *arb.Value[T]) *stream.Stream[*arb.Value[T]]

	// Run evaluates the predicate. It returns nil on success, a
	// *PreconditionFailure if value is to be skipped, or a *Failure.
	Run(ctx context.Context, value T) error

	// RunBeforeEach and RunAfterEach are called around every Run.
	RunBeforeEach()
	RunAfterEach()
}

// PreconditionFailure marks a value the predicate is not applicable to. Such
// values are skipped rather than counted as runs.
type PreconditionFailure struct {
	// InterruptExecution stops the whole check instead of skipping one value.
	InterruptExecution bool
}

func (p *PreconditionFailure) Error() string {
	if p.InterruptExecution {
		return "precondition failure, execution interrupted"
	}
	return "precondition failure"
}

// Pre skips the current value unless cond holds. It must only be called from
// within a predicate.
func Pre(cond bool) {
	if !cond {
		panic(&PreconditionFailure{})
	}
}

// Failure describes a failed predicate evaluation.
type Failure struct {
	// Cause is the error returned or the value raised by the predicate.
	Cause error
	// ErrorMessage is the text reported for the failure. For panics it
	// includes the stack trace.
	ErrorMessage string
}

func (f *Failure) Error() string {
	return f.ErrorMessage
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// errPropertyFalse is the failure of boolean predicates returning false.
var errPropertyFalse = errors.New("property failed by returning false")

// PropertyOption configures the hooks of a property.
type PropertyOption func(*hooks)

type hooks struct {
	beforeEach func()
	afterEach  func()
}

// BeforeEach registers a function called before every predicate evaluation.
func BeforeEach(hook func()) PropertyOption {
	return func(h *hooks) { h.beforeEach = hook }
}

// AfterEach registers a function called after every predicate evaluation.
func AfterEach(hook func()) PropertyOption {
	return func(h *hooks) { h.afterEach = hook }
}

// noContext replaces missing contexts of generated values. Values reaching
// the runner with it were not produced with a context by their arbitrary.
type noContext struct{}

var undefinedContext = &noContext{}

type property[T any] struct {
	arb       arb.Arbitrary[T]
	predicate func(context.Context, T) error
	async     bool
	hooks     hooks
}

// ForAll creates a synchronous property checking predicate on the values of
// a. A predicate fails by returning an error or by panicking.
func ForAll[T any](a arb.Arbitrary[T], predicate func(T) error, opts ...PropertyOption) Property[T] {
	return newProperty(a, func(_ context.Context, value T) error { return predicate(value) }, false, opts)
}

// ForAllBool creates a synchronous property from a boolean predicate.
func ForAllBool[T any](a arb.Arbitrary[T], predicate func(T) bool, opts ...PropertyOption) Property[T] {
	return ForAll(a, func(value T) error {
		if !predicate(value) {
			return errPropertyFalse
		}
		return nil
	}, opts...)
}

// ForAllAsync creates a property whose predicate observes a context. The
// context is cancelled if the evaluation exceeds the configured timeout.
func ForAllAsync[T any](a arb.Arbitrary[T], predicate func(context.Context, T) error, opts ...PropertyOption) Property[T] {
	return newProperty(a, predicate, true, opts)
}

func newProperty[T any](a arb.Arbitrary[T], predicate func(context.Context, T) error, async bool, opts []PropertyOption) *property[T] {
	p := &property[T]{arb: a, predicate: predicate, async: async}
	for _, opt := range opts {
		opt(&p.hooks)
	}
	return p
}

func (p *property[T]) IsAsync() bool {
	return p.async
}

func (p *property[T]) Generate(rnd *random.Random, runID int) *arb.Value[T] {
	biasFactor := 0
	if runID >= 0 {
		biasFactor = runIDToFrequency(runID)
	}
	return noUndefinedAsContext(p.arb.Generate(rnd, biasFactor))
}

func (p *property[T]) Shrink(value *arb.Value[T]) *stream.Stream[*arb.Value[T]] {
	context := value.Context()
	if context == nil && !p.arb.CanShrinkWithoutContext(value.Raw()) {
		return stream.Nil[*arb.Value[T]]()
	}
	if context == undefinedContext {
		context = nil
	}
	return stream.Map(p.arb.Shrink(value.Raw(), context), noUndefinedAsContext[T])
}

func (p *property[T]) Run(ctx context.Context, value T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fromPanic(r)
		}
	}()
	res := p.predicate(ctx, value)
	if res == nil {
		return nil
	}
	var precondition *PreconditionFailure
	if errors.As(res, &precondition) {
		return precondition
	}
	var failure *Failure
	if errors.As(res, &failure) {
		return failure
	}
	return &Failure{Cause: res, ErrorMessage: res.Error()}
}

func (p *property[T]) RunBeforeEach() {
	if p.hooks.beforeEach != nil {
		p.hooks.beforeEach()
	}
}

func (p *property[T]) RunAfterEach() {
	if p.hooks.afterEach != nil {
		p.hooks.afterEach()
	}
}

// fromPanic converts a value recovered from a predicate into the result of Run.
func fromPanic(r any) error {
	if precondition, ok := r.(*PreconditionFailure); ok {
		return precondition
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	return &Failure{Cause: err, ErrorMessage: fmt.Sprintf("panic: %v\n%s", r, debug.Stack())}
}

// runIDToFrequency derives the bias factor of a run, 2 + floor(log10(runID+1)):
// early runs are biased more often than later ones.
func runIDToFrequency(runID int) int {
	res := 2
	for n := runID + 1; n >= 10; n /= 10 {
		res++
	}
	return res
}

func noUndefinedAsContext[T any](value *arb.Value[T]) *arb.Value[T] {
	if value.Context() != nil {
		return value
	}
	if !value.HasToBeCloned() {
		return arb.NewValueWithCloner(value.Raw(), any(undefinedContext), nil)
	}
	raw := value.Value()
	return arb.NewValueWithCloner(raw, any(undefinedContext), func() T { return value.Value() })
}
