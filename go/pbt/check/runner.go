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
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// RunDetails summarizes a check.
type RunDetails[T any] struct {
	// Failed is set if a counterexample was found, too many values were
	// skipped, or the check was interrupted and interrupts count as failure.
	Failed      bool
	Interrupted bool
	// NumRuns is the number of successful runs, or the index of the failing
	// run counted without skipped runs.
	NumRuns    int
	NumSkips   int
	NumShrinks int
	Seed       uint64
	// Counterexample is the smallest failing value found.
	Counterexample T
	// CounterexamplePath replays the counterexample when used as Path. It is
	// empty if no counterexample was found.
	CounterexamplePath string
	// Error is the message of the failure of the counterexample.
	Error         string
	ErrorInstance error
	// Failures lists every failing value found while shrinking. It is only
	// collected in verbose mode.
	Failures []T
	// ExecutionSummary holds all evaluations. It is only complete in very
	// verbose mode.
	ExecutionSummary []*ExecutionTree[T]
	Verbose          Verbosity
	RunConfiguration Parameters
}

// Check runs p with the given parameters. Explicit examples are checked
// before any generated value. The error is reserved for unusable parameters;
// failures of the property are reported through the details.
func Check[T any](p Property[T], params Parameters, examples ...T) (*RunDetails[T], error) {
	return CheckContext(context.Background(), p, params, examples...)
}

// CheckContext is Check with a context. Once ctx is done, no further runs are
// started and the check is reported as interrupted.
func CheckContext[T any](ctx context.Context, p Property[T], params Parameters, examples ...T) (*RunDetails[T], error) {
	params, err := params.qualified()
	if err != nil {
		return nil, err
	}
	property := decorate(p, params)

	maxInitialIterations := params.NumRuns
	if strings.Contains(params.Path, ":") {
		maxInitialIterations = -1
	}
	maxSkips := params.NumRuns * params.MaxSkipsPerRun

	initialValues := toss(property, params.Seed, examples)
	if params.Path != "" {
		initialValues, err = pathWalk(params.Path, initialValues, property.Shrink)
		if err != nil {
			return nil, err
		}
	}
	shrink := property.Shrink
	if params.EndOnFailure {
		shrink = func(*arb.Value[T]) *stream.Stream[*arb.Value[T]] {
			return stream.Nil[*arb.Value[T]]()
		}
	}

	log := params.Logger.WithField("seed", params.Seed)
	r := &runner[T]{
		source:    newSourceValues(initialValues, maxInitialIterations, maxSkips),
		shrink:    shrink,
		execution: newRunExecution[T](params.Verbose, params.MarkInterruptAsFailure),
		log:       log,
	}
	r.run(ctx, property)

	details := r.execution.toRunDetails(params.Seed, params.Path, maxSkips, params)
	switch {
	case details.CounterexamplePath == "" && details.NumSkips > maxSkips:
		log.Warnf("check aborted, %d values skipped", details.NumSkips)
	case details.Interrupted:
		log.Infof("check interrupted after %d runs", details.NumRuns)
	}
	return details, nil
}

// runner feeds values to the property. After the first failure it switches
// from the source values to the shrink candidates of the failing value.
type runner[T any] struct {
	source    *sourceValues[T]
	shrink    func(*arb.Value[T]) *stream.Stream[*arb.Value[T]]
	execution *runExecution[T]
	log       *logrus.Entry

	shrinking  *stream.Stream[*arb.Value[T]] // < nil until the first failure
	currentIdx int
	current    *arb.Value[T]
}

func (r *runner[T]) next() (*arb.Value[T], bool) {
	if r.execution.interrupted {
		return nil, false
	}
	if r.shrinking != nil {
		return r.shrinking.Next()
	}
	return r.source.Next()
}

func (r *runner[T]) run(ctx context.Context, p Property[T]) {
	r.currentIdx = -1
	for {
		if ctx.Err() != nil {
			r.execution.interrupt()
		}
		value, found := r.next()
		if !found {
			return
		}
		r.current = value
		r.currentIdx++

		p.RunBeforeEach()
		out := p.Run(ctx, value.Value())
		p.RunAfterEach()
		r.handleResult(out)
	}
}

// handleResult records the outcome of the current value. The value is read
// again for recording, so cloneable values are not shared with the predicate.
func (r *runner[T]) handleResult(out error) {
	input := r.current.Value()
	var precondition *PreconditionFailure
	switch {
	case out == nil:
		r.execution.success(input)
	case errors.As(out, &precondition):
		if precondition.InterruptExecution {
			r.execution.interrupt()
			return
		}
		r.execution.skip(input)
		r.source.skippedOne()
	default:
		var failure *Failure
		if !errors.As(out, &failure) {
			failure = &Failure{Cause: out, ErrorMessage: out.Error()}
		}
		if r.execution.isSuccess() {
			r.log.WithField("run", r.currentIdx).Debugf("property failed: %s", firstLine(failure.ErrorMessage))
		} else {
			r.log.WithField("shrinks", len(r.execution.pathToFailure)).Tracef("shrink candidate %d failed", r.currentIdx)
		}
		r.execution.fail(input, r.currentIdx, failure)
		r.currentIdx = -1
		r.shrinking = r.shrink(r.current)
	}
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}
