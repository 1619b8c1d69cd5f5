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
	"strconv"
	"strings"
)

// ExecutionStatus is the outcome of a single predicate evaluation.
type ExecutionStatus int

const (
	Success ExecutionStatus = iota
	Skipped
	Failed
)

func (s ExecutionStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	case Failed:
		return "failure"
	}
	return "unknown"
}

// ExecutionTree records an evaluation and, for failures, the evaluations of
// its shrink candidates.
type ExecutionTree[T any] struct {
	Status   ExecutionStatus
	Value    T
	Children []*ExecutionTree[T]
}

// runExecution accumulates the outcomes of the evaluations of a check.
type runExecution[T any] struct {
	verbosity              Verbosity
	markInterruptAsFailure bool

	rootExecutionTrees         []*ExecutionTree[T]
	currentLevelExecutionTrees *[]*ExecutionTree[T]

	pathToFailure []int // < nil while no failure was found
	value         T
	failure       *Failure

	numSkips     int
	numSuccesses int
	interrupted  bool
}

func newRunExecution[T any](verbosity Verbosity, markInterruptAsFailure bool) *runExecution[T] {
	res := &runExecution[T]{verbosity: verbosity, markInterruptAsFailure: markInterruptAsFailure}
	res.currentLevelExecutionTrees = &res.rootExecutionTrees
	return res
}

func (r *runExecution[T]) appendExecutionTree(status ExecutionStatus, value T) *ExecutionTree[T] {
	tree := &ExecutionTree[T]{Status: status, Value: value}
	*r.currentLevelExecutionTrees = append(*r.currentLevelExecutionTrees, tree)
	return tree
}

func (r *runExecution[T]) fail(value T, id int, failure *Failure) {
	if r.verbosity >= Verbose {
		tree := r.appendExecutionTree(Failed, value)
		r.currentLevelExecutionTrees = &tree.Children
	}
	r.pathToFailure = append(r.pathToFailure, id)
	r.value = value
	r.failure = failure
}

func (r *runExecution[T]) skip(value T) {
	if r.verbosity >= VeryVerbose {
		r.appendExecutionTree(Skipped, value)
	}
	if r.isSuccess() {
		r.numSkips++
	}
}

func (r *runExecution[T]) success(value T) {
	if r.verbosity >= VeryVerbose {
		r.appendExecutionTree(Success, value)
	}
	if r.isSuccess() {
		r.numSuccesses++
	}
}

func (r *runExecution[T]) interrupt() {
	r.interrupted = true
}

func (r *runExecution[T]) isSuccess() bool {
	return r.pathToFailure == nil
}

func (r *runExecution[T]) firstFailure() int {
	if r.isSuccess() {
		return -1
	}
	return r.pathToFailure[0]
}

func (r *runExecution[T]) numShrinks() int {
	if r.isSuccess() {
		return 0
	}
	return len(r.pathToFailure) - 1
}

// extractFailures lists the failing values along the last failing branch of
// the execution tree.
func (r *runExecution[T]) extractFailures() []T {
	if r.isSuccess() {
		return nil
	}
	failures := []T{}
	cursor := r.rootExecutionTrees
	for len(cursor) > 0 && cursor[len(cursor)-1].Status == Failed {
		tree := cursor[len(cursor)-1]
		failures = append(failures, tree.Value)
		cursor = tree.Children
	}
	return failures
}

func (r *runExecution[T]) toRunDetails(seed uint64, basePath string, maxSkips int, params Parameters) *RunDetails[T] {
	details := &RunDetails[T]{
		Interrupted:      r.interrupted,
		NumSkips:         r.numSkips,
		Seed:             seed,
		ExecutionSummary: r.rootExecutionTrees,
		Verbose:          r.verbosity,
		RunConfiguration: params,
	}
	if !r.isSuccess() {
		details.Failed = true
		details.NumRuns = r.firstFailure() + 1 - r.numSkips
		details.NumShrinks = r.numShrinks()
		details.Counterexample = r.value
		details.CounterexamplePath = mergePaths(basePath, encodePath(r.pathToFailure))
		details.Error = r.failure.ErrorMessage
		details.ErrorInstance = r.failure.Cause
		details.Failures = r.extractFailures()
		return details
	}
	considerInterruptAsFailure := r.markInterruptAsFailure || r.numSuccesses == 0
	details.Failed = r.numSkips > maxSkips || (r.interrupted && considerInterruptAsFailure)
	details.NumRuns = r.numSuccesses
	return details
}

func encodePath(path []int) string {
	parts := make([]string, 0, len(path))
	for _, segment := range path {
		parts = append(parts, strconv.Itoa(segment))
	}
	return strings.Join(parts, ":")
}

// mergePaths appends path to the replay offset it was recorded from. The
// first segment of path is relative to the last segment of offset.
func mergePaths(offset, path string) string {
	if offset == "" {
		return path
	}
	offsetItems := strings.Split(offset, ":")
	items := strings.Split(path, ":")
	last, _ := strconv.Atoi(offsetItems[len(offsetItems)-1])
	first, _ := strconv.Atoi(items[0])
	merged := append(offsetItems[:len(offsetItems)-1], strconv.Itoa(last+first))
	return strings.Join(append(merged, items[1:]...), ":")
}
