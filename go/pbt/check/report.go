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
	"fmt"
	"strings"
)

//go:generate mockgen -source report.go -destination report_mock.go -package check

// TB is the part of testing.TB used to report failed checks.
type TB interface {
	Helper()
	Fatal(args ...any)
}

// AssertionError is returned by AssertError for failed checks.
type AssertionError struct {
	Message string
	// Cause is the failure of the counterexample, if any.
	Cause error
}

func (e *AssertionError) Error() string {
	return e.Message
}

func (e *AssertionError) Unwrap() error {
	return e.Cause
}

// Assert checks p and fails t with a report of the counterexample if the
// check fails.
func Assert[T any](t TB, p Property[T], params Parameters, examples ...T) {
	t.Helper()
	if err := AssertError(p, params, examples...); err != nil {
		t.Fatal(err)
	}
}

// AssertError checks p and returns an *AssertionError describing the failure,
// if any. Unusable parameters are reported as they are.
func AssertError[T any](p Property[T], params Parameters, examples ...T) error {
	details, err := Check(p, params, examples...)
	if err != nil {
		return err
	}
	if message, failed := Report(details); failed {
		return &AssertionError{Message: message, Cause: details.ErrorInstance}
	}
	return nil
}

// Report renders failed run details. It reports false for successful checks.
func Report[T any](details *RunDetails[T]) (string, bool) {
	if !details.Failed {
		return "", false
	}
	var message, summary string
	var hints []string
	switch {
	case details.CounterexamplePath != "":
		message, summary, hints = formatFailure(details)
	case details.Interrupted:
		message, summary, hints = formatEarlyInterrupted(details)
	default:
		message, summary, hints = formatTooManySkipped(details)
	}
	var res strings.Builder
	res.WriteString(message)
	if summary != "" {
		res.WriteString("\n\n")
		res.WriteString(summary)
	}
	if len(hints) > 0 {
		res.WriteString("\n\n")
		res.WriteString(formatHints(hints))
	}
	return res.String(), true
}

const (
	hintVerbose     = "Enable verbose mode in order to have the list of all failing values encountered during the run"
	hintVeryVerbose = "Enable verbose mode at level VeryVerbose in order to check all generated values and their associated status"
)

func formatFailure[T any](details *RunDetails[T]) (string, string, []string) {
	message := fmt.Sprintf("Property failed after %d tests\n{ seed: %d, path: %q, endOnFailure: true }\nCounterexample: %s\nShrunk %d time(s)\nGot error: %s",
		details.NumRuns, details.Seed, details.CounterexamplePath, stringify(details.Counterexample), details.NumShrinks, details.Error)
	switch {
	case details.Verbose >= VeryVerbose:
		return message, formatExecutionSummary(details.ExecutionSummary), nil
	case details.Verbose == Verbose:
		return message, formatFailures(details.Failures), nil
	}
	return message, "", []string{hintVerbose}
}

func formatEarlyInterrupted[T any](details *RunDetails[T]) (string, string, []string) {
	message := fmt.Sprintf("Property interrupted after %d tests\n{ seed: %d }", details.NumRuns, details.Seed)
	if details.Verbose >= VeryVerbose {
		return message, formatExecutionSummary(details.ExecutionSummary), nil
	}
	return message, "", []string{hintVeryVerbose}
}

func formatTooManySkipped[T any](details *RunDetails[T]) (string, string, []string) {
	message := fmt.Sprintf("Failed to run property, too many pre-condition failures encountered\n{ seed: %d }\n\nRan %d time(s)\nSkipped %d time(s)",
		details.Seed, details.NumRuns, details.NumSkips)
	hints := []string{
		"Try to reduce the number of rejected values by combining map and built-in arbitraries",
		"Increase failure tolerance by setting MaxSkipsPerRun to a higher value",
	}
	if details.Verbose >= VeryVerbose {
		return message, formatExecutionSummary(details.ExecutionSummary), hints
	}
	return message, "", append(hints, hintVeryVerbose)
}

func formatFailures[T any](failures []T) string {
	lines := make([]string, 0, len(failures))
	for _, failure := range failures {
		lines = append(lines, stringify(failure))
	}
	return "Encountered failures were:\n- " + strings.Join(lines, "\n- ")
}

// formatExecutionSummary renders the execution trees depth first, indenting
// shrink candidates below the value they were derived from.
func formatExecutionSummary[T any](trees []*ExecutionTree[T]) string {
	type entry struct {
		depth int
		tree  *ExecutionTree[T]
	}
	lines := []string{}
	pending := []entry{}
	for i := len(trees) - 1; i >= 0; i-- {
		pending = append(pending, entry{1, trees[i]})
	}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		lines = append(lines, fmt.Sprintf("%s%s %s", strings.Repeat(". ", current.depth-1), statusIcon(current.tree.Status), stringify(current.tree.Value)))
		for i := len(current.tree.Children) - 1; i >= 0; i-- {
			pending = append(pending, entry{current.depth + 1, current.tree.Children[i]})
		}
	}
	return "Execution summary:\n" + strings.Join(lines, "\n")
}

func statusIcon(status ExecutionStatus) string {
	switch status {
	case Success:
		return "√"
	case Failed:
		return "×"
	}
	return "!"
}

func formatHints(hints []string) string {
	if len(hints) == 1 {
		return "Hint: " + hints[0]
	}
	lines := make([]string, 0, len(hints))
	for i, hint := range hints {
		lines = append(lines, fmt.Sprintf("Hint (%d): %s", i+1, hint))
	}
	return strings.Join(lines, "\n")
}

// stringify renders a value on a single line.
func stringify(value any) string {
	return dumper.Sprintf("%v", value)
}
