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
	"strconv"
	"strings"

	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"github.com/Fantom-foundation/pbt/go/pbt/random"
	"github.com/Fantom-foundation/pbt/go/pbt/stream"
)

// producer creates a value on demand. Streams of producers can be skipped
// without generating the skipped values.
type producer[T any] func() *arb.Value[T]

// toss produces the explicit examples followed by an endless stream of
// generated values. Run i draws from its own random stream derived from seed
// and i, so any run can be produced without producing the runs before it.
func toss[T any](p Property[T], seed uint64, examples []T) *stream.Stream[producer[T]] {
	exampleProducers := make([]producer[T], 0, len(examples))
	for _, example := range examples {
		exampleProducers = append(exampleProducers, func() *arb.Value[T] {
			return arb.NewValue(example, nil)
		})
	}
	runID := 0
	generated := stream.New(func() (producer[T], bool) {
		id := runID
		runID++
		return func() *arb.Value[T] {
			return p.Generate(random.New(seed, uint64(id)), id)
		}, true
	})
	return stream.FromSlice(exampleProducers).Join(generated)
}

// parsePath decodes a replay path into its segments.
func parsePath(path string) ([]int, error) {
	parts := strings.Split(path, ":")
	segments := make([]int, 0, len(parts))
	for _, part := range parts {
		segment, err := strconv.Atoi(part)
		if err != nil || segment < 0 {
			return nil, fmt.Errorf("%w, unable to replay, got invalid path=%s", ErrInvalidParameters, path)
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

// pathWalk replays path: the first segment skips initial values, every
// further segment selects a shrink candidate of the value reached so far.
func pathWalk[T any](path string, producers *stream.Stream[producer[T]], shrink func(*arb.Value[T]) *stream.Stream[*arb.Value[T]]) (*stream.Stream[producer[T]], error) {
	segments, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	values := producers.Drop(segments[0])
	for _, segment := range segments[1:] {
		next, found := values.GetNthOrLast(0)
		if !found {
			return nil, fmt.Errorf("%w, unable to replay, got wrong path=%s", ErrInvalidParameters, path)
		}
		values = stream.Map(shrink(next()).Drop(segment), constant[T])
	}
	return values, nil
}

func constant[T any](value *arb.Value[T]) producer[T] {
	return func() *arb.Value[T] { return value }
}

// sourceValues feeds the runner with initial values. It stops after a given
// number of values, extended by one for every skipped value, or once too many
// values were skipped. A negative number of values makes it unlimited.
type sourceValues[T any] struct {
	values         *stream.Stream[producer[T]]
	remainingRuns  int
	remainingSkips int
}

func newSourceValues[T any](values *stream.Stream[producer[T]], maxInitialIterations, maxSkips int) *sourceValues[T] {
	return &sourceValues[T]{values: values, remainingRuns: maxInitialIterations, remainingSkips: maxSkips}
}

func (s *sourceValues[T]) Next() (*arb.Value[T], bool) {
	if s.remainingRuns == 0 || s.remainingSkips < 0 {
		return nil, false
	}
	if s.remainingRuns > 0 {
		s.remainingRuns--
	}
	next, found := s.values.Next()
	if !found {
		return nil, false
	}
	return next(), true
}

func (s *sourceValues[T]) skippedOne() {
	s.remainingSkips--
	if s.remainingRuns >= 0 {
		s.remainingRuns++
	}
}
