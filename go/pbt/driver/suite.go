// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"context"
	"encoding/binary"
	"regexp"
	"strings"

	"github.com/Fantom-foundation/pbt/go/pbt/check"
	"golang.org/x/crypto/sha3"
	"golang.org/x/exp/slices"
)

// selfCheck is a named property of the engine itself. Every check builds a
// fresh property so checks may run on different goroutines.
type selfCheck struct {
	name  string
	check func(ctx context.Context, params check.Parameters) (outcome, error)
}

// outcome is the type independent summary of a check.
type outcome struct {
	failed   bool
	numRuns  int
	numSkips int
	seed     uint64
	path     string
	report   string
}

func newSelfCheck[T any](name string, build func() check.Property[T]) selfCheck {
	return selfCheck{
		name: name,
		check: func(ctx context.Context, params check.Parameters) (outcome, error) {
			details, err := check.CheckContext(ctx, build(), params)
			if err != nil {
				return outcome{}, err
			}
			report, failed := check.Report(details)
			return outcome{
				failed:   failed,
				numRuns:  details.NumRuns,
				numSkips: details.NumSkips,
				seed:     details.Seed,
				path:     details.CounterexamplePath,
				report:   report,
			}, nil
		},
	}
}

// filterSelfChecks returns the checks matching the filter sorted by name.
func filterSelfChecks(checks []selfCheck, filter *regexp.Regexp) []selfCheck {
	res := make([]selfCheck, 0, len(checks))
	for _, check := range checks {
		if filter == nil || filter.MatchString(check.name) {
			res = append(res, check)
		}
	}
	slices.SortFunc(res, func(a, b selfCheck) int { return strings.Compare(a.name, b.name) })
	return res
}

// deriveSeed computes the seed of a single check so that adding or removing
// checks does not change the values generated for others.
func deriveSeed(base uint64, name string) uint64 {
	hasher := sha3.NewLegacyKeccak256()
	var buffer [8]byte
	binary.BigEndian.PutUint64(buffer[:], base)
	hasher.Write(buffer[:])
	hasher.Write([]byte(name))
	return binary.BigEndian.Uint64(hasher.Sum(nil))
}
