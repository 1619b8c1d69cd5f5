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
	"cmp"
	"fmt"
	"strings"

	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"golang.org/x/exp/slices"
)

// Sample generates NumRuns values of a, honoring the seed, the path and the
// Unbiased flag of params.
func Sample[T any](a arb.Arbitrary[T], params Parameters) ([]T, error) {
	params, err := params.qualified()
	if err != nil {
		return nil, err
	}
	var p Property[T] = ForAll(a, func(T) error { return nil })
	if params.Unbiased {
		p = Unbiased(p)
	}
	values := toss(p, params.Seed, nil)
	if params.Path != "" {
		if values, err = pathWalk(params.Path, values, p.Shrink); err != nil {
			return nil, err
		}
	}
	res := make([]T, 0, params.NumRuns)
	values.Take(params.NumRuns).All(func(produce producer[T]) bool {
		res = append(res, produce().Value())
		return true
	})
	return res, nil
}

// Classification is the share of sampled values in one category.
type Classification struct {
	Label   string
	Count   int
	Percent float64
}

// Statistics classifies NumRuns sampled values of a. A value may belong to
// several categories. The categories are returned by decreasing frequency
// and logged at info level.
func Statistics[T any](a arb.Arbitrary[T], classify func(T) []string, params Parameters) ([]Classification, error) {
	params, err := params.qualified()
	if err != nil {
		return nil, err
	}
	values, err := Sample(a, params)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, value := range values {
		for _, label := range classify(value) {
			counts[label]++
		}
	}
	res := make([]Classification, 0, len(counts))
	for label, count := range counts {
		res = append(res, Classification{
			Label:   label,
			Count:   count,
			Percent: float64(count) * 100 / float64(params.NumRuns),
		})
	}
	slices.SortFunc(res, func(a, b Classification) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})

	longestLabel, longestPercent := 0, 0
	for _, c := range res {
		longestLabel = max(longestLabel, len(c.Label))
		longestPercent = max(longestPercent, len(formatPercent(c.Percent)))
	}
	for _, c := range res {
		percent := formatPercent(c.Percent)
		params.Logger.Info(c.Label + strings.Repeat(".", longestLabel-len(c.Label)+2) + strings.Repeat(".", longestPercent-len(percent)) + percent)
	}
	return res, nil
}

func formatPercent(percent float64) string {
	return fmt.Sprintf("%.2f%%", percent)
}
