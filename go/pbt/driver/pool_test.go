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
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func namedChecks(n int) []selfCheck {
	res := make([]selfCheck, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, selfCheck{name: fmt.Sprintf("check-%03d", i)})
	}
	return res
}

func TestForEachSelfCheck_ProcessesEveryCheckOnce(t *testing.T) {
	for _, jobs := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			var mu sync.Mutex
			seen := map[string]int{}
			var lastReported int64
			forEachSelfCheck(namedChecks(50), func(check selfCheck) consumerResult {
				mu.Lock()
				defer mu.Unlock()
				seen[check.name]++
				return consumeContinue
			}, func(_ time.Duration, _ float64, current int64) {
				lastReported = current
			}, jobs)

			if len(seen) != 50 {
				t.Errorf("unexpected number of processed checks, wanted 50, got %d", len(seen))
			}
			for name, count := range seen {
				if count != 1 {
					t.Errorf("check %s processed %d times", name, count)
				}
			}
			if lastReported != 50 {
				t.Errorf("final progress report should cover all checks, got %d", lastReported)
			}
		})
	}
}

func TestForEachSelfCheck_AbortSkipsRemainingChecks(t *testing.T) {
	var processed atomic.Int32
	forEachSelfCheck(namedChecks(100), func(selfCheck) consumerResult {
		if processed.Add(1) >= 3 {
			return consumeAbort
		}
		return consumeContinue
	}, func(time.Duration, float64, int64) {}, 1)

	if got := processed.Load(); got != 3 {
		t.Errorf("unexpected number of processed checks, wanted 3, got %d", got)
	}
}

func TestForEachSelfCheck_ReportsProgressPeriodically(t *testing.T) {
	defer func(period time.Duration) { progressPeriod = period }(progressPeriod)
	progressPeriod = time.Millisecond

	var reports atomic.Int32
	forEachSelfCheck(namedChecks(5), func(selfCheck) consumerResult {
		time.Sleep(5 * time.Millisecond)
		return consumeContinue
	}, func(time.Duration, float64, int64) {
		reports.Add(1)
	}, 1)

	if got := reports.Load(); got < 2 {
		t.Errorf("expected periodic progress reports, got %d", got)
	}
}
