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
	"sync"
	"sync/atomic"
	"time"
)

// consumerResult tells the pool whether to continue with further checks.
type consumerResult bool

const (
	consumeContinue consumerResult = true
	consumeAbort    consumerResult = false
)

// progressPeriod is the interval of progress reports of forEachSelfCheck.
var progressPeriod = 5 * time.Second

// forEachSelfCheck runs op for every check on numJobs goroutines. Once op
// returns consumeAbort, remaining checks are dropped. A final progress report
// is printed when all workers are done.
func forEachSelfCheck(
	checks []selfCheck,
	op func(selfCheck) consumerResult,
	printProgress func(relativeTime time.Duration, rate float64, current int64),
	numJobs int,
) {
	// Checks are fed through a channel to a team of workers. A progress
	// printer is started before the workers and stopped after all of them
	// finished.
	var workersWaitGroup sync.WaitGroup
	var checkCounter atomic.Int64
	var abort atomic.Bool

	done := make(chan bool)
	printerDone := make(chan bool)
	go func() {
		defer close(printerDone)
		ticker := time.NewTicker(progressPeriod)
		defer ticker.Stop()
		startTime := time.Now()
		lastTime := startTime
		lastCounter := int64(0)

		checkTimingAndPrint := func(now time.Time) {
			cur := checkCounter.Load()

			diffCounter := cur - lastCounter
			diffTime := now.Sub(lastTime)

			lastTime = now
			lastCounter = cur

			rate := 0.0
			if diffTime > 0 {
				rate = float64(diffCounter) / diffTime.Seconds()
			}
			printProgress(now.Sub(startTime), rate, cur)
		}

		for {
			select {
			case <-done:
				checkTimingAndPrint(time.Now())
				return
			case now := <-ticker.C:
				checkTimingAndPrint(now)
			}
		}
	}()

	workersWaitGroup.Add(numJobs)
	checkChannel := make(chan selfCheck, 10*numJobs)
	for i := 0; i < numJobs; i++ {
		go func() {
			defer workersWaitGroup.Done()
			for check := range checkChannel {
				if abort.Load() {
					continue // < keep draining the channel
				}
				if op(check) == consumeAbort {
					abort.Store(true)
				}
				checkCounter.Add(1)
			}
		}()
	}

	for _, check := range checks {
		checkChannel <- check
	}
	close(checkChannel)
	workersWaitGroup.Wait()

	close(done)   // < signals progress printer to stop
	<-printerDone // < blocks until channel is closed by progress printer
}
