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
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Fantom-foundation/pbt/go/pbt/check"
	"github.com/dsnet/golib/unitconv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var RunCmd = AddCommonFlags(cli.Command{
	Action: doRun,
	Name:   "run",
	Usage:  "Check the engine's self-check properties",
	Flags: []cli.Flag{
		filterFlag,
		jobsFlag,
		seedFlag,
		verboseFlag,
		logLevelFlag,
		numRunsFlag,
		pathFlag,
		maxErrorsFlag,
		configFlag,
	},
})

var numRunsFlag = &cli.IntFlag{
	Name:  "num-runs",
	Usage: "number of successful runs required per property",
}

var pathFlag = &cli.StringFlag{
	Name:  "path",
	Usage: "replay a reported counterexample path, requires exactly one selected property",
}

var maxErrorsFlag = &cli.IntFlag{
	Name:  "max-errors",
	Usage: "aborts checking after the given number of failed properties",
	Value: -1,
}

var configFlag = &cli.StringFlag{
	Name:      "config",
	Usage:     "YAML file of check parameters, overridden by explicit flags",
	TakesFile: true,
}

func doRun(context *cli.Context) error {
	params := check.DefaultParameters()
	if config := context.String(configFlag.Name); config != "" {
		loaded, err := check.LoadParameters(config)
		if err != nil {
			return fmt.Errorf("failed to load parameters: %w", err)
		}
		params = loaded
	}
	if seed, set := seedFlag.Fetch(context); set {
		params.Seed = seed
	}
	if context.IsSet(numRunsFlag.Name) {
		params.NumRuns = context.Int(numRunsFlag.Name)
	}
	if context.IsSet(pathFlag.Name) {
		params.Path = context.String(pathFlag.Name)
	}
	verbosity, set, err := verboseFlag.Fetch(context)
	if err != nil {
		return err
	}
	if set {
		params.Verbose = verbosity
	}

	level, err := logLevelFlag.Fetch(context)
	if err != nil {
		return err
	}
	logger := logrus.New()
	logger.SetOutput(context.App.ErrWriter)
	logger.SetLevel(level)
	params.Logger = logger

	filter, err := filterFlag.Fetch(context)
	if err != nil {
		return err
	}

	return runSelfChecks(
		context.Context,
		filterSelfChecks(selfChecks, filter),
		params,
		jobsFlag.Fetch(context),
		context.Int(maxErrorsFlag.Name),
		context.App.Writer,
	)
}

// runSelfChecks checks all given properties and fails if any of them fails.
// Unless a path is replayed, every property gets its own seed derived from
// the seed of the parameters.
func runSelfChecks(
	ctx context.Context,
	checks []selfCheck,
	params check.Parameters,
	jobCount int,
	maxErrors int,
	writer io.Writer,
) error {
	if params.Path != "" && len(checks) != 1 {
		return fmt.Errorf("replaying path %q requires exactly one property, %d selected", params.Path, len(checks))
	}
	if maxErrors <= 0 {
		maxErrors = math.MaxInt
	}
	out := &syncWriter{writer: writer}

	issuesCollector := issuesCollector{}
	var runCount atomic.Int64
	var skipCount atomic.Int64

	printProgress := func(relativeTime time.Duration, rate float64, current int64) {
		fmt.Fprintf(out,
			"[t=%4d:%02d] - Processing ~%s properties per second, total %d, runs %d, skipped %d, found issues %d\n",
			int(relativeTime.Seconds())/60, int(relativeTime.Seconds())%60,
			unitconv.FormatPrefix(rate, unitconv.SI, 0), current, runCount.Load(), skipCount.Load(), issuesCollector.NumIssues(),
		)
	}

	opCheck := func(selfCheck selfCheck) consumerResult {
		if issuesCollector.NumIssues() >= maxErrors {
			return consumeAbort
		}

		checkParams := params
		if params.Path == "" {
			checkParams.Seed = deriveSeed(params.Seed, selfCheck.name)
		}
		res, err := selfCheck.check(ctx, checkParams)
		if err != nil {
			issuesCollector.AddIssue(selfCheck.name, err.Error(), nil)
			fmt.Fprintf(out, "Error: %s: %v\n", selfCheck.name, err)
			return consumeContinue
		}
		runCount.Add(int64(res.numRuns))
		skipCount.Add(int64(res.numSkips))
		if !res.failed {
			return consumeContinue
		}

		var replay *check.Parameters
		if res.path != "" {
			replay = &check.Parameters{}
			*replay = checkParams
			replay.Seed = res.seed
			replay.Path = res.path
		}
		issuesCollector.AddIssue(selfCheck.name, res.report, replay)
		fmt.Fprintf(out, "Failed: %s\n", selfCheck.name)
		return consumeContinue
	}

	fmt.Fprintf(out, "Checking %d properties with seed %d ...\n", len(checks), params.Seed)
	forEachSelfCheck(checks, opCheck, printProgress, jobCount)

	numIssues := issuesCollector.NumIssues()
	if numIssues == 0 {
		fmt.Fprintf(out, "All properties passed successfully!\n")
		return nil
	}
	if err := issuesCollector.ExportIssues(out); err != nil {
		return err
	}
	return fmt.Errorf("failed to pass %d properties", numIssues)
}

// syncWriter serializes writes of concurrent workers.
type syncWriter struct {
	writer io.Writer
	mu     sync.Mutex
}

func (w *syncWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writer.Write(data)
}
