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
	"os"
	"regexp"
	"runtime"
	"runtime/pprof"

	"github.com/Fantom-foundation/pbt/go/pbt/check"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type filterFlagType struct {
	cli.StringFlag
}

var filterFlag = &filterFlagType{
	cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "select only properties which name matches the given regex",
		Value:   ".*",
	},
}

func (f *filterFlagType) Fetch(context *cli.Context) (*regexp.Regexp, error) {
	return regexp.Compile(context.String(f.Name))
}

type jobsFlagType struct {
	cli.IntFlag
}

var jobsFlag = &jobsFlagType{
	cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "number of properties checked simultaneously",
		Value:   runtime.NumCPU(),
	},
}

func (f *jobsFlagType) Fetch(context *cli.Context) int {
	if jobs := context.Int(f.Name); jobs > 0 {
		return jobs
	}
	return runtime.NumCPU()
}

type seedFlagType struct {
	cli.Uint64Flag
}

var seedFlag = &seedFlagType{
	cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "base seed of the random generators, derived per property",
	},
}

func (f *seedFlagType) Fetch(context *cli.Context) (uint64, bool) {
	return context.Uint64(f.Name), context.IsSet(f.Name)
}

type verboseFlagType struct {
	cli.StringFlag
}

var verboseFlag = &verboseFlagType{
	cli.StringFlag{
		Name:  "verbose",
		Usage: "verbosity of failure reports: none, verbose or very-verbose",
	},
}

func (f *verboseFlagType) Fetch(context *cli.Context) (check.Verbosity, bool, error) {
	if !context.IsSet(f.Name) {
		return check.Quiet, false, nil
	}
	verbosity, err := check.ParseVerbosity(context.String(f.Name))
	return verbosity, true, err
}

type logLevelFlagType struct {
	cli.StringFlag
}

var logLevelFlag = &logLevelFlagType{
	cli.StringFlag{
		Name:  "log-level",
		Usage: "level of the engine's log output",
		Value: "warn",
	},
}

func (f *logLevelFlagType) Fetch(context *cli.Context) (logrus.Level, error) {
	return logrus.ParseLevel(context.String(f.Name))
}

var commonFlags = []cli.Flag{
	cpuProfileFlag,
}

var cpuProfileFlag = &cli.StringFlag{
	Name:      "cpuprofile",
	Usage:     "store CPU profile in the provided filename",
	TakesFile: true,
}

// AddCommonFlags extends the command by the flags shared by all commands.
func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		if cpuprofileFilename := ctx.String(cpuProfileFlag.Name); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}
		return action(ctx)
	}
	return command
}
