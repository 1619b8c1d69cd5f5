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
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Fantom-foundation/pbt/go/pbt/arb"
	"github.com/Fantom-foundation/pbt/go/pbt/check"
)

func lessThan(limit int) func() check.Property[int] {
	return func() check.Property[int] {
		return check.ForAllBool(arb.Must(arb.Integer(0, 1000)), func(v int) bool { return v < limit })
	}
}

func TestRunSelfChecks_PassingChecks(t *testing.T) {
	checks := []selfCheck{
		newSelfCheck("a", lessThan(2000)),
		newSelfCheck("b", lessThan(2000)),
	}
	var out bytes.Buffer
	if err := runSelfChecks(context.Background(), checks, testParameters(1), 2, -1, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "All properties passed successfully!") {
		t.Errorf("missing success message in output:\n%s", out.String())
	}
}

func TestRunSelfChecks_FailingCheckIsReportedWithReplayParameters(t *testing.T) {
	checks := []selfCheck{
		newSelfCheck("fails", lessThan(500)),
		newSelfCheck("passes", lessThan(2000)),
	}
	var out bytes.Buffer
	err := runSelfChecks(context.Background(), checks, testParameters(1), 2, -1, &out)
	if err == nil || err.Error() != "failed to pass 1 properties" {
		t.Fatalf("unexpected error: %v", err)
	}
	output := out.String()
	for _, want := range []string{"Failed: fails", "Counterexample: 500", "Replay parameters dumped to "} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in output:\n%s", want, output)
		}
	}

	match := regexp.MustCompile(`Replay parameters dumped to (\S+)`).FindStringSubmatch(output)
	if match == nil {
		t.Fatalf("no replay file in output")
	}
	defer os.RemoveAll(filepath.Dir(match[1]))
	replay, err := check.LoadParameters(match[1])
	if err != nil {
		t.Fatalf("failed to load replay parameters: %v", err)
	}
	if want := deriveSeed(1, "fails"); replay.Seed != want {
		t.Errorf("unexpected replay seed, wanted %d, got %d", want, replay.Seed)
	}
	if replay.Path == "" {
		t.Errorf("replay parameters lack a path")
	}

	// Replaying the path reproduces the counterexample with the verbatim seed.
	replay.Logger = testParameters(0).Logger
	out.Reset()
	err = runSelfChecks(context.Background(), checks[:1], replay, 1, -1, &out)
	if err == nil {
		t.Fatalf("replay should fail")
	}
	if !strings.Contains(out.String(), "Counterexample: 500") {
		t.Errorf("replay did not reproduce the counterexample:\n%s", out.String())
	}
}

func TestRunSelfChecks_MaxErrorsAbortsChecking(t *testing.T) {
	checks := []selfCheck{
		newSelfCheck("a", lessThan(0)),
		newSelfCheck("b", lessThan(0)),
		newSelfCheck("c", lessThan(0)),
	}
	var out bytes.Buffer
	err := runSelfChecks(context.Background(), checks, testParameters(1), 1, 1, &out)
	if err == nil || err.Error() != "failed to pass 1 properties" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunSelfChecks_PathRequiresSingleProperty(t *testing.T) {
	checks := []selfCheck{
		newSelfCheck("a", lessThan(10)),
		newSelfCheck("b", lessThan(10)),
	}
	params := testParameters(1)
	params.Path = "0"
	var out bytes.Buffer
	err := runSelfChecks(context.Background(), checks, params, 1, -1, &out)
	if err == nil || !strings.Contains(err.Error(), "requires exactly one property") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunSelfChecks_InvalidParametersAreIssues(t *testing.T) {
	params := testParameters(1)
	params.NumRuns = -1
	var out bytes.Buffer
	err := runSelfChecks(context.Background(), []selfCheck{newSelfCheck("a", lessThan(10))}, params, 1, -1, &out)
	if err == nil {
		t.Fatalf("invalid parameters should fail the run")
	}
	if !strings.Contains(out.String(), "Error: a:") {
		t.Errorf("missing error in output:\n%s", out.String())
	}
}

func TestListCmd_PrintsFilteredNames(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	if err := app.Run([]string{"driver", "list", "--filter", "^integer/"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "integer/generated-within-bounds\ninteger/shrinks-toward-target\n"
	if got := out.String(); got != want {
		t.Errorf("unexpected output, wanted %q, got %q", want, got)
	}
}

func TestRunCmd_ChecksSelectedProperties(t *testing.T) {
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	args := []string{"driver", "run", "--seed", "7", "--num-runs", "20", "--filter", "^u256/", "--jobs", "1"}
	if err := app.Run(args); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Checking 1 properties with seed 7") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunCmd_InvalidFlagsAreReported(t *testing.T) {
	tests := map[string][]string{
		"filter":    {"--filter", "("},
		"verbosity": {"--verbose", "loud"},
		"log level": {"--log-level", "chatty"},
		"config":    {"--config", filepath.Join(t.TempDir(), "missing.yaml")},
	}
	for name, flags := range tests {
		t.Run(name, func(t *testing.T) {
			app := newApp()
			app.Writer = &bytes.Buffer{}
			app.ErrWriter = &bytes.Buffer{}
			if err := app.Run(append([]string{"driver", "run"}, flags...)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestRunCmd_ConfigProvidesDefaultsForFlags(t *testing.T) {
	config := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(config, []byte("seed: 3\nnum-runs: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	if err := app.Run([]string{"driver", "run", "--config", config, "--filter", "^random/"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "with seed 3") {
		t.Errorf("seed of config not used:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "runs 5,") {
		t.Errorf("number of runs of config not used:\n%s", out.String())
	}
}

func TestExportParameters_FailsForMissingDirectory(t *testing.T) {
	err := exportParameters(testParameters(1), filepath.Join(t.TempDir(), "missing", "params.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected error: %v", err)
	}
}
