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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultParameters(t *testing.T) {
	params := DefaultParameters()
	require.Equal(t, 100, params.NumRuns)
	require.Equal(t, 100, params.MaxSkipsPerRun)
	require.NotNil(t, params.Logger)
	require.Equal(t, Quiet, params.Verbose)
}

func TestReadParameters_OverridesDefaults(t *testing.T) {
	params, err := ReadParameters(strings.NewReader(`
seed: 12
num-runs: 500
path: "3:1"
end-on-failure: true
timeout: 250ms
verbose: very-verbose
skip-all-after-time-limit: 2s
`))
	require.NoError(t, err)
	require.Equal(t, uint64(12), params.Seed)
	require.Equal(t, 500, params.NumRuns)
	require.Equal(t, "3:1", params.Path)
	require.True(t, params.EndOnFailure)
	require.Equal(t, 250*time.Millisecond, params.Timeout)
	require.Equal(t, VeryVerbose, params.Verbose)
	require.Equal(t, 2*time.Second, params.SkipAllAfterTimeLimit)
	require.Equal(t, 100, params.MaxSkipsPerRun)
}

func TestReadParameters_EmptyInputGivesDefaults(t *testing.T) {
	params, err := ReadParameters(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, 100, params.NumRuns)
}

func TestReadParameters_RejectsInvalidInput(t *testing.T) {
	for _, input := range []string{"verbose: loud", "num-runs: -3", "seed: [1"} {
		_, err := ReadParameters(strings.NewReader(input))
		require.ErrorIs(t, err, ErrInvalidParameters, input)
	}
}

func TestLoadParameters_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num-runs: 7\nverbose: 1\n"), 0o600))
	params, err := LoadParameters(path)
	require.NoError(t, err)
	require.Equal(t, 7, params.NumRuns)
	require.Equal(t, Verbose, params.Verbose)

	_, err = LoadParameters(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestVerbosity_String(t *testing.T) {
	require.Equal(t, "none", Quiet.String())
	require.Equal(t, "very-verbose", VeryVerbose.String())
	require.Equal(t, "Verbosity(7)", Verbosity(7).String())
}
