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
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Fantom-foundation/pbt/go/common"
)

// ErrInvalidParameters is returned for unusable run configurations.
const ErrInvalidParameters = common.ConstErr("invalid parameters")

const (
	defaultNumRuns        = 100
	defaultMaxSkipsPerRun = 100
)

// Verbosity controls the amount of detail collected about a check.
type Verbosity int

const (
	// Quiet only reports the final counterexample.
	Quiet Verbosity = iota
	// Verbose collects every failing value encountered while shrinking.
	Verbose
	// VeryVerbose collects the whole execution tree.
	VeryVerbose
)

var verbosityNames = map[Verbosity]string{
	Quiet:       "none",
	Verbose:     "verbose",
	VeryVerbose: "very-verbose",
}

func (v Verbosity) String() string {
	if name, found := verbosityNames[v]; found {
		return name
	}
	return fmt.Sprintf("Verbosity(%d)", int(v))
}

// ParseVerbosity accepts the names produced by String as well as the levels
// 0, 1 and 2.
func ParseVerbosity(text string) (Verbosity, error) {
	for v, name := range verbosityNames {
		if name == text || fmt.Sprint(int(v)) == text {
			return v, nil
		}
	}
	return Quiet, fmt.Errorf("%w, unknown verbosity %q", ErrInvalidParameters, text)
}

func (v *Verbosity) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseVerbosity(node.Value)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Verbosity) MarshalYAML() (any, error) {
	return v.String(), nil
}

// Parameters configures a check. Zero values of NumRuns and MaxSkipsPerRun
// select their defaults; all other zero values disable the respective
// feature.
type Parameters struct {
	Seed uint64 `yaml:"seed"`
	// NumRuns is the number of successful runs required to pass.
	NumRuns int `yaml:"num-runs"`
	// Path replays a recorded location: a run index optionally followed by
	// shrink indices, separated by colons.
	Path string `yaml:"path"`
	// EndOnFailure disables shrinking.
	EndOnFailure bool `yaml:"end-on-failure"`
	// Timeout limits single evaluations of asynchronous properties.
	Timeout time.Duration `yaml:"timeout"`
	// MaxSkipsPerRun bounds the number of skipped values relative to NumRuns.
	MaxSkipsPerRun int       `yaml:"max-skips-per-run"`
	Verbose        Verbosity `yaml:"verbose"`
	Unbiased       bool      `yaml:"unbiased"`
	// SkipAllAfterTimeLimit skips every value once the check ran for longer.
	SkipAllAfterTimeLimit time.Duration `yaml:"skip-all-after-time-limit"`
	// InterruptAfterTimeLimit interrupts the check once it ran for longer.
	InterruptAfterTimeLimit time.Duration `yaml:"interrupt-after-time-limit"`
	// MarkInterruptAsFailure makes interrupted checks fail even if some runs
	// succeeded.
	MarkInterruptAsFailure bool `yaml:"mark-interrupt-as-failure"`
	// SkipEqualValues skips values equal to a value evaluated before.
	SkipEqualValues bool `yaml:"skip-equal-values"`
	// IgnoreEqualValues reuses the outcome of equal values evaluated before.
	IgnoreEqualValues bool `yaml:"ignore-equal-values"`

	Logger logrus.FieldLogger `yaml:"-"`
}

// DefaultParameters returns parameters with a time based seed.
func DefaultParameters() Parameters {
	return Parameters{
		Seed:           uint64(time.Now().UnixNano()),
		NumRuns:        defaultNumRuns,
		MaxSkipsPerRun: defaultMaxSkipsPerRun,
		Logger:         logrus.StandardLogger(),
	}
}

// ReadParameters decodes YAML encoded parameters on top of the defaults.
func ReadParameters(reader io.Reader) (Parameters, error) {
	params := DefaultParameters()
	if err := yaml.NewDecoder(reader).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		return Parameters{}, fmt.Errorf("%w, failed to decode: %v", ErrInvalidParameters, err)
	}
	return params.qualified()
}

// LoadParameters reads YAML encoded parameters from a file.
func LoadParameters(path string) (Parameters, error) {
	file, err := os.Open(path)
	if err != nil {
		return Parameters{}, err
	}
	defer file.Close()
	return ReadParameters(file)
}

// qualified fills in defaults and validates the parameters.
func (p Parameters) qualified() (Parameters, error) {
	if p.NumRuns == 0 {
		p.NumRuns = defaultNumRuns
	}
	if p.MaxSkipsPerRun == 0 {
		p.MaxSkipsPerRun = defaultMaxSkipsPerRun
	}
	if p.Logger == nil {
		p.Logger = logrus.StandardLogger()
	}
	if p.NumRuns < 0 {
		return Parameters{}, fmt.Errorf("%w, number of runs must be positive, got %d", ErrInvalidParameters, p.NumRuns)
	}
	if p.MaxSkipsPerRun < 0 {
		return Parameters{}, fmt.Errorf("%w, skips per run must not be negative, got %d", ErrInvalidParameters, p.MaxSkipsPerRun)
	}
	if p.Timeout < 0 {
		return Parameters{}, fmt.Errorf("%w, timeout must not be negative, got %v", ErrInvalidParameters, p.Timeout)
	}
	return p, nil
}
