// Package config loads and validates the TOML configuration of a simulation
// run and of a parameter sweep.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/BielJM1/MRTAOptima/internal/geom"
	"github.com/BielJM1/MRTAOptima/internal/sim"
	"github.com/BielJM1/MRTAOptima/internal/stimulus"
)

type Config struct {
	Environment Environment `toml:"environment"`
	Tasks       Tasks       `toml:"tasks"`
	Agents      Agents      `toml:"agents"`
	Run         Run         `toml:"run"`
	Decision    Decision    `toml:"decision"`
	Sweep       Sweep       `toml:"sweep"`
	Path        string      `toml:"-"`
}

type Environment struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Tasks struct {
	Count             int     `toml:"count"`
	MinSeparation     float64 `toml:"min_separation"`
	MinUtility        float64 `toml:"min_utility"`
	MaxUtility        float64 `toml:"max_utility"`
	MinEffort         int     `toml:"min_effort"`
	MaxEffort         int     `toml:"max_effort"`
	MinDeadlineFactor float64 `toml:"min_deadline_factor"`
	MaxDeadlineFactor float64 `toml:"max_deadline_factor"`
	MaxAgentsPerTask  int     `toml:"max_agents_per_task"`
}

type Agents struct {
	Count             int     `toml:"count"`
	MinVelocityFactor float64 `toml:"min_velocity_factor"`
	MinWorkCapacity   int     `toml:"min_work_capacity"`
	MaxWorkCapacity   int     `toml:"max_work_capacity"`
	// StartX/StartY, when both set, place every agent at that coordinate
	// instead of on a random task.
	StartX *float64 `toml:"start_x"`
	StartY *float64 `toml:"start_y"`
}

type Run struct {
	Seed              int64   `toml:"seed"`
	TerminationFactor float64 `toml:"termination_factor"`
	InstantTravel     bool    `toml:"instant_travel"`
	FixedOrder        bool    `toml:"fixed_order"`
	Verbose           bool    `toml:"verbose"`
}

type Decision struct {
	AllowRedirect bool         `toml:"allow_redirect"`
	Inertia       Inertia      `toml:"inertia"`
	Interference  Interference `toml:"interference"`
	Operators     Operators    `toml:"operators"`
}

type Inertia struct {
	Enabled bool    `toml:"enabled"`
	K       float64 `toml:"k"`
}

type Interference struct {
	Enabled bool    `toml:"enabled"`
	Kind    string  `toml:"kind"`
	Gamma   float64 `toml:"gamma"`
	Beta    float64 `toml:"beta"`
}

// Operators selects the aggregation pair. The tie-break operator is
// parameterless, so only the primary takes params.
type Operators struct {
	Primary       string    `toml:"primary"`
	PrimaryParams []float64 `toml:"primary_params"`
	Secondary     string    `toml:"secondary"`
}

// Sweep describes the configuration cross product the sweep driver expands.
// Every listed dimension is combined with every other; seeds are an
// inclusive range.
type Sweep struct {
	SeedFrom int64 `toml:"seed_from"`
	SeedTo   int64 `toml:"seed_to"`

	Inertia  []bool    `toml:"inertia"`
	InertiaK []float64 `toml:"inertia_k"`

	Interference         []bool                `toml:"interference"`
	InterferenceVariants []InterferenceVariant `toml:"interference_variants"`

	Redirect []bool `toml:"redirect"`

	Operators []OperatorVariant `toml:"operator_variants"`
}

type InterferenceVariant struct {
	Kind  string  `toml:"kind"`
	Gamma float64 `toml:"gamma"`
	Beta  float64 `toml:"beta"`
}

// OperatorVariant is one aggregation-operator pairing to sweep, optionally
// with several primary parameter sets (one run per set).
type OperatorVariant struct {
	Primary   string      `toml:"primary"`
	Secondary string      `toml:"secondary"`
	Params    [][]float64 `toml:"params"`
}

// Default returns the reference configuration: a 640x480 environment with 20
// well-separated tasks and 10 agents.
func Default() Config {
	return Config{
		Environment: Environment{Width: 640, Height: 480},
		Tasks: Tasks{
			Count:             20,
			MinSeparation:     100,
			MinUtility:        0.75,
			MaxUtility:        1.0,
			MinEffort:         4,
			MaxEffort:         30,
			MinDeadlineFactor: 2.5,
			MaxDeadlineFactor: 4.0,
			MaxAgentsPerTask:  3,
		},
		Agents: Agents{
			Count:             10,
			MinVelocityFactor: 0.8,
			MinWorkCapacity:   1,
			MaxWorkCapacity:   2,
		},
		Run: Run{
			Seed:              6,
			TerminationFactor: 10,
		},
		Decision: Decision{
			Operators: Operators{Secondary: string(stimulus.KindMax)},
		},
	}
}

// Load reads a TOML file over the defaults. An empty path falls back to
// mrtaopt.toml in the working directory.
func Load(path string) (Config, error) {
	resolved := path
	if resolved == "" {
		resolved = "mrtaopt.toml"
	}
	if strings.HasPrefix(resolved, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed := strings.TrimPrefix(resolved, "~")
		trimmed = strings.TrimPrefix(trimmed, "/")
		resolved = filepath.Join(home, trimmed)
	}
	resolved = filepath.Clean(resolved)

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", resolved, err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(bytes), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config file: %w", err)
	}
	cfg.Path = resolved
	return cfg, nil
}

// Params converts the single-run sections into validated simulation
// parameters.
func (c Config) Params() (sim.Params, error) {
	p := sim.Params{
		EnvWidth:          c.Environment.Width,
		EnvHeight:         c.Environment.Height,
		TaskCount:         c.Tasks.Count,
		MinTaskSeparation: c.Tasks.MinSeparation,
		MinUtility:        c.Tasks.MinUtility,
		MaxUtility:        c.Tasks.MaxUtility,
		MinEffort:         c.Tasks.MinEffort,
		MaxEffort:         c.Tasks.MaxEffort,
		MinDeadlineFactor: c.Tasks.MinDeadlineFactor,
		MaxDeadlineFactor: c.Tasks.MaxDeadlineFactor,
		MaxAgentsPerTask:  c.Tasks.MaxAgentsPerTask,
		AgentCount:        c.Agents.Count,
		MinVelocityFactor: c.Agents.MinVelocityFactor,
		MinWorkCapacity:   c.Agents.MinWorkCapacity,
		MaxWorkCapacity:   c.Agents.MaxWorkCapacity,
		InstantTravel:     c.Run.InstantTravel,
		AllowRedirect:     c.Decision.AllowRedirect,
		FixedOrder:        c.Run.FixedOrder,
		TerminationFactor: c.Run.TerminationFactor,
		Seed:              c.Run.Seed,
		Verbose:           c.Run.Verbose,
	}

	if (c.Agents.StartX == nil) != (c.Agents.StartY == nil) {
		return sim.Params{}, fmt.Errorf("start_x and start_y must be set together")
	}
	if c.Agents.StartX != nil {
		start := geom.Pt(*c.Agents.StartX, *c.Agents.StartY)
		p.Start = &start
	}

	if c.Decision.Inertia.Enabled {
		p.Inertia = &sim.InertiaParams{K: c.Decision.Inertia.K}
	}
	if c.Decision.Interference.Enabled {
		p.Interference = &sim.InterferenceParams{
			Kind:  stimulus.InterferenceKind(c.Decision.Interference.Kind),
			Gamma: c.Decision.Interference.Gamma,
			Beta:  c.Decision.Interference.Beta,
		}
	}
	if c.Decision.Operators.Primary != "" {
		p.Operators.Primary = stimulus.Operator{
			Kind:   stimulus.Kind(c.Decision.Operators.Primary),
			Params: c.Decision.Operators.PrimaryParams,
		}
	}
	if c.Decision.Operators.Secondary != "" {
		p.Operators.Secondary = stimulus.Operator{Kind: stimulus.Kind(c.Decision.Operators.Secondary)}
	}

	if err := p.Validate(); err != nil {
		return sim.Params{}, err
	}
	return p, nil
}
