package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BielJM1/MRTAOptima/internal/stimulus"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mrtaopt.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[environment]
width = 800

[tasks]
count = 12

[run]
seed = 42

[decision.inertia]
enabled = true
k = 0.25
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 800, cfg.Environment.Width)
	// Untouched sections keep their defaults.
	assert.Equal(t, 480, cfg.Environment.Height)
	assert.Equal(t, 12, cfg.Tasks.Count)
	assert.Equal(t, 100.0, cfg.Tasks.MinSeparation)
	assert.Equal(t, int64(42), cfg.Run.Seed)
	assert.True(t, cfg.Decision.Inertia.Enabled)
	assert.Equal(t, 0.25, cfg.Decision.Inertia.K)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[tasks\ncount = 3\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestParamsConversion(t *testing.T) {
	cfg := Default()
	cfg.Run.Seed = 9
	cfg.Decision.AllowRedirect = true
	cfg.Decision.Inertia = Inertia{Enabled: true, K: 0.5}
	cfg.Decision.Interference = Interference{Enabled: true, Kind: "linear", Gamma: 0.2, Beta: 1}
	cfg.Decision.Operators = Operators{Primary: "owa", PrimaryParams: []float64{0.75}, Secondary: "max"}

	p, err := cfg.Params()
	require.NoError(t, err)

	assert.Equal(t, 640, p.EnvWidth)
	assert.Equal(t, int64(9), p.Seed)
	assert.True(t, p.AllowRedirect)
	require.NotNil(t, p.Inertia)
	assert.Equal(t, 0.5, p.Inertia.K)
	require.NotNil(t, p.Interference)
	assert.Equal(t, stimulus.InterferenceLinear, p.Interference.Kind)
	assert.Equal(t, stimulus.KindOWA, p.Operators.Primary.Kind)
	assert.Equal(t, []float64{0.75}, p.Operators.Primary.Params)
	assert.Equal(t, stimulus.KindMax, p.Operators.Secondary.Kind)
	assert.Nil(t, p.Operators.Secondary.Params, "tie-break operator takes no params")
	assert.Nil(t, p.Start)
}

func TestParamsFixedStart(t *testing.T) {
	x, y := 100.0, 50.0

	cfg := Default()
	cfg.Agents.StartX = &x
	cfg.Agents.StartY = &y
	p, err := cfg.Params()
	require.NoError(t, err)
	require.NotNil(t, p.Start)
	assert.Equal(t, 100.0, p.Start.X)
	assert.Equal(t, 50.0, p.Start.Y)

	cfg = Default()
	cfg.Agents.StartX = &x
	_, err = cfg.Params()
	assert.ErrorContains(t, err, "start_x and start_y")
}

func TestParamsPropagatesValidation(t *testing.T) {
	cfg := Default()
	cfg.Agents.Count = cfg.Tasks.Count + 1
	_, err := cfg.Params()
	assert.Error(t, err)

	cfg = Default()
	cfg.Decision.Interference = Interference{Enabled: true, Kind: "cubic"}
	_, err = cfg.Params()
	assert.Error(t, err)
}
