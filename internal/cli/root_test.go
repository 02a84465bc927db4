package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mrtaopt.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommandPrintsSummary(t *testing.T) {
	path := writeTestConfig(t, `
[tasks]
count = 6
min_separation = 40
max_effort = 8

[agents]
count = 3
`)
	out, err := execute(t, "run", "--config", path, "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "status:")
	assert.Contains(t, out, "mean utility:")
	assert.Contains(t, out, "work done:")
}

func TestRunCommandMissingConfig(t *testing.T) {
	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestSweepCommandWithoutStore(t *testing.T) {
	path := writeTestConfig(t, `
[tasks]
count = 6
min_separation = 40
max_effort = 8

[agents]
count = 3

[sweep]
seed_from = 1
seed_to = 2
redirect = [false, true]
`)
	out, err := execute(t, "sweep", "--config", path, "--no-store")
	require.NoError(t, err)
	assert.Contains(t, out, "4 runs")
	assert.Contains(t, out, "redirect=true")
	assert.Contains(t, out, "redirect=false")
}

func TestSweepCommandExportsCSV(t *testing.T) {
	cfgPath := writeTestConfig(t, `
[tasks]
count = 6
min_separation = 40
max_effort = 8

[agents]
count = 3
`)
	csvPath := filepath.Join(t.TempDir(), "runs.csv")
	_, err := execute(t, "sweep", "--config", cfgPath, "--no-store", "--runs-csv", csvPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "combo;seed;status")
}

func TestResultsCommandEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	out, err := execute(t, "results", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no sweeps stored")
}
