package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/linebalance/pkg/export"
)

const projectYAML = `housesCount: 12
startDate: "2026-04-06"
workPackages:
  - name: Fundação
    duration: 1
    rhythm: 4
    cost: 12000
  - name: Alvenaria
    duration: 2
    rhythm: 4
    latency: 1
    cost: 24000
`

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestCalculateCommand(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", projectYAML)
	result := filepath.Join(dir, "result.json")
	matrix := filepath.Join(dir, "matrix.csv")
	financial := filepath.Join(dir, "financial.csv")

	out, err := execute(t, "calculate", "--project", project, "--out", result,
		"--matrix-csv", matrix, "--financial-csv", financial, "--progress")
	require.NoError(t, err)
	assert.Contains(t, out, "casas:    12")
	assert.Contains(t, out, "R$ 36.000,00")
	assert.Contains(t, out, "    Fundação: R$ 12.000,00\n")
	assert.Contains(t, out, "    Alvenaria: R$ 24.000,00\n")

	res, err := loadResult(result)
	require.NoError(t, err)
	assert.Len(t, res.Houses, 12)

	f, err := os.Open(matrix)
	require.NoError(t, err)
	defer f.Close()
	grid, err := export.ReadMatrixCSV(f)
	require.NoError(t, err)
	assert.Equal(t, res.Weeks, grid.Weeks)
	assert.Equal(t, "Fundação", grid.Cells[0][0])

	fin, err := os.ReadFile(financial)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(fin), "week_index,week_label,weekly_cost,cumulative_cost,active_houses,Fundação,Alvenaria\n"))
	assert.Len(t, strings.Split(strings.TrimSpace(string(fin)), "\n"), res.Metadata.TotalProjectDuration+1)
}

func TestCalculateRequiresProject(t *testing.T) {
	_, err := execute(t, "calculate")
	assert.ErrorContains(t, err, "either --project or --default is required")

	_, err = execute(t, "calculate", "--default", "--project", "x.yaml")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", projectYAML)
	out, err := execute(t, "validate", "--project", good)
	require.NoError(t, err)
	assert.Contains(t, out, "project is valid")

	bad := writeFile(t, dir, "bad.yaml", "housesCount: 0\nstartDate: \"2026-04-06\"\nworkPackages: []\n")
	out, err = execute(t, "validate", "--project", bad)
	assert.ErrorContains(t, err, "2 validation errors")
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "- ") {
			n++
		}
	}
	assert.Equal(t, 2, n)
}

func TestRollupCommand(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", projectYAML)
	result := filepath.Join(dir, "result.json")
	_, err := execute(t, "calculate", "--project", project, "--out", result)
	require.NoError(t, err)

	out, err := execute(t, "rollup", "--result", result, "--unit", "m")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "period_key,period,full_period,period_cost,cumulative_cost,houses_completed,active_developments", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2026-04,abr/26,"), lines[1])

	out, err = execute(t, "rollup", "--project", project, "--unit", "year", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"timeUnit": "yearly"`)

	_, err = execute(t, "rollup", "--result", result, "--unit", "decade")
	assert.Error(t, err)
}

func TestScenarioCommands(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", projectYAML)
	config := writeFile(t, dir, "config.yaml", "store:\n  backend: sqlite\n  path: "+filepath.Join(dir, "scenarios.db")+"\n")

	out, err := execute(t, "scenarios", "save", "-c", config, "--project", project, "--name", "Lote A")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 3)
	id := fields[0]
	assert.Equal(t, "1", fields[2])

	out, err = execute(t, "scenarios", "ls", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Lote A")
	assert.Contains(t, out, "36.000,00")

	out, err = execute(t, "export", "-c", config, "--scenario", id, "--kind", "matrix")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Casa,S01,"))

	out, err = execute(t, "scenarios", "show", "-c", config, id)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Lote A"`)

	_, err = execute(t, "scenarios", "rm", "-c", config, id)
	require.NoError(t, err)
	_, err = execute(t, "scenarios", "rm", "-c", config, id)
	assert.ErrorContains(t, err, "scenario not found")
}

func TestExplicitMissingConfigFails(t *testing.T) {
	_, err := execute(t, "validate", "--default", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "load config")
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", projectYAML)
	history := filepath.Join(dir, "calculations.jsonl")
	config := writeFile(t, dir, "config.yaml", "metrics:\n  sinks:\n    - type: jsonl\n      conf:\n        path: "+history+"\n")

	_, err := execute(t, "calculate", "-c", config, "--project", project)
	require.NoError(t, err)
	bad := writeFile(t, dir, "bad.yaml", "housesCount: 0\nstartDate: \"2026-04-06\"\nworkPackages: []\n")
	_, err = execute(t, "calculate", "-c", config, "--project", bad)
	require.Error(t, err)

	out, err := execute(t, "history", "-c", config)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(out), "\n")))
	assert.Contains(t, out, "36.000,00")

	out, err = execute(t, "history", "-c", config, "--status", "error")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "error")
}
