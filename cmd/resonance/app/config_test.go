package app

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.Validate())

	assert.Equal(t, 0.5, c.Circuit.Inductance)
	assert.Equal(t, 10e-6, c.Circuit.Capacitance)
	assert.Equal(t, 1000.0, c.Solver.TargetFrequency)
	assert.Equal(t, 0.1, c.Solver.Tolerance)
	assert.Equal(t, 50.0, c.Solver.InitialGuess)
	assert.Equal(t, 0.0, c.Solver.BracketLower)
	assert.Equal(t, 100.0, c.Solver.BracketUpper)
	assert.Equal(t, 100, c.Solver.MaxIterations)
	assert.Equal(t, "resonance.png", c.ChartPath())
}

func TestNewConfigFromCLI_NoArguments(t *testing.T) {
	c, err := NewConfigFromCLI(nil)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), c)
}

func TestNewConfigFromCLI_FileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
settings:
  logLevel: debug
circuit:
  inductance: 0.04
  capacitance: 0.62e-6
solver:
  maxIterations: 25
output:
  format: jpeg
  dbPath: from-file.sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := NewConfigFromCLI([]string{"-c", path, "-db", "runs.sqlite", "-o", "out/chart", "-xlsx", "runs.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, 0.04, c.Circuit.Inductance)
	assert.Equal(t, 0.62e-6, c.Circuit.Capacitance)
	assert.Equal(t, 25, c.Solver.MaxIterations)
	assert.Equal(t, 1000.0, c.Solver.TargetFrequency, "unset fields keep their defaults")
	assert.Equal(t, "runs.sqlite", c.Output.DBPath, "flags override the file")
	assert.Equal(t, "runs.xlsx", c.Output.XLSXFile)
	assert.Equal(t, "out/chart.jpeg", c.ChartPath())

	level, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_UnknownField(t *testing.T) {
	_, err := decodeConfig(strings.NewReader("circuit:\n  resistance: 5\n"))
	assert.Error(t, err)
}

func TestLoadConfig_Empty(t *testing.T) {
	c, err := decodeConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), c)
}

func TestLoadConfig_NaNRejected(t *testing.T) {
	c, err := decodeConfig(strings.NewReader("circuit:\n  inductance: .nan\n"))
	require.NoError(t, err)
	require.True(t, math.IsNaN(c.Circuit.Inductance))

	var cerr *ConfigError
	assert.True(t, errors.As(c.Validate(), &cerr))
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := NewConfigFromCLI([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero inductance", func(c *Config) { c.Circuit.Inductance = 0 }},
		{"negative capacitance", func(c *Config) { c.Circuit.Capacitance = -1 }},
		{"zero target", func(c *Config) { c.Solver.TargetFrequency = 0 }},
		{"zero tolerance", func(c *Config) { c.Solver.Tolerance = 0 }},
		{"zero iterations", func(c *Config) { c.Solver.MaxIterations = 0 }},
		{"inverted bracket", func(c *Config) { c.Solver.BracketLower, c.Solver.BracketUpper = 100, 0 }},
		{"NaN inductance", func(c *Config) { c.Circuit.Inductance = math.NaN() }},
		{"NaN capacitance", func(c *Config) { c.Circuit.Capacitance = math.NaN() }},
		{"NaN target", func(c *Config) { c.Solver.TargetFrequency = math.NaN() }},
		{"NaN tolerance", func(c *Config) { c.Solver.Tolerance = math.NaN() }},
		{"NaN bracket", func(c *Config) { c.Solver.BracketUpper = math.NaN() }},
		{"bad format", func(c *Config) { c.Output.Format = "gif" }},
		{"missing chart file", func(c *Config) { c.Output.ChartFile = "" }},
		{"bad log level", func(c *Config) { c.Settings.LogLevel = "loud" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.modify(c)

			err := c.Validate()
			var cerr *ConfigError
			assert.True(t, errors.As(err, &cerr), "got %v", err)
		})
	}
}

func TestConfig_NoChartWithoutFile(t *testing.T) {
	c := NewConfig()
	c.Output.ChartFile = ""
	c.Output.NoChart = true
	assert.NoError(t, c.Validate())
}
