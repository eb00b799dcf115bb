package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/rlc-resonance/internal/circuit"
	"github.com/roman-kulish/rlc-resonance/internal/solver"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"

	defaultOutputFile = "resonance"
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

// ConfigError is returned for configuration values that cannot be used
type ConfigError struct {
	msg string
}

func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return e.msg
}

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings" json:"-"`
	Circuit  CircuitConfig `yaml:"circuit" json:"circuit"`
	Solver   SolverConfig  `yaml:"solver" json:"solver"`
	Output   OutputConfig  `yaml:"output" json:"-"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// CircuitConfig holds the fixed circuit components
type CircuitConfig struct {
	Inductance  float64 `yaml:"inductance" json:"inductance"`   // Henry
	Capacitance float64 `yaml:"capacitance" json:"capacitance"` // Farad
}

// SolverConfig holds the root-finding parameters shared by both methods
type SolverConfig struct {
	TargetFrequency float64 `yaml:"targetFrequency" json:"targetFrequency"` // Hz
	Tolerance       float64 `yaml:"tolerance" json:"tolerance"`
	MaxIterations   int     `yaml:"maxIterations" json:"maxIterations"`
	InitialGuess    float64 `yaml:"initialGuess" json:"initialGuess"` // Newton-Raphson start, Ohm
	BracketLower    float64 `yaml:"bracketLower" json:"bracketLower"` // Bisection interval, Ohm
	BracketUpper    float64 `yaml:"bracketUpper" json:"bracketUpper"`
}

// OutputConfig controls where results go besides the console
type OutputConfig struct {
	ChartFile string      `yaml:"chartFile"` // without extension
	Format    ImageFormat `yaml:"format"`
	NoChart   bool        `yaml:"noChart"`
	DBPath    string      `yaml:"dbPath"`
	XLSXFile  string      `yaml:"xlsxFile"`
}

// NewConfig returns the reference circuit: L = 0.5 H, C = 10 µF, solved for
// 1000 Hz with a 0.1 tolerance.
func NewConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel: "info",
		},
		Circuit: CircuitConfig{
			Inductance:  0.5,
			Capacitance: 10e-6,
		},
		Solver: SolverConfig{
			TargetFrequency: 1000,
			Tolerance:       0.1,
			MaxIterations:   solver.DefaultMaxIterations,
			InitialGuess:    50,
			BracketLower:    0,
			BracketUpper:    100,
		},
		Output: OutputConfig{
			ChartFile: defaultOutputFile,
			Format:    ImagePNG,
		},
	}
}

// LoadConfig reads a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeConfig(f)
}

func decodeConfig(r io.Reader) (*Config, error) {
	c := NewConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	return c, nil
}

// NewConfigFromCLI builds the configuration from command line arguments,
// usually os.Args[1:]. A file passed with -c is applied first and explicit
// flags override it.
func NewConfigFromCLI(args []string) (*Config, error) {
	fs := flag.NewFlagSet("resonance", flag.ContinueOnError)

	var configPath, outputFile, imageFormat, dbPath, xlsxFile string
	var noChart bool
	fs.StringVar(&configPath, "c", "", "Path to a YAML configuration file")
	fs.StringVar(&outputFile, "o", defaultOutputFile, "Path to the chart file, without extension")
	fs.StringVar(&imageFormat, "f", string(ImagePNG), "Chart image format. [png, jpeg]")
	fs.BoolVar(&noChart, "no-chart", false, "Do not render the chart")
	fs.StringVar(&dbPath, "db", "", "Record the run in this Sqlite database")
	fs.StringVar(&xlsxFile, "xlsx", "", "Export results and iterations to this workbook")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c := NewConfig()
	if configPath != "" {
		var err error
		if c, err = LoadConfig(configPath); err != nil {
			return nil, fmt.Errorf("loading configuration file '%s': %w", configPath, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			c.Output.ChartFile = outputFile
		case "f":
			c.Output.Format = ImageFormat(strings.ToLower(imageFormat))
		case "no-chart":
			c.Output.NoChart = noChart
		case "db":
			c.Output.DBPath = dbPath
		case "xlsx":
			c.Output.XLSXFile = xlsxFile
		}
	})

	if err := c.Validate(); err != nil {
		fs.Usage()
		return nil, err
	}

	return c, nil
}

// Validate checks that every value can be used by the solvers
func (c *Config) Validate() error {
	if err := c.circuitModel().Validate(); err != nil {
		return NewConfigError("%v", err)
	}

	switch {
	case !(c.Solver.TargetFrequency > 0):
		return NewConfigError("target frequency must be positive, got %g", c.Solver.TargetFrequency)
	case !(c.Solver.Tolerance > 0):
		return NewConfigError("tolerance must be positive, got %g", c.Solver.Tolerance)
	case c.Solver.MaxIterations <= 0:
		return NewConfigError("max iterations must be positive, got %d", c.Solver.MaxIterations)
	case !(c.Solver.BracketLower < c.Solver.BracketUpper):
		return NewConfigError("bracket lower bound %g must be below upper bound %g", c.Solver.BracketLower, c.Solver.BracketUpper)
	}

	if _, ok := validImageFormats[c.Output.Format]; !ok {
		return NewConfigError("invalid image format: %s", c.Output.Format)
	}
	if !c.Output.NoChart && c.Output.ChartFile == "" {
		return NewConfigError("chart file is required")
	}

	if _, err := c.LogLevel(); err != nil {
		return NewConfigError("invalid log level: %s", c.Settings.LogLevel)
	}

	return nil
}

// LogLevel parses Settings.LogLevel, e.g. "debug" or "warn"
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Settings.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(c.Settings.LogLevel))
	return level, err
}

// ChartPath is the chart file name including the format extension
func (c *Config) ChartPath() string {
	return fmt.Sprintf("%s.%s", c.Output.ChartFile, c.Output.Format)
}

func (c *Config) circuitModel() circuit.Circuit {
	return circuit.Circuit{
		Inductance:  c.Circuit.Inductance,
		Capacitance: c.Circuit.Capacitance,
	}
}

func (c *Config) solverConfig() solver.Config {
	return solver.Config{
		Target:        c.Solver.TargetFrequency,
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
	}
}

func (c *Config) bracket() solver.Bracket {
	return solver.Bracket{
		Lower: c.Solver.BracketLower,
		Upper: c.Solver.BracketUpper,
	}
}
