package app

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fluiddruid/telemproc/internal/flight"
)

const defaultExportSuffix = ".clean.csv"

// Config represents the main application configuration, assembled from
// an optional YAML file and CLI flags. Flags win over file values.
type Config struct {
	Settings Settings       `yaml:"settings"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
	Export   ExportConfig   `yaml:"export"`

	// Inputs are the positional input file paths.
	Inputs []string `yaml:"-"`
}

// Settings represents global application settings.
type Settings struct {
	LogLevel string `yaml:"logLevel"`

	// Workers is the number of input files processed concurrently.
	// Files share no state, so any value is safe.
	Workers int `yaml:"workers"`
}

// SlogLevel parses the configured log level, defaulting to info.
func (s Settings) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// AnalysisConfig carries the four analysis tunables.
type AnalysisConfig struct {
	MaxVoltageDiff  float64 `yaml:"maxVoltageDiff"`  // V
	MaxAltitudeDiff float64 `yaml:"maxAltitudeDiff"` // m
	MinCurrent      float64 `yaml:"minCurrent"`      // A
	SmoothUnits     int     `yaml:"smoothUnits"`     // rows per tick
}

// StorageConfig represents logbook settings.
type StorageConfig struct {
	Database string `yaml:"database"` // sqlite path; empty disables the logbook
}

// ExportConfig represents output settings.
type ExportConfig struct {
	Suffix   string `yaml:"suffix"`   // replaces the input extension
	Workbook bool   `yaml:"workbook"` // also write an .xlsx summary
}

func NewConfig() *Config {
	t := flight.DefaultThresholds()
	return &Config{
		Settings: Settings{
			LogLevel: "info",
			Workers:  1,
		},
		Analysis: AnalysisConfig{
			MaxVoltageDiff:  t.MaxVoltageDiff,
			MaxAltitudeDiff: t.MaxAltitudeDiff,
			MinCurrent:      t.MinCurrent,
			SmoothUnits:     t.SmoothUnits,
		},
		Export: ExportConfig{
			Suffix: defaultExportSuffix,
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	c := NewConfig()
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}
	return c, nil
}

// NewConfigFromCLI builds the configuration from flags and positional
// input paths.
func NewConfigFromCLI() (*Config, error) {
	var configPath, dbPath string
	var workbook bool
	var workers int

	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.StringVar(&dbPath, "db", "", "Path to the logbook database (overrides configuration)")
	flag.BoolVar(&workbook, "xlsx", false, "Also write an .xlsx summary workbook per input")
	flag.IntVar(&workers, "j", 0, "Number of files processed concurrently (overrides configuration)")
	flag.Parse()

	c := NewConfig()
	if configPath != "" {
		var err error
		if c, err = LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	if dbPath != "" {
		c.Storage.Database = dbPath
	}
	if workbook {
		c.Export.Workbook = true
	}
	if workers > 0 {
		c.Settings.Workers = workers
	}

	c.Inputs = flag.Args()
	if len(c.Inputs) == 0 {
		flag.Usage()
		return nil, errors.New("no input files given")
	}

	if err := c.Thresholds().Validate(); err != nil {
		return nil, err
	}
	if c.Export.Suffix == "" {
		c.Export.Suffix = defaultExportSuffix
	}
	if c.Settings.Workers < 1 {
		c.Settings.Workers = 1
	}

	return c, nil
}

// Thresholds converts the analysis section into the immutable value the
// engine consumes.
func (c *Config) Thresholds() flight.Thresholds {
	return flight.Thresholds{
		MaxVoltageDiff:  c.Analysis.MaxVoltageDiff,
		MaxAltitudeDiff: c.Analysis.MaxAltitudeDiff,
		MinCurrent:      c.Analysis.MinCurrent,
		SmoothUnits:     c.Analysis.SmoothUnits,
	}
}
