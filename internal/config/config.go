// Package config provides unified configuration loading for obsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/obsim/internal/constants"
	"gopkg.in/yaml.v3"
)

// ObsimConfig contains all obsim configuration settings.
type ObsimConfig struct {
	// Simulation contains the sampling parameters of an experiment run.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Output controls where and what a run writes.
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains settings for operational logging and sample traces.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig holds the three named run values plus the λ grid.
type SimulationConfig struct {
	// Steps is the number of Bernoulli samples per λ. Must be positive.
	Steps int `json:"steps" yaml:"steps"`

	// SeedDecoherence seeds the decoherence model sweep.
	SeedDecoherence int64 `json:"seed_decoherence" yaml:"seed_decoherence"`

	// SeedOriginal seeds the original model sweep.
	SeedOriginal int64 `json:"seed_original" yaml:"seed_original"`

	// Grid is the λ grid both sweeps run over.
	Grid GridConfig `json:"grid" yaml:"grid"`
}

// GridConfig describes an evenly spaced, inclusive λ grid.
type GridConfig struct {
	Start  float64 `json:"start" yaml:"start"`
	Stop   float64 `json:"stop" yaml:"stop"`
	Points int     `json:"points" yaml:"points"`
}

// OutputConfig configures run artifacts.
type OutputConfig struct {
	// ResultsDir receives plots, the sweep store and traces. Created if absent.
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// DPI is the PNG raster resolution.
	DPI int `json:"dpi" yaml:"dpi"`

	// Plots enables figure rendering.
	Plots bool `json:"plots" yaml:"plots"`

	// Store enables recording runs in <results_dir>/sweeps.db.
	Store bool `json:"store" yaml:"store"`
}

// LoggingConfig configures obsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the per-λ sample trace in <results_dir>/trace.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns an ObsimConfig with the experiment's standard values.
func Default() *ObsimConfig {
	return &ObsimConfig{
		Simulation: SimulationConfig{
			Steps:           constants.DefaultSteps,
			SeedDecoherence: constants.DefaultSeedDecoherence,
			SeedOriginal:    constants.DefaultSeedOriginal,
			Grid: GridConfig{
				Start:  constants.DefaultGridStart,
				Stop:   constants.DefaultGridStop,
				Points: constants.DefaultGridPoints,
			},
		},
		Output: OutputConfig{
			ResultsDir: constants.DefaultResultsDir,
			DPI:        constants.DefaultPNGDPI,
			Plots:      true,
			Store:      true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.obsim/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.ConfigDirName, constants.ConfigFileName), nil
}

// Load loads configuration from path, or from the default location when
// path is empty, then applies environment variable overrides.
// Order: defaults -> config file -> environment variables.
// An explicit path must exist; the default location is optional.
func Load(path string) (*ObsimConfig, error) {
	config := Default()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	} else if defaultPath, err := DefaultPath(); err == nil {
		if _, statErr := os.Stat(defaultPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(defaultPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Keys absent from the file keep their defaults.
func LoadFromFile(path string) (*ObsimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration as YAML to path, creating parent directories.
func Save(cfg *ObsimConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is valid.
func (c *ObsimConfig) Validate() error {
	if c.Simulation.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Simulation.Steps)
	}

	if c.Simulation.Grid.Points < 1 {
		return fmt.Errorf("grid points must be at least 1, got %d", c.Simulation.Grid.Points)
	}

	if c.Simulation.Grid.Points > 1 && c.Simulation.Grid.Stop <= c.Simulation.Grid.Start {
		return fmt.Errorf("grid stop (%g) must be greater than start (%g)", c.Simulation.Grid.Stop, c.Simulation.Grid.Start)
	}

	if c.Output.ResultsDir == "" {
		return fmt.Errorf("results_dir must not be empty")
	}

	if c.Output.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.Output.DPI)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Unparseable numeric values are ignored.
func applyEnvOverrides(config *ObsimConfig) {
	if v := os.Getenv("OBSIM_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Steps = n
		}
	}

	if v := os.Getenv("OBSIM_SEED_DECOHERENCE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Simulation.SeedDecoherence = n
		}
	}

	if v := os.Getenv("OBSIM_SEED_ORIGINAL"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Simulation.SeedOriginal = n
		}
	}

	if v := os.Getenv("OBSIM_RESULTS_DIR"); v != "" {
		config.Output.ResultsDir = v
	}

	if v := os.Getenv("OBSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
