package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/nvandessel/obsim/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage obsim configuration",
		Long: `View and modify obsim configuration settings.

Configuration is stored in ~/.obsim/config.yaml unless --config names
another file. OBSIM_* environment variables override the file when
running, but are never written back by "config set".

Examples:
  obsim config list                          # Show all settings
  obsim config get simulation.steps          # Get a specific setting
  obsim config set simulation.steps 1000     # Set a setting
  obsim config set output.results_dir out`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(cfg)
			}

			fmt.Fprintln(out, "Simulation Settings:")
			fmt.Fprintf(out, "  simulation.steps:             %d\n", cfg.Simulation.Steps)
			fmt.Fprintf(out, "  simulation.seed_decoherence:  %d\n", cfg.Simulation.SeedDecoherence)
			fmt.Fprintf(out, "  simulation.seed_original:     %d\n", cfg.Simulation.SeedOriginal)
			fmt.Fprintf(out, "  simulation.grid.start:        %g\n", cfg.Simulation.Grid.Start)
			fmt.Fprintf(out, "  simulation.grid.stop:         %g\n", cfg.Simulation.Grid.Stop)
			fmt.Fprintf(out, "  simulation.grid.points:       %d\n", cfg.Simulation.Grid.Points)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Output Settings:")
			fmt.Fprintf(out, "  output.results_dir:  %s\n", cfg.Output.ResultsDir)
			fmt.Fprintf(out, "  output.dpi:          %d\n", cfg.Output.DPI)
			fmt.Fprintf(out, "  output.plots:        %v\n", cfg.Output.Plots)
			fmt.Fprintf(out, "  output.store:        %v\n", cfg.Output.Store)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Logging Settings:")
			fmt.Fprintf(out, "  logging.level:  %s\n", valueOrDefault(cfg.Logging.Level, "(default)"))
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			value, found := getConfigValue(cfg, key)
			if !found {
				if jsonOut {
					json.NewEncoder(out).Encode(map[string]interface{}{
						"error": "key not found",
						"key":   key,
					})
				} else {
					fmt.Fprintf(out, "Unknown configuration key: %s\n", key)
				}
				return nil
			}

			if jsonOut {
				json.NewEncoder(out).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			} else {
				fmt.Fprintf(out, "%s = %v\n", key, value)
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [flags] <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save it.

Flags go before the key; everything after it is taken literally, so
negative numbers need no escaping:
  obsim config set simulation.seed_original -5
  obsim config set --config ./obsim.yaml simulation.grid.start -1.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]
			value := args[1]

			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			// Start from the file alone so environment overrides are not persisted.
			cfg, err := config.LoadFromFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				cfg, err = config.Default(), nil
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			if err := setConfigValue(cfg, key, value); err != nil {
				if jsonOut {
					json.NewEncoder(out).Encode(map[string]interface{}{
						"error": err.Error(),
						"key":   key,
					})
				} else {
					fmt.Fprintf(out, "Error: %v\n", err)
				}
				return nil
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				json.NewEncoder(out).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
					"path":   path,
				})
			} else {
				fmt.Fprintf(out, "Set %s = %s\n", key, value)
			}
			return nil
		},
	}

	// Values such as "-5" must not be parsed as shorthand flags.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// configPath returns --config when set, else ~/.obsim/config.yaml.
func configPath(cmd *cobra.Command) (string, error) {
	if path := stringFlag(cmd, "config"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.ObsimConfig, key string) (interface{}, bool) {
	switch key {
	case "simulation.steps":
		return cfg.Simulation.Steps, true
	case "simulation.seed_decoherence":
		return cfg.Simulation.SeedDecoherence, true
	case "simulation.seed_original":
		return cfg.Simulation.SeedOriginal, true
	case "simulation.grid.start":
		return cfg.Simulation.Grid.Start, true
	case "simulation.grid.stop":
		return cfg.Simulation.Grid.Stop, true
	case "simulation.grid.points":
		return cfg.Simulation.Grid.Points, true
	case "output.results_dir":
		return cfg.Output.ResultsDir, true
	case "output.dpi":
		return cfg.Output.DPI, true
	case "output.plots":
		return cfg.Output.Plots, true
	case "output.store":
		return cfg.Output.Store, true
	case "logging.level":
		return cfg.Logging.Level, true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.ObsimConfig, key, value string) error {
	switch key {
	case "simulation.steps":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid steps: %s (must be a positive integer)", value)
		}
		cfg.Simulation.Steps = n
	case "simulation.seed_decoherence":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", value)
		}
		cfg.Simulation.SeedDecoherence = n
	case "simulation.seed_original":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", value)
		}
		cfg.Simulation.SeedOriginal = n
	case "simulation.grid.start":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid grid start: %s", value)
		}
		cfg.Simulation.Grid.Start = f
	case "simulation.grid.stop":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid grid stop: %s", value)
		}
		cfg.Simulation.Grid.Stop = f
	case "simulation.grid.points":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid grid points: %s (must be at least 1)", value)
		}
		cfg.Simulation.Grid.Points = n
	case "output.results_dir":
		if value == "" {
			return fmt.Errorf("results_dir must not be empty")
		}
		cfg.Output.ResultsDir = value
	case "output.dpi":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid dpi: %s (must be a positive integer)", value)
		}
		cfg.Output.DPI = n
	case "output.plots":
		cfg.Output.Plots = value == "true" || value == "1"
	case "output.store":
		cfg.Output.Store = value == "true" || value == "1"
	case "logging.level":
		validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
		if !validLevels[value] {
			return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", value)
		}
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
