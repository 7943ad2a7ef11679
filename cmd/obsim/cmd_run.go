package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/obsim/internal/config"
	"github.com/nvandessel/obsim/internal/experiment"
	"github.com/nvandessel/obsim/internal/logging"
	"github.com/nvandessel/obsim/internal/plotting"
	"github.com/nvandessel/obsim/internal/report"
	"github.com/nvandessel/obsim/internal/store"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run both observer sweeps and render the comparison plots",
		Long: `Simulate the decoherence and original observer models over the λ grid,
compute the collapse probability, and write plots (PDF and PNG) plus the
sweep history into the results directory.

Examples:
  obsim run                                  # defaults: 100 steps, seeds 42/123
  obsim run --steps 1000 --results out       # more samples, other directory
  obsim run --points 200 --start 0 --stop 4  # finer, wider grid
  obsim run --no-plots --json                # numbers only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := newLogger(cmd, cfg)

			opts, err := experiment.OptionsFromConfig(cfg)
			if err != nil {
				return err
			}
			opts.Logger = logger

			dir := cfg.Output.ResultsDir
			if cfg.Output.Plots {
				opts.Renderer = plotting.NewRenderer(dir, cfg.Output.DPI)
			}
			if cfg.Output.Store {
				s, err := store.NewSQLiteSweepStore(dir)
				if err != nil {
					return fmt.Errorf("open sweep store: %w", err)
				}
				defer s.Close()
				opts.Store = s
			}
			opts.Trace = logging.NewTraceLogger(dir, cfg.Logging.Level)
			defer opts.Trace.Close()

			result, err := experiment.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintf(out, "Run %s (%d steps, seeds %d/%d)\n\n",
				result.RunID, result.Steps, result.Decoherence.Seed, result.Original.Seed)
			if err := report.RunTable(out, result); err != nil {
				return err
			}
			if len(result.Plots) > 0 {
				fmt.Fprintf(out, "\n%d plot files written to %s\n", len(result.Plots), dir)
			}
			return nil
		},
	}

	cmd.Flags().Int("steps", 0, "Bernoulli samples per λ (default from config: 100)")
	cmd.Flags().Int64("seed-decoherence", 0, "Seed for the decoherence model sweep (default 42)")
	cmd.Flags().Int64("seed-original", 0, "Seed for the original model sweep (default 123)")
	cmd.Flags().String("results", "", "Results directory (default \"results\")")
	cmd.Flags().Int("points", 0, "Number of λ grid points (default 50)")
	cmd.Flags().Float64("start", 0, "First λ of the grid (default 0.5)")
	cmd.Flags().Float64("stop", 0, "Last λ of the grid (default 2.5)")
	cmd.Flags().Int("dpi", 0, "PNG resolution (default 300)")
	cmd.Flags().Bool("no-plots", false, "Skip rendering plots")
	cmd.Flags().Bool("no-store", false, "Skip recording the run in sweeps.db")

	return cmd
}

// applyRunFlags overrides cfg with every run flag the user set explicitly.
func applyRunFlags(cmd *cobra.Command, cfg *config.ObsimConfig) {
	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Simulation.Steps, _ = flags.GetInt("steps")
	}
	if flags.Changed("seed-decoherence") {
		cfg.Simulation.SeedDecoherence, _ = flags.GetInt64("seed-decoherence")
	}
	if flags.Changed("seed-original") {
		cfg.Simulation.SeedOriginal, _ = flags.GetInt64("seed-original")
	}
	if flags.Changed("results") {
		cfg.Output.ResultsDir, _ = flags.GetString("results")
	}
	if flags.Changed("points") {
		cfg.Simulation.Grid.Points, _ = flags.GetInt("points")
	}
	if flags.Changed("start") {
		cfg.Simulation.Grid.Start, _ = flags.GetFloat64("start")
	}
	if flags.Changed("stop") {
		cfg.Simulation.Grid.Stop, _ = flags.GetFloat64("stop")
	}
	if flags.Changed("dpi") {
		cfg.Output.DPI, _ = flags.GetInt("dpi")
	}
	if noPlots, _ := flags.GetBool("no-plots"); noPlots {
		cfg.Output.Plots = false
	}
	if noStore, _ := flags.GetBool("no-store"); noStore {
		cfg.Output.Store = false
	}
}
