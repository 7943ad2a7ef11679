package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/obsim/internal/constants"
	"github.com/nvandessel/obsim/internal/experiment"
	"github.com/nvandessel/obsim/internal/observer"
	"github.com/nvandessel/obsim/internal/report"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a single model sweep and print its entropies",
		Long: `Estimate one observer model's entropy over a λ grid without plotting
or recording anything. The seed defaults to the model's own default.

Examples:
  obsim sweep --model decoherence
  obsim sweep --model original --seed 7 --points 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			modelName, _ := cmd.Flags().GetString("model")
			points, _ := cmd.Flags().GetInt("points")
			start, _ := cmd.Flags().GetFloat64("start")
			stop, _ := cmd.Flags().GetFloat64("stop")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			model, err := observer.ModelByName(modelName)
			if err != nil {
				return err
			}

			steps := cfg.Simulation.Steps
			if cmd.Flags().Changed("steps") {
				steps, _ = cmd.Flags().GetInt("steps")
			}
			seed := model.DefaultSeed
			if cmd.Flags().Changed("seed") {
				seed, _ = cmd.Flags().GetInt64("seed")
			}

			grid, err := observer.Linspace(start, stop, points)
			if err != nil {
				return err
			}

			sw, err := experiment.SweepModel(cmd.Context(), model, grid, steps, seed, newLogger(cmd, cfg))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sw)
			}

			fmt.Fprintf(out, "Model %s (seed %d, %d steps)\n\n", sw.Model, sw.Seed, steps)
			return report.PointTable(out, sw.Points)
		},
	}

	cmd.Flags().String("model", constants.ModelDecoherence, "Model: decoherence or original")
	cmd.Flags().Int64("seed", 0, "Random seed (default: the model's seed)")
	cmd.Flags().Int("steps", 0, "Bernoulli samples per λ (default from config)")
	cmd.Flags().Int("points", constants.DemoGridPoints, "Number of λ grid points")
	cmd.Flags().Float64("start", constants.DefaultGridStart, "First λ of the grid")
	cmd.Flags().Float64("stop", constants.DefaultGridStop, "Last λ of the grid")

	return cmd
}
