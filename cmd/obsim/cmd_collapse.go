package main

import (
	"encoding/json"

	"github.com/nvandessel/obsim/internal/observer"
	"github.com/nvandessel/obsim/internal/report"
	"github.com/spf13/cobra"
)

func newCollapseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collapse",
		Short: "Print the collapse probability over the λ grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g := cfg.Simulation.Grid
			if cmd.Flags().Changed("points") {
				g.Points, _ = cmd.Flags().GetInt("points")
			}

			grid, err := observer.Linspace(g.Start, g.Stop, g.Points)
			if err != nil {
				return err
			}
			probs := observer.CollapseProbabilities(grid)

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"lambdas":  grid,
					"collapse": probs,
				})
			}

			rows := make([][]string, len(grid))
			for i := range grid {
				rows[i] = []string{report.Float(grid[i]), report.Float(probs[i])}
			}
			return report.WriteTable(out, []string{"λ", "p_collapse"}, rows)
		},
	}

	cmd.Flags().Int("points", 0, "Number of λ grid points (default from config)")

	return cmd
}
