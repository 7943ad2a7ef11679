package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/obsim/internal/constants"
	"github.com/nvandessel/obsim/internal/report"
	"github.com/nvandessel/obsim/internal/store"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded experiment runs",
		Long: `List and show runs recorded in <results_dir>/sweeps.db.

Examples:
  obsim runs list --limit 5
  obsim runs show 3f1c...`,
	}

	cmd.PersistentFlags().String("results", "", "Results directory holding sweeps.db (default from config)")

	cmd.AddCommand(
		newRunsListCmd(),
		newRunsShowCmd(),
	)

	return cmd
}

func newRunsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			s, err := openSweepStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
					"db":    s.Path(),
				})
			}

			if len(runs) == 0 {
				fmt.Fprintf(out, "No runs recorded in %s.\n", s.Path())
				return nil
			}
			fmt.Fprintf(out, "Runs in %s:\n\n", s.Path())
			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(r.Steps),
					fmt.Sprintf("%d/%d", r.SeedDecoherence, r.SeedOriginal),
					fmt.Sprintf("%d on [%g, %g]", r.GridPoints, r.GridStart, r.GridStop),
				}
			}
			return report.WriteTable(out, []string{"id", "created", "steps", "seeds", "grid"}, rows)
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 for all)")

	return cmd
}

func newRunsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the points of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			model, _ := cmd.Flags().GetString("model")
			id := args[0]

			s, err := openSweepStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			run, err := s.GetRun(ctx, id)
			if errors.Is(err, store.ErrRunNotFound) {
				return fmt.Errorf("run not found: %s", id)
			}
			if err != nil {
				return fmt.Errorf("failed to load run: %w", err)
			}
			points, err := s.Points(ctx, id, model)
			if err != nil {
				return fmt.Errorf("failed to load points: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"run":    run,
					"points": points,
				})
			}

			fmt.Fprintf(out, "Run %s\n", run.ID)
			fmt.Fprintf(out, "  created: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  steps:   %d\n", run.Steps)
			fmt.Fprintf(out, "  seeds:   decoherence=%d original=%d\n", run.SeedDecoherence, run.SeedOriginal)
			fmt.Fprintf(out, "  grid:    %d points on [%g, %g]\n\n", run.GridPoints, run.GridStart, run.GridStop)

			rows := make([][]string, len(points))
			for i, pt := range points {
				rows[i] = []string{
					pt.Model,
					report.Float(pt.Lambda),
					report.Float(pt.Probability),
					fmt.Sprintf("%d/%d", pt.Successes, pt.Steps),
					report.Float(pt.Entropy),
				}
			}
			return report.WriteTable(out, []string{"model", "λ", "p", "successes", "S"}, rows)
		},
	}

	cmd.Flags().String("model", "", "Only show points of this model (decoherence or original)")

	return cmd
}

// openSweepStore opens the sweep history in the results directory. A
// missing database means no run was recorded; it is not created here.
func openSweepStore(cmd *cobra.Command) (*store.SQLiteSweepStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dir := cfg.Output.ResultsDir
	if cmd.Flags().Changed("results") {
		dir, _ = cmd.Flags().GetString("results")
	}

	dbPath := filepath.Join(dir, constants.StoreFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no sweep history at %s (run 'obsim run' first)", dbPath)
	}
	s, err := store.NewSQLiteSweepStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open sweep store: %w", err)
	}
	return s, nil
}
