package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nvandessel/obsim/internal/config"
	"github.com/nvandessel/obsim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional: a .env in the working directory may carry OBSIM_* overrides.
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "obsim",
		Short: "Observer entropy Monte Carlo - decoherence vs original model",
		Long: `obsim simulates two probabilistic observer models over a grid of λ
(scale of distinguishability), estimates their entropy by Bernoulli sampling,
computes the collapse probability curve, and renders comparison plots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.obsim/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newCollapseCmd(),
		newRunsCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

// loadConfig loads configuration honoring --config and --log-level.
func loadConfig(cmd *cobra.Command) (*config.ObsimConfig, error) {
	cfg, err := config.Load(stringFlag(cmd, "config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level := stringFlag(cmd, "log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// stringFlag returns a flag's value whether it is local, inherited or a
// persistent flag of cmd itself. Unknown flags read as "".
func stringFlag(cmd *cobra.Command, name string) string {
	f := cmd.Flag(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// newLogger returns the stderr logger for cfg.
func newLogger(cmd *cobra.Command, cfg *config.ObsimConfig) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}
