// Package constants provides named constants used throughout the obsim codebase.
// This centralizes magic numbers for better maintainability and documentation.
package constants

// Sampling defaults
const (
	// DefaultSteps is the number of Bernoulli samples drawn per λ.
	DefaultSteps = 100

	// DefaultSeedDecoherence seeds the decoherence (tanh) model sweep.
	DefaultSeedDecoherence = 42

	// DefaultSeedOriginal seeds the original (sigmoid) model sweep.
	DefaultSeedOriginal = 123

	// EntropyEpsilon is added inside both logarithms of the binary entropy
	// so that an empirical mean of exactly 0 or 1 never evaluates ln(0).
	EntropyEpsilon = 1e-9
)

// λ grid defaults
const (
	// DefaultGridStart is the first λ of the default grid.
	DefaultGridStart = 0.5

	// DefaultGridStop is the last λ of the default grid (inclusive).
	DefaultGridStop = 2.5

	// DefaultGridPoints is the number of λ values in the default grid.
	DefaultGridPoints = 50

	// DemoGridPoints is the grid size used by the single-sweep command.
	DemoGridPoints = 10
)

// Decoherence law parameters: p(λ) = TanhOffset + TanhScale·tanh(λ - TanhCenter).
const (
	TanhOffset = 0.5
	TanhScale  = 0.5
	TanhCenter = 1.0
)

// Output defaults
const (
	// DefaultResultsDir is where plots, the sweep store and traces are written.
	DefaultResultsDir = "results"

	// DefaultPNGDPI is the raster resolution for PNG figures.
	DefaultPNGDPI = 300

	// StoreFileName is the SQLite sweep history inside the results directory.
	StoreFileName = "sweeps.db"

	// TraceFileName is the JSONL sample trace inside the results directory.
	TraceFileName = "trace.jsonl"

	// ConfigDirName is the per-user configuration directory under $HOME.
	ConfigDirName = ".obsim"

	// ConfigFileName is the YAML configuration file inside ConfigDirName.
	ConfigFileName = "config.yaml"
)

// Plot file stems. Each plot is written as <stem>.pdf and <stem>.png.
const (
	PlotEntropy           = "plot_entropy"
	PlotEntropyComparison = "plot_entropy_comparison"
	PlotCollapse          = "plot_collapse"
	PlotDecoherence       = "plot_decoherence"
	PlotSummary           = "decoherence_effects"
)

// Model names as stored and accepted on the command line.
const (
	ModelDecoherence = "decoherence"
	ModelOriginal    = "original"
)
