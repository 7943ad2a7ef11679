package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nvandessel/obsim/internal/config"
	"github.com/nvandessel/obsim/internal/entropy"
	"github.com/nvandessel/obsim/internal/logging"
	"github.com/nvandessel/obsim/internal/observer"
	"github.com/nvandessel/obsim/internal/plotting"
	"github.com/nvandessel/obsim/internal/store"
	"gonum.org/v1/gonum/floats"
)

// Options configures one experiment run.
type Options struct {
	Grid            []float64
	Steps           int
	SeedDecoherence int64
	SeedOriginal    int64

	// Renderer writes the five figure pairs. Nil skips plotting.
	Renderer *plotting.Renderer

	// Store records the run. Nil skips recording.
	Store store.SweepStore

	// Trace receives one event per estimated λ. Nil-safe.
	Trace *logging.TraceLogger

	// Logger receives progress. Nil discards.
	Logger *slog.Logger
}

// Sweep is one model's pass over the grid.
type Sweep struct {
	Model  string          `json:"model"`
	Seed   int64           `json:"seed"`
	Points []entropy.Point `json:"points"`
}

// Entropies returns the sweep's entropy column.
func (s Sweep) Entropies() []float64 {
	return entropy.Entropies(s.Points)
}

// Result is everything one run produced.
type Result struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Steps       int       `json:"steps"`
	Lambdas     []float64 `json:"lambdas"`
	Decoherence Sweep     `json:"decoherence"`
	Original    Sweep     `json:"original"`
	Collapse    []float64 `json:"collapse"`
	Delta       []float64 `json:"delta"`
	Plots       []string  `json:"plots,omitempty"`
}

// OptionsFromConfig builds the grid and sampling options from cfg.
// Renderer, Store, Trace and Logger are left for the caller.
func OptionsFromConfig(cfg *config.ObsimConfig) (Options, error) {
	sim := cfg.Simulation
	grid, err := observer.Linspace(sim.Grid.Start, sim.Grid.Stop, sim.Grid.Points)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Grid:            grid,
		Steps:           sim.Steps,
		SeedDecoherence: sim.SeedDecoherence,
		SeedOriginal:    sim.SeedOriginal,
	}, nil
}

// Run executes both sweeps, derives the collapse and delta curves, renders
// figures and records the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if err := observer.ValidateGrid(opts.Grid); err != nil {
		return nil, err
	}
	if opts.Steps <= 0 {
		return nil, fmt.Errorf("%w: got %d", entropy.ErrInvalidSteps, opts.Steps)
	}

	result := &Result{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Steps:     opts.Steps,
		Lambdas:   append([]float64(nil), opts.Grid...),
	}
	logger.Info("starting run", "run_id", result.RunID, "points", len(opts.Grid), "steps", opts.Steps)

	// Phase 1: sweeps, each on its own stream.
	var err error
	logger.Info("simulating observer", "model", observer.DecoherenceModel.Name, "seed", opts.SeedDecoherence)
	result.Decoherence, err = runSweep(ctx, observer.DecoherenceModel, opts.Grid, opts.Steps, opts.SeedDecoherence, sweepHooks{
		runID: result.RunID, trace: opts.Trace, logger: logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("simulating observer", "model", observer.OriginalModel.Name, "seed", opts.SeedOriginal)
	result.Original, err = runSweep(ctx, observer.OriginalModel, opts.Grid, opts.Steps, opts.SeedOriginal, sweepHooks{
		runID: result.RunID, trace: opts.Trace, logger: logger,
	})
	if err != nil {
		return nil, err
	}

	// Phase 2: closed-form curve and decoherence effect.
	result.Collapse = observer.CollapseProbabilities(opts.Grid)
	newS, oldS := result.Decoherence.Entropies(), result.Original.Entropies()
	result.Delta = floats.SubTo(make([]float64, len(newS)), newS, oldS)

	// Phase 3: figures.
	if opts.Renderer != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plots, err := renderAll(opts.Renderer, result)
		if err != nil {
			return nil, fmt.Errorf("render plots: %w", err)
		}
		result.Plots = plots
		logger.Info("plots written", "dir", opts.Renderer.Dir, "files", len(plots))
	}

	// Phase 4: record.
	if opts.Store != nil {
		if err := opts.Store.SaveRun(ctx, runRecord(result, opts), pointRecords(result)); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		logger.Debug("run recorded", "run_id", result.RunID)
	}

	logger.Info("run complete", "run_id", result.RunID)
	return result, nil
}

// sweepHooks carries the optional per-point side channels of a sweep.
type sweepHooks struct {
	runID  string
	trace  *logging.TraceLogger
	logger *slog.Logger
}

// runSweep estimates model's entropy over grid on one stream seeded with seed.
func runSweep(ctx context.Context, model observer.Model, grid []float64, steps int, seed int64, hooks sweepHooks) (Sweep, error) {
	if err := ctx.Err(); err != nil {
		return Sweep{}, err
	}

	points, err := entropy.Sweep(grid, model.Law, steps, seed)
	if err != nil {
		return Sweep{}, fmt.Errorf("sweep %s: %w", model.Name, err)
	}

	for i, pt := range points {
		hooks.trace.Log(logging.TraceEvent{
			RunID:       hooks.runID,
			Model:       model.Name,
			Index:       i,
			Lambda:      pt.Lambda,
			Probability: pt.Probability,
			Successes:   pt.Successes,
			Steps:       pt.Steps,
			PHat:        pt.PHat,
			Entropy:     pt.Entropy,
		})
		if hooks.logger != nil {
			hooks.logger.Log(ctx, logging.LevelTrace, "estimated point",
				"model", model.Name, "index", i, "lambda", pt.Lambda, "p_hat", pt.PHat, "entropy", pt.Entropy)
		}
	}

	return Sweep{Model: model.Name, Seed: seed, Points: points}, nil
}

// SweepModel runs a single model's sweep with no run context, as the
// standalone sweep command does.
func SweepModel(ctx context.Context, model observer.Model, grid []float64, steps int, seed int64, logger *slog.Logger) (Sweep, error) {
	if err := observer.ValidateGrid(grid); err != nil {
		return Sweep{}, err
	}
	return runSweep(ctx, model, grid, steps, seed, sweepHooks{logger: logger})
}

// renderAll writes the five figure pairs and returns every path written.
func renderAll(r *plotting.Renderer, res *Result) ([]string, error) {
	newS, oldS := res.Decoherence.Entropies(), res.Original.Entropies()

	renders := []func() ([]string, error){
		func() ([]string, error) { return r.Entropy(res.Lambdas, newS) },
		func() ([]string, error) { return r.EntropyComparison(res.Lambdas, newS, oldS) },
		func() ([]string, error) { return r.Collapse(res.Lambdas, res.Collapse) },
		func() ([]string, error) { return r.DecoherenceEffect(res.Lambdas, newS, oldS) },
		func() ([]string, error) { return r.Summary(res.Lambdas, res.Collapse, newS, oldS) },
	}

	var paths []string
	for _, render := range renders {
		p, err := render()
		if err != nil {
			return nil, err
		}
		paths = append(paths, p...)
	}
	return paths, nil
}

func runRecord(res *Result, opts Options) store.Run {
	return store.Run{
		ID:              res.RunID,
		CreatedAt:       res.CreatedAt,
		Steps:           res.Steps,
		SeedDecoherence: opts.SeedDecoherence,
		SeedOriginal:    opts.SeedOriginal,
		GridStart:       res.Lambdas[0],
		GridStop:        res.Lambdas[len(res.Lambdas)-1],
		GridPoints:      len(res.Lambdas),
	}
}

func pointRecords(res *Result) []store.Point {
	out := make([]store.Point, 0, len(res.Decoherence.Points)+len(res.Original.Points))
	for _, sw := range []Sweep{res.Decoherence, res.Original} {
		for i, pt := range sw.Points {
			out = append(out, store.Point{
				Model:       sw.Model,
				Index:       i,
				Lambda:      pt.Lambda,
				Probability: pt.Probability,
				Successes:   pt.Successes,
				Steps:       pt.Steps,
				PHat:        pt.PHat,
				Entropy:     pt.Entropy,
			})
		}
	}
	return out
}
