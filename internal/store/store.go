// Package store defines the SweepStore interface for recording experiment
// runs and the per-λ points each sweep produced.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run is the header of one experiment run.
type Run struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Steps           int       `json:"steps"`
	SeedDecoherence int64     `json:"seed_decoherence"`
	SeedOriginal    int64     `json:"seed_original"`
	GridStart       float64   `json:"grid_start"`
	GridStop        float64   `json:"grid_stop"`
	GridPoints      int       `json:"grid_points"`
}

// Point is one estimated λ of one model's sweep within a run.
type Point struct {
	Model       string  `json:"model"`
	Index       int     `json:"index"`
	Lambda      float64 `json:"lambda"`
	Probability float64 `json:"probability"`
	Successes   int     `json:"successes"`
	Steps       int     `json:"steps"`
	PHat        float64 `json:"p_hat"`
	Entropy     float64 `json:"entropy"`
}

// SweepStore records runs. Nothing read back from a store feeds into a
// simulation; it is history for inspection.
type SweepStore interface {
	// SaveRun stores run and its points atomically.
	SaveRun(ctx context.Context, run Run, points []Point) error

	// GetRun returns the run with id, or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns runs newest first. limit <= 0 means no limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Points returns a run's points ordered by model then index.
	// An empty model returns every model's points.
	Points(ctx context.Context, runID, model string) ([]Point, error)

	Close() error
}
