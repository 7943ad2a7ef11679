package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InMemorySweepStore implements SweepStore for testing and for runs that
// should leave no database behind.
type InMemorySweepStore struct {
	mu     sync.RWMutex
	runs   map[string]Run
	points map[string][]Point
}

// NewInMemorySweepStore creates a new in-memory store.
func NewInMemorySweepStore() *InMemorySweepStore {
	return &InMemorySweepStore{
		runs:   make(map[string]Run),
		points: make(map[string][]Point),
	}
}

// SaveRun stores a run and its points, replacing any run with the same ID.
func (s *InMemorySweepStore) SaveRun(ctx context.Context, run Run, points []Point) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	s.points[run.ID] = append([]Point(nil), points...)
	return nil
}

// GetRun returns a run by ID.
func (s *InMemorySweepStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return &run, nil
}

// ListRuns returns runs newest first.
func (s *InMemorySweepStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Points returns a run's points ordered by model then index.
func (s *InMemorySweepStore) Points(ctx context.Context, runID, model string) ([]Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	var out []Point
	for _, p := range s.points[runID] {
		if model == "" || p.Model == model {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Model != out[j].Model {
			return out[i].Model < out[j].Model
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemorySweepStore) Close() error {
	return nil
}
