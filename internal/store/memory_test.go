package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func sampleRun(id string, created time.Time) Run {
	return Run{
		ID:              id,
		CreatedAt:       created,
		Steps:           100,
		SeedDecoherence: 42,
		SeedOriginal:    123,
		GridStart:       0.5,
		GridStop:        2.5,
		GridPoints:      2,
	}
}

func samplePoints() []Point {
	return []Point{
		{Model: "original", Index: 1, Lambda: 2.5, Probability: 0.92, Successes: 90, Steps: 100, PHat: 0.9, Entropy: 0.325},
		{Model: "decoherence", Index: 0, Lambda: 0.5, Probability: 0.27, Successes: 30, Steps: 100, PHat: 0.3, Entropy: 0.611},
		{Model: "original", Index: 0, Lambda: 0.5, Probability: 0.62, Successes: 60, Steps: 100, PHat: 0.6, Entropy: 0.673},
		{Model: "decoherence", Index: 1, Lambda: 2.5, Probability: 0.95, Successes: 96, Steps: 100, PHat: 0.96, Entropy: 0.168},
	}
}

// exerciseSweepStore runs the SweepStore contract against s.
func exerciseSweepStore(t *testing.T, s SweepStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.SaveRun(ctx, sampleRun("old", base), samplePoints()); err != nil {
		t.Fatalf("SaveRun(old) error = %v", err)
	}
	if err := s.SaveRun(ctx, sampleRun("new", base.Add(90*time.Millisecond)), samplePoints()[:2]); err != nil {
		t.Fatalf("SaveRun(new) error = %v", err)
	}

	run, err := s.GetRun(ctx, "old")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Steps != 100 || run.SeedDecoherence != 42 || run.SeedOriginal != 123 || run.GridPoints != 2 {
		t.Errorf("GetRun() = %+v, unexpected fields", run)
	}
	if !run.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", run.CreatedAt, base)
	}

	if _, err := s.GetRun(ctx, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun(missing) error = %v, want ErrRunNotFound", err)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "old" {
		t.Errorf("ListRuns() order = %v, want [new old]", runIDs(runs))
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns(1) error = %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "new" {
		t.Errorf("ListRuns(1) = %v, want [new]", runIDs(limited))
	}

	all, err := s.Points(ctx, "old", "")
	if err != nil {
		t.Fatalf("Points() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Points() returned %d, want 4", len(all))
	}
	wantOrder := []struct {
		model string
		index int
	}{{"decoherence", 0}, {"decoherence", 1}, {"original", 0}, {"original", 1}}
	for i, w := range wantOrder {
		if all[i].Model != w.model || all[i].Index != w.index {
			t.Errorf("Points()[%d] = %s/%d, want %s/%d", i, all[i].Model, all[i].Index, w.model, w.index)
		}
	}

	orig, err := s.Points(ctx, "old", "original")
	if err != nil {
		t.Fatalf("Points(original) error = %v", err)
	}
	if len(orig) != 2 {
		t.Fatalf("Points(original) returned %d, want 2", len(orig))
	}
	if orig[1].Successes != 90 || orig[1].PHat != 0.9 || orig[1].Entropy != 0.325 {
		t.Errorf("Points(original)[1] = %+v", orig[1])
	}

	if _, err := s.Points(ctx, "missing", ""); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Points(missing) error = %v, want ErrRunNotFound", err)
	}

	// Re-saving a run replaces its points.
	if err := s.SaveRun(ctx, sampleRun("old", base), samplePoints()[:1]); err != nil {
		t.Fatalf("SaveRun(old again) error = %v", err)
	}
	again, err := s.Points(ctx, "old", "")
	if err != nil {
		t.Fatalf("Points() error = %v", err)
	}
	if len(again) != 1 {
		t.Errorf("Points() after re-save returned %d, want 1", len(again))
	}

	if err := s.SaveRun(ctx, Run{}, nil); err == nil {
		t.Error("SaveRun(empty ID) expected error")
	}
}

func runIDs(runs []Run) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}

func TestInMemorySweepStore(t *testing.T) {
	s := NewInMemorySweepStore()
	defer s.Close()
	exerciseSweepStore(t, s)
}

func TestInMemorySweepStore_CopiesPoints(t *testing.T) {
	s := NewInMemorySweepStore()
	ctx := context.Background()
	points := samplePoints()

	if err := s.SaveRun(ctx, sampleRun("r", time.Now()), points); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	points[0].Entropy = -1

	got, err := s.Points(ctx, "r", "original")
	if err != nil {
		t.Fatalf("Points() error = %v", err)
	}
	for _, p := range got {
		if p.Entropy == -1 {
			t.Error("store kept a reference to the caller's slice")
		}
	}
}
