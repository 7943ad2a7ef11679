package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nvandessel/obsim/internal/constants"
	"github.com/nvandessel/obsim/internal/entropy"
	"github.com/nvandessel/obsim/internal/experiment"
	"github.com/nvandessel/obsim/internal/observer"
)

func TestSweepCmd_DefaultDemoGrid(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "sweep", "--model", "original", "--json")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	var sw experiment.Sweep
	if err := json.Unmarshal([]byte(out), &sw); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if sw.Model != constants.ModelOriginal {
		t.Errorf("Model = %q, want %q", sw.Model, constants.ModelOriginal)
	}
	if sw.Seed != constants.DefaultSeedOriginal {
		t.Errorf("Seed = %d, want %d", sw.Seed, constants.DefaultSeedOriginal)
	}
	if len(sw.Points) != constants.DemoGridPoints {
		t.Fatalf("got %d points, want %d", len(sw.Points), constants.DemoGridPoints)
	}

	grid, err := observer.Linspace(constants.DefaultGridStart, constants.DefaultGridStop, constants.DemoGridPoints)
	if err != nil {
		t.Fatalf("Linspace: %v", err)
	}
	want, err := entropy.Sweep(grid, observer.Sigmoid, constants.DefaultSteps, constants.DefaultSeedOriginal)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	for i := range want {
		if sw.Points[i].Entropy != want[i].Entropy {
			t.Errorf("point %d entropy = %v, want %v", i, sw.Points[i].Entropy, want[i].Entropy)
		}
	}
}

func TestSweepCmd_SeedOverride(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "sweep", "--model", "decoherence", "--seed", "5", "--steps", "30", "--points", "3", "--json")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	var sw experiment.Sweep
	if err := json.Unmarshal([]byte(out), &sw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sw.Seed != 5 {
		t.Errorf("Seed = %d, want 5", sw.Seed)
	}
	for _, pt := range sw.Points {
		if pt.Steps != 30 {
			t.Errorf("point steps = %d, want 30", pt.Steps)
		}
	}
}

func TestSweepCmd_Table(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "sweep", "--points", "2")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.HasPrefix(out, "Model decoherence (seed 42, 100 steps)") {
		t.Errorf("unexpected title:\n%s", out)
	}
	if !strings.Contains(out, "/100") {
		t.Errorf("expected successes column:\n%s", out)
	}
}

func TestSweepCmd_Errors(t *testing.T) {
	isolateHome(t, t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{"unknown model", []string{"sweep", "--model", "bohm"}},
		{"zero steps", []string{"sweep", "--steps", "0"}},
		{"reversed grid", []string{"sweep", "--start", "2", "--stop", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCmd(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCollapseCmd(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "collapse", "--points", "3", "--json")
	if err != nil {
		t.Fatalf("collapse failed: %v", err)
	}

	var got struct {
		Lambdas  []float64 `json:"lambdas"`
		Collapse []float64 `json:"collapse"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Lambdas) != 3 || len(got.Collapse) != 3 {
		t.Fatalf("got %d/%d values, want 3", len(got.Lambdas), len(got.Collapse))
	}
	for i, lam := range got.Lambdas {
		if got.Collapse[i] != observer.CollapseProbability(lam) {
			t.Errorf("collapse(%v) = %v, want %v", lam, got.Collapse[i], observer.CollapseProbability(lam))
		}
	}
	if !(got.Collapse[0] < got.Collapse[1] && got.Collapse[1] < got.Collapse[2]) {
		t.Errorf("collapse not increasing: %v", got.Collapse)
	}
}
