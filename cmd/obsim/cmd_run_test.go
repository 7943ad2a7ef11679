package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/obsim/internal/constants"
	"github.com/nvandessel/obsim/internal/experiment"
)

func TestRunCmd_JSONWithoutPlots(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	results := filepath.Join(tmpDir, "results")

	out, err := executeCmd(t, "run", "--json", "--no-plots",
		"--results", results, "--points", "5", "--steps", "20")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var res experiment.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.RunID == "" {
		t.Error("expected a run ID")
	}
	if res.Steps != 20 {
		t.Errorf("Steps = %d, want 20", res.Steps)
	}
	if len(res.Lambdas) != 5 || len(res.Decoherence.Points) != 5 || len(res.Original.Points) != 5 {
		t.Errorf("expected 5 points per column, got %d/%d/%d",
			len(res.Lambdas), len(res.Decoherence.Points), len(res.Original.Points))
	}
	if res.Decoherence.Seed != constants.DefaultSeedDecoherence || res.Original.Seed != constants.DefaultSeedOriginal {
		t.Errorf("seeds = %d/%d, want defaults", res.Decoherence.Seed, res.Original.Seed)
	}
	if len(res.Plots) != 0 {
		t.Errorf("expected no plots, got %v", res.Plots)
	}

	if _, err := os.Stat(filepath.Join(results, constants.StoreFileName)); err != nil {
		t.Errorf("expected sweep store: %v", err)
	}
}

func TestRunCmd_Table(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	out, err := executeCmd(t, "run", "--no-plots", "--no-store",
		"--results", filepath.Join(tmpDir, "results"), "--points", "3", "--steps", "10")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "p_collapse") || !strings.Contains(out, "ΔS") {
		t.Errorf("expected table header, got:\n%s", out)
	}
	// header + rule + 3 rows after the title and blank line
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Errorf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "results", constants.StoreFileName)); !os.IsNotExist(err) {
		t.Error("expected no sweep store with --no-store")
	}
}

func TestRunCmd_WritesPlots(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	results := filepath.Join(tmpDir, "results")

	_, err := executeCmd(t, "run", "--no-store", "--results", results,
		"--points", "4", "--steps", "10", "--dpi", "30")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	stems := []string{
		constants.PlotEntropy,
		constants.PlotEntropyComparison,
		constants.PlotCollapse,
		constants.PlotDecoherence,
		constants.PlotSummary,
	}
	for _, stem := range stems {
		for _, ext := range []string{".pdf", ".png"} {
			if _, err := os.Stat(filepath.Join(results, stem+ext)); err != nil {
				t.Errorf("missing %s%s: %v", stem, ext, err)
			}
		}
	}
}

func TestRunCmd_SeedFlagsAreDeterministic(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)

	args := []string{"run", "--json", "--no-plots", "--no-store",
		"--results", filepath.Join(tmpDir, "results"),
		"--points", "6", "--steps", "50", "--seed-decoherence", "7", "--seed-original", "8"}

	first, err := executeCmd(t, args...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	second, err := executeCmd(t, args...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var a, b experiment.Result
	if err := json.Unmarshal([]byte(first), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(second), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Decoherence.Seed != 7 || a.Original.Seed != 8 {
		t.Errorf("seeds = %d/%d, want 7/8", a.Decoherence.Seed, a.Original.Seed)
	}
	for i := range a.Delta {
		if a.Delta[i] != b.Delta[i] {
			t.Errorf("delta[%d] differs between runs: %v vs %v", i, a.Delta[i], b.Delta[i])
		}
	}
}

func TestRunCmd_InvalidInput(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	results := filepath.Join(tmpDir, "results")

	tests := []struct {
		name string
		args []string
	}{
		{"zero steps", []string{"--steps", "0"}},
		{"negative steps", []string{"--steps", "-3"}},
		{"reversed grid", []string{"--start", "2", "--stop", "1"}},
		{"zero points", []string{"--points", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "--no-plots", "--no-store", "--results", results}, tt.args...)
			if _, err := executeCmd(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunCmd_ConfigFileSteps(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	cfgPath := filepath.Join(tmpDir, "obsim.yaml")
	if err := os.WriteFile(cfgPath, []byte("simulation:\n  steps: 7\n  grid:\n    points: 2\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := executeCmd(t, "run", "--json", "--no-plots", "--no-store",
		"--config", cfgPath, "--results", filepath.Join(tmpDir, "results"))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var res experiment.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Steps != 7 || len(res.Lambdas) != 2 {
		t.Errorf("got steps=%d points=%d, want 7 and 2", res.Steps, len(res.Lambdas))
	}
}
