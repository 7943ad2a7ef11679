package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/obsim/internal/config"
)

func TestConfigSetGet(t *testing.T) {
	home := isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "config", "set", "simulation.steps", "250")
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "Set simulation.steps = 250") {
		t.Errorf("unexpected output: %q", out)
	}

	saved, err := config.LoadFromFile(filepath.Join(home, ".obsim", "config.yaml"))
	if err != nil {
		t.Fatalf("saved config not readable: %v", err)
	}
	if saved.Simulation.Steps != 250 {
		t.Errorf("saved steps = %d, want 250", saved.Simulation.Steps)
	}

	out, err = executeCmd(t, "config", "get", "simulation.steps", "--json")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["value"] != float64(250) {
		t.Errorf("value = %v, want 250", got["value"])
	}
}

func TestConfigSet_ExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	path := filepath.Join(tmpDir, "custom.yaml")

	if _, err := executeCmd(t, "config", "set", "--config", path, "output.dpi", "72"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.DPI != 72 {
		t.Errorf("DPI = %d, want 72", cfg.Output.DPI)
	}
}

func TestConfigSet_NegativeValues(t *testing.T) {
	home := isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "config", "set", "simulation.seed_original", "-5")
	if err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if !strings.Contains(out, "Set simulation.seed_original = -5") {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = executeCmd(t, "config", "set", "--json", "simulation.grid.start", "-1.5")
	if err != nil {
		t.Fatalf("config set --json failed: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got["status"] != "updated" || got["value"] != "-1.5" {
		t.Errorf("unexpected JSON: %v", got)
	}

	saved, err := config.LoadFromFile(filepath.Join(home, ".obsim", "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.Simulation.SeedOriginal != -5 {
		t.Errorf("saved seed_original = %d, want -5", saved.Simulation.SeedOriginal)
	}
	if saved.Simulation.Grid.Start != -1.5 {
		t.Errorf("saved grid.start = %v, want -1.5", saved.Simulation.Grid.Start)
	}
}

func TestConfigSet_DoesNotPersistEnv(t *testing.T) {
	home := isolateHome(t, t.TempDir())
	t.Setenv("OBSIM_STEPS", "999")

	if _, err := executeCmd(t, "config", "set", "simulation.seed_original", "5"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	saved, err := config.LoadFromFile(filepath.Join(home, ".obsim", "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.Simulation.Steps != 100 {
		t.Errorf("saved steps = %d, want default 100", saved.Simulation.Steps)
	}
	if saved.Simulation.SeedOriginal != 5 {
		t.Errorf("saved seed_original = %d, want 5", saved.Simulation.SeedOriginal)
	}
}

func TestConfigSet_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"simulation.steps", "0"},
		{"simulation.steps", "many"},
		{"simulation.seed_original", "1.5"},
		{"simulation.grid.points", "0"},
		{"output.dpi", "-1"},
		{"logging.level", "verbose"},
		{"no.such.key", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			home := isolateHome(t, t.TempDir())
			out, err := executeCmd(t, "config", "set", tt.key, tt.value)
			if err != nil {
				t.Fatalf("config set returned error: %v", err)
			}
			if !strings.HasPrefix(out, "Error:") {
				t.Errorf("expected error message, got %q", out)
			}
			if _, err := os.Stat(filepath.Join(home, ".obsim", "config.yaml")); !os.IsNotExist(err) {
				t.Error("expected no config file to be written")
			}
		})
	}
}

func TestConfigSet_GridMustStayOrdered(t *testing.T) {
	isolateHome(t, t.TempDir())

	if _, err := executeCmd(t, "config", "set", "simulation.grid.stop", "0.1"); err == nil {
		t.Error("expected validation error for stop below start")
	}
}

func TestConfigGet_UnknownKey(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "config", "get", "llm.provider")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if !strings.Contains(out, "Unknown configuration key") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestConfigList(t *testing.T) {
	isolateHome(t, t.TempDir())

	out, err := executeCmd(t, "config", "list")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	for _, key := range []string{"simulation.steps", "simulation.grid.points", "output.results_dir", "logging.level"} {
		if !strings.Contains(out, key) {
			t.Errorf("config list missing %s", key)
		}
	}
}

func TestGetSetConfigValue_RoundTrip(t *testing.T) {
	cfg := config.Default()
	keys := map[string]string{
		"simulation.steps":            "12",
		"simulation.seed_decoherence": "1",
		"simulation.seed_original":    "2",
		"simulation.grid.start":       "0",
		"simulation.grid.stop":        "4",
		"simulation.grid.points":      "9",
		"output.results_dir":          "out",
		"output.dpi":                  "96",
		"output.plots":                "false",
		"output.store":                "true",
		"logging.level":               "debug",
	}
	for key, value := range keys {
		if err := setConfigValue(cfg, key, value); err != nil {
			t.Errorf("setConfigValue(%s) error = %v", key, err)
			continue
		}
		got, ok := getConfigValue(cfg, key)
		if !ok {
			t.Errorf("getConfigValue(%s) not found", key)
			continue
		}
		if s := strings.TrimSpace(strings.Trim(jsonString(t, got), `"`)); s != value {
			t.Errorf("%s = %s, want %s", key, s, value)
		}
	}
}

func jsonString(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}
