package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("Expected log level 'info', got '%s'", cfg.Log.Level)
	}
	if cfg.Gantt.StatusHeader != "Status" {
		t.Errorf("Expected status header 'Status', got '%s'", cfg.Gantt.StatusHeader)
	}
	if !cfg.Export.StripCommas {
		t.Error("Expected comma stripping to be on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gantt.InputSheet != "Tasks" {
		t.Errorf("Expected defaults, got input sheet %q", cfg.Gantt.InputSheet)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log:
  level: debug
gantt:
  status_header: State
  colors:
    overdue: FF0000
export:
  strip_commas: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug, got %s", cfg.Log.Level)
	}
	if cfg.Gantt.StatusHeader != "State" {
		t.Errorf("Expected State, got %s", cfg.Gantt.StatusHeader)
	}
	if cfg.Gantt.Colors.Overdue != "FF0000" {
		t.Errorf("Expected overdue FF0000, got %s", cfg.Gantt.Colors.Overdue)
	}
	if cfg.Gantt.Colors.Sunday != DefaultConfig().Gantt.Colors.Sunday {
		t.Errorf("Unset colors should keep defaults, got sunday %s", cfg.Gantt.Colors.Sunday)
	}
	if cfg.Export.StripCommas {
		t.Error("Expected strip_commas false")
	}
	if cfg.Gantt.ChartSheet != "Gantt" {
		t.Errorf("Expected default chart sheet, got %s", cfg.Gantt.ChartSheet)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PROJSUITE_LOG_LEVEL", "warn")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected warn from environment, got %s", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gantt:\n  colors:\n    today: red\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected invalid color to be rejected")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Registry.File = "/srv/registry.yaml"
	cfg.Gantt.InputSheet = "Schedule"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Registry.File != "/srv/registry.yaml" || loaded.Gantt.InputSheet != "Schedule" {
		t.Errorf("Unexpected config after round trip: %+v", loaded)
	}
}
