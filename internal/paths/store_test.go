package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSaveLoad(t *testing.T) {
	r, home := newTestRegistry(t)
	file := filepath.Join(t.TempDir(), "registry", "path_registry.yaml")
	out := t.TempDir()

	if err := r.Register(OutputBaseDir, out, "CUSTOM_ALIAS"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Save(file); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := New(home, zerolog.Nop())
	if err := loaded.Load(file); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, key := range []string{OutputBaseDir, ProjectsDir, "CUSTOM_ALIAS"} {
		got, err := loaded.Resolve(key)
		if err != nil || got != out {
			t.Errorf("Resolve(%s) = %s, %v; want %s", key, got, err, out)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Load(filepath.Join(t.TempDir(), "none.yaml")); err != nil {
		t.Errorf("Expected missing file to be ignored, got %v", err)
	}
}

func TestLoad_RejectsCycle(t *testing.T) {
	r, _ := newTestRegistry(t)
	file := filepath.Join(t.TempDir(), "path_registry.yaml")
	content := "paths:\n  REPORTS: /tmp/reports\naliases:\n  A: B\n  B: A\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.Load(file); !errors.Is(err, ErrAliasCycle) {
		t.Fatalf("Expected ErrAliasCycle, got %v", err)
	}
	if _, ok := r.Registered()["REPORTS"]; ok {
		t.Error("A rejected file must leave the registry unchanged")
	}
	if _, ok := r.Aliases()["A"]; ok {
		t.Error("A rejected file must leave the alias table unchanged")
	}
}

func TestLoad_RejectsKeyInBothTables(t *testing.T) {
	r, _ := newTestRegistry(t)
	file := filepath.Join(t.TempDir(), "path_registry.yaml")
	content := "paths:\n  REPORTS: /tmp/reports\n  ARCHIVE: /tmp/archive\naliases:\n  REPORTS: ARCHIVE\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.Load(file); !errors.Is(err, ErrAliasConflict) {
		t.Fatalf("Expected ErrAliasConflict, got %v", err)
	}
	if _, ok := r.Registered()["ARCHIVE"]; ok {
		t.Error("A rejected file must leave the registry unchanged")
	}
	if _, ok := r.Aliases()["REPORTS"]; ok {
		t.Error("A rejected file must leave the alias table unchanged")
	}
}

func TestFirstRunAndSeed(t *testing.T) {
	r, home := newTestRegistry(t)
	file := filepath.Join(home, "Documents", SuiteName, "path_registry.yaml")

	if !r.FirstRun(file) {
		t.Fatal("Expected first run on an empty home")
	}
	created, err := r.Seed()
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if len(created) != len(seedKeys) {
		t.Errorf("Expected %d seeded paths, got %d", len(seedKeys), len(created))
	}
	if err := r.Save(file); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if r.FirstRun(file) {
		t.Error("Expected first run to be over after seeding and saving")
	}

	data, _ := r.Resolve(UserDataDir)
	if _, err := os.Stat(filepath.Join(data, "defaults.txt")); err != nil {
		t.Errorf("Expected defaults.txt: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "Desktop", "projects")); err != nil {
		t.Errorf("Expected projects dir: %v", err)
	}
}

func TestMigrateLegacy(t *testing.T) {
	r, _ := newTestRegistry(t)
	projects := t.TempDir()
	legacy := filepath.Join(t.TempDir(), "defaults.txt")
	content := "# old settings\ndefault_manager=someone\ncustom_projects_dir=" + projects + "\nbroken line\n"
	if err := os.WriteFile(legacy, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	migrated, err := r.MigrateLegacy(legacy)
	if err != nil {
		t.Fatalf("MigrateLegacy failed: %v", err)
	}
	if !migrated {
		t.Fatal("Expected custom_projects_dir to be migrated")
	}
	if got, _ := r.Resolve(ProjectsDir); got != projects {
		t.Errorf("PROJECTS_DIR = %s, want %s", got, projects)
	}

	migrated, err = r.MigrateLegacy(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil || migrated {
		t.Errorf("Missing legacy file: migrated=%v err=%v", migrated, err)
	}
}
