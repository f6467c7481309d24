package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fentz26/projsuite/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "projects.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestProjectUpsert(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	p, err := s.UpsertProject("alpha", "/data/plan_alpha.xlsx")
	if err != nil {
		t.Fatalf("UpsertProject failed: %v", err)
	}
	if p.ID == "" {
		t.Error("Project ID should not be empty")
	}

	again, err := s.UpsertProject("alpha", "/data/plan2_alpha.xlsx")
	if err != nil {
		t.Fatalf("UpsertProject failed: %v", err)
	}
	if again.ID != p.ID {
		t.Errorf("Expected same project id, got %s and %s", p.ID, again.ID)
	}

	got, err := s.GetProjectByName("alpha")
	if err != nil {
		t.Fatalf("GetProjectByName failed: %v", err)
	}
	if got.SourcePath != "/data/plan2_alpha.xlsx" {
		t.Errorf("Expected refreshed source path, got %s", got.SourcePath)
	}

	missing, err := s.GetProjectByName("beta")
	if err != nil || missing != nil {
		t.Errorf("Expected nil, nil for unknown project, got %v, %v", missing, err)
	}
}

func TestListProjectsAndChartPath(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	b, _ := s.UpsertProject("beta", "/b.xlsx")
	if _, err := s.UpsertProject("alpha", "/a.xlsx"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChartPath(b.ID, "/out/b.xlsx"); err != nil {
		t.Fatalf("SetChartPath failed: %v", err)
	}
	if err := s.SetChartPath("missing", "/x"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}

	projects, err := s.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "alpha" || projects[1].Name != "beta" {
		t.Errorf("Expected projects ordered by name, got %s, %s", projects[0].Name, projects[1].Name)
	}
	if projects[1].ChartPath != "/out/b.xlsx" {
		t.Errorf("Expected chart path, got %q", projects[1].ChartPath)
	}
	if projects[0].ChartPath != "" {
		t.Errorf("Expected empty chart path, got %q", projects[0].ChartPath)
	}
}

func TestReplaceTasks(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	p, _ := s.UpsertProject("alpha", "/a.csv")
	tasks := []models.Task{
		{Name: "Design", Start: models.Date(2025, 1, 1), End: models.Date(2025, 1, 3), Status: models.TaskStatusCompleted, RawStatus: "completed"},
		{Name: "Build", Start: models.Date(2025, 1, 4), End: models.Date(2025, 1, 10), Status: models.TaskStatusNotStarted, RawStatus: "blocked"},
		{Name: "Ship", Start: models.Date(2025, 1, 11), End: models.Date(2025, 1, 11), Status: models.TaskStatusNotStarted, Milestone: true},
	}

	if err := s.ReplaceTasks(p.ID, tasks); err != nil {
		t.Fatalf("ReplaceTasks failed: %v", err)
	}
	got, err := s.ListTasks(p.ID)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(got))
	}
	for i := range tasks {
		if got[i].Name != tasks[i].Name || !got[i].Start.Equal(tasks[i].Start) || !got[i].End.Equal(tasks[i].End) {
			t.Errorf("Task %d: got %+v, want %+v", i, got[i], tasks[i])
		}
	}
	if got[1].RawStatus != "blocked" {
		t.Errorf("Expected raw status kept, got %q", got[1].RawStatus)
	}
	if !got[2].Milestone {
		t.Error("Expected milestone flag kept")
	}

	if err := s.ReplaceTasks(p.ID, tasks[:1]); err != nil {
		t.Fatalf("ReplaceTasks failed: %v", err)
	}
	got, _ = s.ListTasks(p.ID)
	if len(got) != 1 {
		t.Errorf("Expected tasks to be replaced, got %d", len(got))
	}
}

func TestReplaceTasks_UnknownProject(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	err := s.ReplaceTasks("missing", []models.Task{{Name: "x", Start: models.Date(2025, 1, 1), End: models.Date(2025, 1, 1)}})
	if !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestImportProjects(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	design := models.Task{Name: "Design", Start: models.Date(2025, 1, 1), End: models.Date(2025, 1, 3), Status: models.TaskStatusCompleted}
	build := models.Task{Name: "Build", Start: models.Date(2025, 1, 4), End: models.Date(2025, 1, 9), Status: models.TaskStatusInProgress}

	projects, err := s.ImportProjects([]ProjectTasks{
		{Name: "alpha", SourcePath: "/x.csv", Tasks: []models.Task{design, build}},
		{Name: "beta", SourcePath: "/x.csv", Tasks: []models.Task{build}},
	})
	if err != nil {
		t.Fatalf("ImportProjects failed: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "alpha" || projects[1].Name != "beta" {
		t.Fatalf("Unexpected projects: %+v", projects)
	}
	got, _ := s.ListTasks(projects[0].ID)
	if len(got) != 2 || got[1].Name != "Build" {
		t.Errorf("Unexpected alpha tasks: %+v", got)
	}
}

func TestImportProjects_AllOrNothing(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	good := models.Task{Name: "Design", Start: models.Date(2025, 1, 1), End: models.Date(2025, 1, 3)}
	reversed := models.Task{Name: "Build", Start: models.Date(2025, 1, 9), End: models.Date(2025, 1, 4)}

	_, err := s.ImportProjects([]ProjectTasks{
		{Name: "alpha", SourcePath: "/x.csv", Tasks: []models.Task{good}},
		{Name: "beta", SourcePath: "/x.csv", Tasks: []models.Task{good, reversed}},
	})
	if !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("Expected ErrInvalidTask, got %v", err)
	}

	projects, err := s.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("Expected nothing imported, got %d projects", len(projects))
	}
}

func TestImportProjects_KeepsExistingOnFailure(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	old := models.Task{Name: "Old", Start: models.Date(2024, 1, 1), End: models.Date(2024, 1, 2)}
	p, _ := s.UpsertProject("alpha", "/old.csv")
	if err := s.ReplaceTasks(p.ID, []models.Task{old}); err != nil {
		t.Fatal(err)
	}

	_, err := s.ImportProjects([]ProjectTasks{
		{Name: "alpha", SourcePath: "/new.csv", Tasks: []models.Task{{Name: "New", Start: models.Date(2025, 1, 1), End: models.Date(2025, 1, 2)}}},
		{Name: "beta", SourcePath: "/new.csv", Tasks: []models.Task{{Name: "Undated"}}},
	})
	if !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("Expected ErrInvalidTask, got %v", err)
	}

	got, _ := s.GetProjectByName("alpha")
	if got.SourcePath != "/old.csv" {
		t.Errorf("Expected source path unchanged, got %s", got.SourcePath)
	}
	tasks, _ := s.ListTasks(p.ID)
	if len(tasks) != 1 || tasks[0].Name != "Old" {
		t.Errorf("Expected previous tasks kept, got %+v", tasks)
	}
}

func TestOperations(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	first, err := s.WriteOperation("gantt", "abc", models.OutcomeSuccess, "", "plan.xlsx")
	if err != nil {
		t.Fatalf("WriteOperation failed: %v", err)
	}
	if first.ID == "" {
		t.Error("Operation ID should not be empty")
	}
	if _, err := s.WriteOperation("export", "def", models.OutcomeFailed, "p1", "no rows"); err != nil {
		t.Fatalf("WriteOperation failed: %v", err)
	}

	ops, err := s.ListOperations(0)
	if err != nil {
		t.Fatalf("ListOperations failed: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("Expected 2 operations, got %d", len(ops))
	}
	if ops[0].Action != "export" || ops[0].ProjectID != "p1" {
		t.Errorf("Expected newest first, got %+v", ops[0])
	}
	if ops[1].ProjectID != "" {
		t.Errorf("Expected empty project id, got %q", ops[1].ProjectID)
	}

	ops, _ = s.ListOperations(1)
	if len(ops) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(ops))
	}
}

func newTestStore(t *testing.T) *Store {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}
