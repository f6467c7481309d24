// Package store provides SQLite-backed persistence of projects, their tasks
// and the operation log.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/projsuite/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrProjectNotFound is returned when a project id does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidTask is returned for a task with a missing or reversed date range.
	ErrInvalidTask = errors.New("invalid task dates")
)

// dateLayout is how task dates are stored.
const dateLayout = "2006-01-02"

// Store provides access to the projsuite SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		source_path TEXT NOT NULL,
		chart_path TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		raw_status TEXT,
		milestone INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		project_id TEXT,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_operations_timestamp ON operations(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Project Operations ---

// UpsertProject returns the project called name, creating it if needed.
// An existing project gets its source path refreshed.
func (s *Store) UpsertProject(name, sourcePath string) (*models.Project, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := upsertProject(tx, name, sourcePath, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return p, nil
}

func upsertProject(tx *sql.Tx, name, sourcePath string, now time.Time) (*models.Project, error) {
	existing, err := scanProject(tx.QueryRow(
		`SELECT id, name, source_path, chart_path, created_at, updated_at FROM projects WHERE name = ?`,
		name,
	))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("query project: %w", err)
	}

	if existing != nil {
		_, err := tx.Exec(
			`UPDATE projects SET source_path = ?, updated_at = ? WHERE id = ?`,
			sourcePath, now, existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update project: %w", err)
		}
		existing.SourcePath = sourcePath
		existing.UpdatedAt = now
		return existing, nil
	}

	p := &models.Project{
		ID:         uuid.New().String(),
		Name:       name,
		SourcePath: sourcePath,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = tx.Exec(
		`INSERT INTO projects (id, name, source_path, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.SourcePath, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// GetProjectByName retrieves a project by name. It returns nil, nil when
// no project has that name.
func (s *Store) GetProjectByName(name string) (*models.Project, error) {
	row := s.db.QueryRow(
		`SELECT id, name, source_path, chart_path, created_at, updated_at FROM projects WHERE name = ?`,
		name,
	)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query project: %w", err)
	}
	return p, nil
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects() ([]models.Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, source_path, chart_path, created_at, updated_at FROM projects ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// SetChartPath records the last chart generated for a project.
func (s *Store) SetChartPath(projectID, chartPath string) error {
	res, err := s.db.Exec(
		`UPDATE projects SET chart_path = ?, updated_at = ? WHERE id = ?`,
		chartPath, time.Now().UTC(), projectID,
	)
	if err != nil {
		return fmt.Errorf("update chart path: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(sc scanner) (*models.Project, error) {
	var p models.Project
	var chartPath sql.NullString
	if err := sc.Scan(&p.ID, &p.Name, &p.SourcePath, &chartPath, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ChartPath = chartPath.String
	return &p, nil
}

// --- Task Operations ---

// ReplaceTasks swaps the task list of a project in one transaction. On any
// error the previous tasks are kept.
func (s *Store) ReplaceTasks(projectID string, tasks []models.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM projects WHERE id = ?`, projectID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("query project: %w", err)
	}
	if exists == 0 {
		return ErrProjectNotFound
	}

	if err := replaceTasks(tx, projectID, tasks, time.Now().UTC()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ProjectTasks is one project's share of an import.
type ProjectTasks struct {
	Name       string
	SourcePath string
	Tasks      []models.Task
}

// ImportProjects upserts every project and replaces its tasks in a single
// transaction. Any error leaves the database as it was.
func (s *Store) ImportProjects(imports []ProjectTasks) ([]models.Project, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	projects := make([]models.Project, 0, len(imports))
	for _, in := range imports {
		p, err := upsertProject(tx, in.Name, in.SourcePath, now)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", in.Name, err)
		}
		if err := replaceTasks(tx, p.ID, in.Tasks, now); err != nil {
			return nil, fmt.Errorf("project %s: %w", in.Name, err)
		}
		projects = append(projects, *p)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return projects, nil
}

// replaceTasks rewrites a project's tasks inside tx. Tasks with a missing
// date or a start after their end are rejected.
func replaceTasks(tx *sql.Tx, projectID string, tasks []models.Task, now time.Time) error {
	for i, t := range tasks {
		if t.Start.IsZero() || t.End.IsZero() || t.Start.After(t.End) {
			return fmt.Errorf("task %d (%q): %w", i+1, t.Name, ErrInvalidTask)
		}
	}

	if _, err := tx.Exec(`DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO tasks (id, project_id, position, name, start_date, end_date, status, raw_status, milestone)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		milestone := 0
		if t.Milestone {
			milestone = 1
		}
		_, err := stmt.Exec(
			uuid.New().String(), projectID, i, t.Name,
			t.Start.Format(dateLayout), t.End.Format(dateLayout),
			string(t.Status), t.RawStatus, milestone,
		)
		if err != nil {
			return fmt.Errorf("insert task %q: %w", t.Name, err)
		}
	}

	if _, err := tx.Exec(`UPDATE projects SET updated_at = ? WHERE id = ?`, now, projectID); err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	return nil
}

// ListTasks returns a project's tasks in their original order.
func (s *Store) ListTasks(projectID string) ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT name, start_date, end_date, status, raw_status, milestone
		 FROM tasks WHERE project_id = ? ORDER BY position`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var start, end, status string
		var raw sql.NullString
		var milestone int
		if err := rows.Scan(&t.Name, &start, &end, &status, &raw, &milestone); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if t.Start, err = time.Parse(dateLayout, start); err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		if t.End, err = time.Parse(dateLayout, end); err != nil {
			return nil, fmt.Errorf("parse end date: %w", err)
		}
		t.Status = models.TaskStatus(status)
		t.RawStatus = raw.String
		t.Milestone = milestone != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// --- Operation Log ---

// WriteOperation appends an operation record.
func (s *Store) WriteOperation(action, inputsHash, outcome, projectID, details string) (*models.Operation, error) {
	op := &models.Operation{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		ProjectID:  projectID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	var pid sql.NullString
	if projectID != "" {
		pid = sql.NullString{String: projectID, Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO operations (id, action, inputs_hash, outcome, project_id, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.ID, op.Action, op.InputsHash, op.Outcome, pid, op.Details, op.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert operation: %w", err)
	}
	return op, nil
}

// ListOperations returns the most recent operations first. A limit of zero
// or less returns all of them.
func (s *Store) ListOperations(limit int) ([]models.Operation, error) {
	query := `SELECT id, action, inputs_hash, outcome, project_id, details, timestamp FROM operations ORDER BY rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var ops []models.Operation
	for rows.Next() {
		var op models.Operation
		var pid, details sql.NullString
		if err := rows.Scan(&op.ID, &op.Action, &op.InputsHash, &op.Outcome, &pid, &details, &op.Timestamp); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.ProjectID = pid.String
		op.Details = details.String
		ops = append(ops, op)
	}
	return ops, rows.Err()
}
