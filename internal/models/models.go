// Package models defines the core domain types for projsuite.
package models

import "time"

// TaskStatus represents the progress state of a task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not-started"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseStatus matches s case-sensitively against the known statuses.
// Unknown values map to TaskStatusNotStarted and ok is false.
func ParseStatus(s string) (status TaskStatus, ok bool) {
	switch TaskStatus(s) {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), true
	default:
		return TaskStatusNotStarted, false
	}
}

// Task is one row of the input table.
type Task struct {
	Name      string     `json:"name"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Status    TaskStatus `json:"status"`
	RawStatus string     `json:"raw_status,omitempty"` // as read, before ParseStatus
	Milestone bool       `json:"milestone"`
}

// StatusLabel returns the status as it appeared in the source, falling back
// to the parsed status.
func (t Task) StatusLabel() string {
	if t.RawStatus != "" {
		return t.RawStatus
	}
	return string(t.Status)
}

// Project groups the tasks imported from one source file.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourcePath string    `json:"source_path"`
	ChartPath  string    `json:"chart_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Operation is an audit record of a chart generation, export or import.
type Operation struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	ProjectID  string    `json:"project_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Operation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Date returns the UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day and location of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}
