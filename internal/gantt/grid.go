// Package gantt computes the day-indexed Gantt grid for a task list and
// renders it to a workbook.
//
// Build is pure: given the tasks and the current day it returns the full
// classification of every cell. Rendering lives in workbook.go.
package gantt

import (
	"errors"
	"fmt"
	"time"

	"github.com/fentz26/projsuite/internal/models"
	"github.com/xuri/excelize/v2"
)

// Validation errors. Any of them aborts the whole build.
var (
	ErrNoTasks      = errors.New("no tasks")
	ErrInvalidDate  = errors.New("invalid task date")
	ErrInvalidRange = errors.New("start date is after end date")
	ErrSpanTooWide  = errors.New("date span exceeds the sheet width")
)

// MaxDays is the widest span a chart sheet can hold.
const MaxDays = excelize.MaxColumns - GridColumn + 1

// DayKind classifies a calendar day independently of any task.
type DayKind int

const (
	Weekday DayKind = iota
	Saturday
	Sunday
)

// CellKind classifies one (row, column) cell of the grid.
type CellKind int

const (
	CellPlain CellKind = iota
	CellSaturday
	CellSunday
	CellPastDue
	CellBar
)

func (k CellKind) String() string {
	switch k {
	case CellSaturday:
		return "saturday"
	case CellSunday:
		return "sunday"
	case CellPastDue:
		return "past-due"
	case CellBar:
		return "bar"
	default:
		return "plain"
	}
}

// BarKind selects the fill of a task bar.
type BarKind int

const (
	BarOnTrack BarKind = iota
	BarOverdue
	BarCompleted
)

func (k BarKind) String() string {
	switch k {
	case BarOverdue:
		return "overdue"
	case BarCompleted:
		return "completed"
	default:
		return "on-track"
	}
}

// Day is one column of the grid.
type Day struct {
	Date time.Time
	Kind DayKind
}

// Row is one task laid out on the grid. StartCol and EndCol are 0-based and
// inclusive.
type Row struct {
	Task     models.Task
	StartCol int
	EndCol   int
	Bar      BarKind
	Cells    []CellKind
}

// Grid is the computed chart.
type Grid struct {
	Start    time.Time
	End      time.Time
	Today    time.Time
	TodayCol int // -1 when today is outside the span
	Days     []Day
	Rows     []Row
}

// Columns returns the number of day columns.
func (g *Grid) Columns() int {
	return len(g.Days)
}

// Col returns the column of date, or -1 if it is outside the span.
func (g *Grid) Col(date time.Time) int {
	c := daysBetween(g.Start, models.Truncate(date))
	if c < 0 || c >= len(g.Days) {
		return -1
	}
	return c
}

// ClassifyDay reports whether date falls on a weekday, Saturday or Sunday.
func ClassifyDay(date time.Time) DayKind {
	switch date.Weekday() {
	case time.Saturday:
		return Saturday
	case time.Sunday:
		return Sunday
	default:
		return Weekday
	}
}

// BarFor picks the bar fill for a task. Completed tasks are always gray;
// any other status is overdue once its end date is before today.
func BarFor(status models.TaskStatus, end, today time.Time) BarKind {
	if status == models.TaskStatusCompleted {
		return BarCompleted
	}
	if models.Truncate(end).Before(models.Truncate(today)) {
		return BarOverdue
	}
	return BarOnTrack
}

// Validate checks a single task's dates.
func Validate(t models.Task) error {
	if t.Start.IsZero() || t.End.IsZero() {
		return ErrInvalidDate
	}
	if models.Truncate(t.Start).After(models.Truncate(t.End)) {
		return ErrInvalidRange
	}
	return nil
}

// Build lays tasks out on a grid spanning the earliest start to the latest
// end. The first invalid task aborts the build and no grid is returned.
func Build(tasks []models.Task, today time.Time) (*Grid, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	for i, t := range tasks {
		if err := Validate(t); err != nil {
			return nil, fmt.Errorf("task %d (%q): %w", i+1, t.Name, err)
		}
	}

	today = models.Truncate(today)
	start := models.Truncate(tasks[0].Start)
	end := models.Truncate(tasks[0].End)
	for _, t := range tasks[1:] {
		if s := models.Truncate(t.Start); s.Before(start) {
			start = s
		}
		if e := models.Truncate(t.End); e.After(end) {
			end = e
		}
	}

	n := daysBetween(start, end) + 1
	if n > MaxDays {
		return nil, fmt.Errorf("%w: %d days from %s to %s, limit %d",
			ErrSpanTooWide, n, start.Format("2006-01-02"), end.Format("2006-01-02"), MaxDays)
	}
	g := &Grid{
		Start:    start,
		End:      end,
		Today:    today,
		TodayCol: -1,
		Days:     make([]Day, n),
		Rows:     make([]Row, len(tasks)),
	}
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		g.Days[i] = Day{Date: d, Kind: ClassifyDay(d)}
	}
	g.TodayCol = g.Col(today)

	for i, t := range tasks {
		row := Row{
			Task:     t,
			StartCol: daysBetween(start, models.Truncate(t.Start)),
			EndCol:   daysBetween(start, models.Truncate(t.End)),
			Bar:      BarFor(t.Status, t.End, today),
			Cells:    make([]CellKind, n),
		}
		for c, day := range g.Days {
			row.Cells[c] = classifyCell(day, c, row.StartCol, row.EndCol, today)
		}
		g.Rows[i] = row
	}
	return g, nil
}

func classifyCell(day Day, col, startCol, endCol int, today time.Time) CellKind {
	if col >= startCol && col <= endCol {
		return CellBar
	}
	switch day.Kind {
	case Sunday:
		return CellSunday
	case Saturday:
		return CellSaturday
	}
	if day.Date.Before(today) {
		return CellPastDue
	}
	return CellPlain
}

// daysBetween counts calendar days from a to b. Both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}
