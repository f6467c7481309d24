package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/projsuite/internal/gantt"
	"github.com/fentz26/projsuite/internal/models"
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusNotStarted = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan
	statusCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // Gray
	statusOverdue    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
)

// TaskItem implements list.Item for one chart row.
type TaskItem struct {
	Row gantt.Row
}

func (i TaskItem) FilterValue() string { return i.Row.Task.Name }

func (i TaskItem) Title() string {
	if i.Row.Task.Milestone {
		return gantt.MilestoneMark + " " + i.Row.Task.Name
	}
	return i.Row.Task.Name
}

func (i TaskItem) Description() string {
	t := i.Row.Task
	return fmt.Sprintf("%s → %s • %s",
		t.Start.Format("2006/01/02"), t.End.Format("2006/01/02"), formatStatus(i.Row))
}

func formatStatus(r gantt.Row) string {
	label := r.Task.StatusLabel()
	switch {
	case r.Bar == gantt.BarOverdue:
		return statusOverdue.Render("● " + label + " (overdue)")
	case r.Task.Status == models.TaskStatusCompleted:
		return statusCompleted.Render("● " + label)
	case r.Task.Status == models.TaskStatusInProgress:
		return statusInProgress.Render("● " + label)
	default:
		return statusNotStarted.Render("● " + label)
	}
}

// TaskListModel lists the chart's tasks with a status filter.
type TaskListModel struct {
	list        list.Model
	rows        []gantt.Row
	filterIndex int
}

var filters = []models.TaskStatus{"", models.TaskStatusNotStarted, models.TaskStatusInProgress, models.TaskStatusCompleted}
var filterLabels = []string{"all", "not started", "in progress", "completed"}

// NewTaskListModel creates a list over the rows of g.
func NewTaskListModel(g *gantt.Grid) *TaskListModel {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 80, 20)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = listTitleStyle

	m := &TaskListModel{list: l, rows: g.Rows}
	m.apply()
	return m
}

// SetSize sets the list dimensions
func (m *TaskListModel) SetSize(w, h int) {
	m.list.SetSize(w, h)
}

// CycleFilter cycles through status filters
func (m *TaskListModel) CycleFilter() {
	m.filterIndex = (m.filterIndex + 1) % len(filters)
	m.list.Title = fmt.Sprintf("Tasks [%s]", filterLabels[m.filterIndex])
	m.apply()
}

// Len returns the number of tasks currently shown.
func (m *TaskListModel) Len() int {
	return len(m.list.Items())
}

func (m *TaskListModel) apply() {
	want := filters[m.filterIndex]
	var items []list.Item
	for _, r := range m.rows {
		if want == "" || r.Task.Status == want {
			items = append(items, TaskItem{Row: r})
		}
	}
	m.list.SetItems(items)
}

// Update handles messages
func (m *TaskListModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "f" {
		m.CycleFilter()
		return nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

// View renders the task list
func (m *TaskListModel) View() string {
	return m.list.View()
}
