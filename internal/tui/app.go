// Package tui provides the interactive terminal chart viewer.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/projsuite/internal/gantt"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// scrollStep is how many days left/right moves the chart.
const scrollStep = 7

// Modes of the viewer.
const (
	modeChart = "chart"
	modeList  = "list"
)

// App is the chart viewer model.
type App struct {
	title    string
	grid     *gantt.Grid
	palette  gantt.Palette
	viewport viewport.Model
	tasks    *TaskListModel
	mode     string
	offset   int
	width    int
	height   int
}

// New creates a viewer for g.
func New(title string, g *gantt.Grid, p gantt.Palette) *App {
	a := &App{
		title:    title,
		grid:     g,
		palette:  p,
		viewport: viewport.New(80, 20),
		tasks:    NewTaskListModel(g),
		mode:     modeChart,
		width:    80,
		height:   24,
	}
	a.refresh()
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit

		case "tab":
			if a.mode == modeChart {
				a.mode = modeList
			} else {
				a.mode = modeChart
			}
			return a, nil

		case "left", "h":
			if a.mode == modeChart {
				a.scroll(-scrollStep)
				return a, nil
			}

		case "right", "l":
			if a.mode == modeChart {
				a.scroll(scrollStep)
				return a, nil
			}

		case "t":
			if a.mode == modeChart && a.grid.TodayCol >= 0 {
				a.offset = 0
				a.scroll(a.grid.TodayCol)
				return a, nil
			}
		}
	}

	if a.mode == modeList {
		return a, a.tasks.Update(msg)
	}
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// scroll moves the first visible day by delta, clamped to the span.
func (a *App) scroll(delta int) {
	maxOffset := a.grid.Columns() - visibleColumns(a.grid, 0, a.width)
	if maxOffset < 0 {
		maxOffset = 0
	}
	a.offset += delta
	if a.offset > maxOffset {
		a.offset = maxOffset
	}
	if a.offset < 0 {
		a.offset = 0
	}
	a.refresh()
}

func (a *App) layout() {
	contentHeight := a.height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}
	a.viewport.Width = a.width
	a.viewport.Height = contentHeight
	a.tasks.SetSize(a.width, contentHeight)
	a.scroll(0)
}

func (a *App) refresh() {
	a.viewport.SetContent(renderChart(a.grid, a.palette, a.offset, a.width))
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render(a.title)
	span := fmt.Sprintf("%s → %s", a.grid.Start.Format("2006/01/02"), a.grid.End.Format("2006/01/02"))
	header += "  " + helpStyle.Render(span)
	header += "  " + helpStyle.Render("today "+a.grid.Today.Format("2006/01/02"))
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", a.width) + "\n")

	if a.mode == modeList {
		b.WriteString(a.tasks.View())
	} else {
		b.WriteString(a.viewport.View())
	}
	b.WriteString("\n")
	b.WriteString(RenderLegend(a.palette) + "\n")

	var status string
	if a.mode == modeList {
		status = fmt.Sprintf(" Tasks: %d | ↑↓:nav | f:filter | Tab:chart | q:quit", a.tasks.Len())
	} else {
		status = fmt.Sprintf(" Days: %d | ↑↓:scroll | ←→:week | t:today | Tab:tasks | q:quit", a.grid.Columns())
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))
	return b.String()
}
