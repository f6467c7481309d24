package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fentz26/projsuite/internal/audit"
	"github.com/fentz26/projsuite/internal/gantt"
	"github.com/fentz26/projsuite/internal/models"
	"github.com/fentz26/projsuite/internal/opener"
	"github.com/fentz26/projsuite/internal/store"
	"github.com/fentz26/projsuite/internal/taskio"
	"github.com/fentz26/projsuite/internal/tui"
	"github.com/fentz26/projsuite/internal/ui"
	"github.com/spf13/cobra"
)

var ganttCmd = &cobra.Command{
	Use:   "gantt [input.xlsx|input.csv]",
	Short: "Generate a Gantt chart workbook from a task table",
	Args:  cobra.ExactArgs(1),
	RunE:  runGantt,
}

var (
	ganttOut     string
	ganttToday   string
	ganttPreview bool
	ganttOpen    bool
)

func init() {
	ganttCmd.Flags().StringVarP(&ganttOut, "out", "o", "", "Output workbook (default <input>_gantt.xlsx next to the input)")
	ganttCmd.Flags().StringVar(&ganttToday, "today", "", "Reference day as yyyy/mm/dd (default the current day)")
	ganttCmd.Flags().BoolVar(&ganttPreview, "preview", false, "Also print the chart to the terminal")
	ganttCmd.Flags().BoolVar(&ganttOpen, "open", false, "Open the chart when done")
}

type ganttInputs struct {
	Input string `json:"input"`
	Out   string `json:"out"`
	Today string `json:"today"`
}

func runGantt(cmd *cobra.Command, args []string) (err error) {
	input := args[0]
	out := ganttOut
	if out == "" {
		out = defaultChartPath(input)
	}

	st := openStoreOptional()
	defer closeStore(st)

	var projectID string
	var today time.Time
	defer func() {
		inputs := ganttInputs{Input: input, Out: out, Today: ganttToday}
		record(st, audit.ActionGantt, inputs, projectID, out, err)
	}()

	today, err = referenceDay(ganttToday)
	if err != nil {
		return err
	}

	tasks, err := loadTasks(input)
	if err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}
	g, err := gantt.Build(tasks, today)
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}
	opts := gantt.RenderOptions{Sheet: env.cfg.Gantt.ChartSheet, Palette: env.cfg.Gantt.Colors}
	if err := gantt.WriteWorkbook(out, g, opts); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	env.log.Info().Str("out", out).Int("tasks", len(g.Rows)).Int("days", g.Columns()).Msg("chart written")

	if st != nil {
		projectID = saveProject(st, input, out, tasks)
	}

	fmt.Printf("%s Chart written: %s (%d tasks, %d days)\n", ui.Check(), out, len(g.Rows), g.Columns())
	if ganttPreview {
		fmt.Println(tui.RenderChart(g, env.cfg.Gantt.Colors, 0))
	}
	if ganttOpen {
		if err := opener.New().Open(cmd.Context(), out); err != nil {
			return fmt.Errorf("open chart: %w", err)
		}
	}
	return nil
}

// saveProject stores the tasks behind a chart. Failures only cost the
// project listing, so they are logged.
func saveProject(st *store.Store, input, chart string, tasks []models.Task) string {
	abs, _ := filepath.Abs(input)
	p, err := st.UpsertProject(projectName(input), abs)
	if err != nil {
		env.log.Warn().Err(err).Msg("failed to save project")
		return ""
	}
	if err := st.ReplaceTasks(p.ID, tasks); err != nil {
		env.log.Warn().Err(err).Str("project", p.Name).Msg("failed to save tasks")
	}
	if chart != "" {
		absChart, _ := filepath.Abs(chart)
		if err := st.SetChartPath(p.ID, absChart); err != nil {
			env.log.Warn().Err(err).Str("project", p.Name).Msg("failed to save chart path")
		}
	}
	return p.ID
}

// defaultChartPath puts the chart next to its input.
func defaultChartPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_gantt.xlsx"
}

// referenceDay parses --today, defaulting to the local calendar day.
func referenceDay(s string) (time.Time, error) {
	if s == "" {
		return models.Truncate(time.Now()), nil
	}
	d, err := taskio.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today: %w", err)
	}
	return d, nil
}
