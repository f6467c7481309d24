package main

import (
	"fmt"
	"path/filepath"

	"github.com/fentz26/projsuite/internal/gantt"
	"github.com/fentz26/projsuite/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [input.xlsx|input.csv]",
	Short: "Browse a Gantt chart in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runTUI,
}

var tuiToday string

func init() {
	tuiCmd.Flags().StringVar(&tuiToday, "today", "", "Reference day as yyyy/mm/dd (default the current day)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	today, err := referenceDay(tuiToday)
	if err != nil {
		return err
	}
	tasks, err := loadTasks(args[0])
	if err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}
	g, err := gantt.Build(tasks, today)
	if err != nil {
		return fmt.Errorf("build chart: %w", err)
	}

	app := tui.New(filepath.Base(args[0]), g, env.cfg.Gantt.Colors)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
