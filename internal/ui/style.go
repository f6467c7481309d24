// Package ui holds the color helpers used by CLI output.
package ui

import (
	"github.com/fatih/color"
	"github.com/fentz26/projsuite/internal/models"
)

// Sprint color functions for building styled strings.
var (
	Bold      = color.New(color.Bold).SprintFunc()
	Dim       = color.New(color.Faint).SprintFunc()
	Cyan      = color.New(color.FgCyan).SprintFunc()
	Green     = color.New(color.FgGreen).SprintFunc()
	Red       = color.New(color.FgRed).SprintFunc()
	Yellow    = color.New(color.FgYellow).SprintFunc()
	BoldGreen = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed   = color.New(color.Bold, color.FgRed).SprintFunc()
)

// Check and Cross mark successful and failed results.
func Check() string { return BoldGreen("✓") }
func Cross() string { return BoldRed("✗") }

// Status returns a colored task status label.
func Status(s models.TaskStatus) string {
	switch s {
	case models.TaskStatusCompleted:
		return Dim(string(s))
	case models.TaskStatusInProgress:
		return Cyan(string(s))
	default:
		return Yellow(string(s))
	}
}

// Outcome returns a colored operation outcome.
func Outcome(outcome string) string {
	if outcome == models.OutcomeSuccess {
		return Green(outcome)
	}
	return Red(outcome)
}
