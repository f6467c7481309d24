package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "projsuite",
	Short: "projsuite - Gantt charts, CSV exports and project paths",
	Long: `projsuite turns task tables into Gantt chart workbooks, exports them as CSV
and manages the directories the project suite keeps its data in.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return setup(cmd)
	},
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath   string
	logLevel     string
	registryFile string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.projsuite/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&registryFile, "registry", "", "Path registry file")

	rootCmd.AddCommand(ganttCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(initDataCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
