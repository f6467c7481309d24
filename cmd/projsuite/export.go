package main

import (
	"fmt"

	"github.com/fentz26/projsuite/internal/audit"
	"github.com/fentz26/projsuite/internal/export"
	"github.com/fentz26/projsuite/internal/paths"
	"github.com/fentz26/projsuite/internal/ui"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [input.xlsx]",
	Short: "Export a task table as CSV",
	Long: `Export writes <input>.csv with one line per task. Commas inside fields are
removed unless export.strip_commas is false in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportOutDir string

func init() {
	exportCmd.Flags().StringVar(&exportOutDir, "out-dir", "", "Output directory (default EXPORT_DIR)")
}

type exportInputs struct {
	Input  string `json:"input"`
	OutDir string `json:"out_dir"`
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	input := args[0]
	st := openStoreOptional()
	defer closeStore(st)

	var outPath string
	outDir := exportOutDir
	defer func() {
		record(st, audit.ActionExport, exportInputs{Input: input, OutDir: outDir}, "", outPath, err)
	}()

	if outDir == "" {
		outDir, err = env.reg.Ensure(paths.ExportDir)
		if err != nil {
			return err
		}
	}

	tasks, err := loadTasks(input)
	if err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}

	exp := export.New(export.Options{StripCommas: env.cfg.Export.StripCommas}, env.log)
	outPath, err = exp.ExportFile(input, outDir, tasks)
	if err != nil {
		return err
	}
	fmt.Printf("%s Exported %d tasks: %s\n", ui.Check(), len(tasks), outPath)
	return nil
}
