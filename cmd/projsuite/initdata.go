package main

import (
	"fmt"

	"github.com/fentz26/projsuite/internal/audit"
	"github.com/fentz26/projsuite/internal/ui"
	"github.com/spf13/cobra"
)

var initDataCmd = &cobra.Command{
	Use:   "init-data",
	Short: "Create the default data directories and settings",
	Args:  cobra.NoArgs,
	RunE:  runInitData,
}

func runInitData(cmd *cobra.Command, args []string) (err error) {
	firstRun := env.reg.FirstRun(env.regFile)

	created, err := env.reg.Seed()
	if err == nil {
		err = saveRegistry()
	}

	// The database lives under a seeded directory, so open it last.
	st := openStoreOptional()
	defer closeStore(st)
	record(st, audit.ActionInitData, map[string]bool{"first_run": firstRun}, "", fmt.Sprintf("%d directories", len(created)), err)
	if err != nil {
		return err
	}

	for _, p := range created {
		fmt.Printf("%s %s\n", ui.Check(), p)
	}
	fmt.Printf("Registry saved to %s\n", env.regFile)
	return nil
}
