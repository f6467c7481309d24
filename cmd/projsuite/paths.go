package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fentz26/projsuite/internal/audit"
	"github.com/fentz26/projsuite/internal/paths"
	"github.com/fentz26/projsuite/internal/ui"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Inspect and change registered project paths",
}

var pathsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every path key and alias",
	Args:  cobra.NoArgs,
	RunE:  runPathsList,
}

var pathsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the path a key resolves to",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathsGet,
}

var pathsSetCmd = &cobra.Command{
	Use:   "set [key] [path]",
	Short: "Register a path for a key",
	Args:  cobra.ExactArgs(2),
	RunE:  runPathsSet,
}

var pathsAliasCmd = &cobra.Command{
	Use:   "alias [alias] [target]",
	Short: "Make one key resolve through another",
	Args:  cobra.ExactArgs(2),
	RunE:  runPathsAlias,
}

var pathsEnsureCmd = &cobra.Command{
	Use:   "ensure [key...]",
	Short: "Create the directories behind keys",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPathsEnsure,
}

var pathsDiagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check that every path is usable",
	Args:  cobra.NoArgs,
	RunE:  runPathsDiagnose,
}

var pathsMigrateCmd = &cobra.Command{
	Use:   "migrate [defaults.txt]",
	Short: "Import paths from a legacy key=value settings file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathsMigrate,
}

var (
	pathsAliases []string
	pathsRepair  bool
)

func init() {
	pathsCmd.AddCommand(pathsListCmd, pathsGetCmd, pathsSetCmd, pathsAliasCmd, pathsEnsureCmd, pathsDiagnoseCmd, pathsMigrateCmd)

	pathsSetCmd.Flags().StringSliceVar(&pathsAliases, "alias", nil, "Aliases to add for the key")
	pathsDiagnoseCmd.Flags().BoolVar(&pathsRepair, "repair", false, "Recreate missing directories")
}

func runPathsList(cmd *cobra.Command, args []string) error {
	reg := env.reg
	registered := reg.Registered()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tPATH\tSOURCE\tEXISTS")
	for _, key := range reg.Keys() {
		p, err := reg.Resolve(key)
		if err != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, ui.Red(err.Error()), "-", ui.Cross())
			continue
		}
		source := "default"
		if _, ok := registered[key]; ok {
			source = "registered"
		}
		mark := ui.Cross()
		if _, err := os.Stat(p); err == nil {
			mark = ui.Check()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, p, ui.Dim(source), mark)
	}
	w.Flush()

	aliases := reg.Aliases()
	if len(aliases) == 0 {
		return nil
	}
	names := make([]string, 0, len(aliases))
	for a := range aliases {
		names = append(names, a)
	}
	sort.Strings(names)

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tTARGET")
	for _, a := range names {
		fmt.Fprintf(w, "%s\t%s\n", a, aliases[a])
	}
	return w.Flush()
}

func runPathsGet(cmd *cobra.Command, args []string) error {
	p, err := env.reg.Resolve(args[0])
	if err != nil {
		return err
	}
	fmt.Println(p)
	return nil
}

func runPathsSet(cmd *cobra.Command, args []string) error {
	if err := env.reg.Register(args[0], args[1], pathsAliases...); err != nil {
		return err
	}
	if err := saveRegistry(); err != nil {
		return err
	}
	p, _ := env.reg.Resolve(args[0])
	fmt.Printf("%s %s = %s\n", ui.Check(), args[0], p)
	return nil
}

func runPathsAlias(cmd *cobra.Command, args []string) error {
	if err := env.reg.Alias(args[0], args[1]); err != nil {
		return err
	}
	if err := saveRegistry(); err != nil {
		return err
	}
	fmt.Printf("%s %s -> %s\n", ui.Check(), args[0], args[1])
	return nil
}

func runPathsEnsure(cmd *cobra.Command, args []string) error {
	for _, key := range args {
		p, err := env.reg.Ensure(key)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %s\n", ui.Check(), key, p)
	}
	return nil
}

func runPathsDiagnose(cmd *cobra.Command, args []string) (err error) {
	problems := env.reg.Diagnose(pathsRepair)
	if pathsRepair {
		st := openStoreOptional()
		defer closeStore(st)
		defer func() {
			record(st, audit.ActionPathsRepair, map[string]int{"problems": len(problems)}, "", fmt.Sprintf("%d problems", len(problems)), err)
		}()
	}

	if len(problems) == 0 {
		fmt.Printf("%s All %d paths are usable\n", ui.Check(), len(env.reg.Keys()))
		return nil
	}

	unresolved := 0
	for _, p := range problems {
		if p.Repaired {
			fmt.Printf("%s %s\n", ui.Check(), p)
			continue
		}
		unresolved++
		fmt.Printf("%s %s\n", ui.Cross(), p)
	}
	if unresolved > 0 {
		return fmt.Errorf("%d path(s) unusable", unresolved)
	}
	return nil
}

func runPathsMigrate(cmd *cobra.Command, args []string) error {
	migrated, err := env.reg.MigrateLegacy(args[0])
	if err != nil {
		return err
	}
	if !migrated {
		fmt.Println("Nothing to migrate")
		return nil
	}
	if err := saveRegistry(); err != nil {
		return err
	}
	p, _ := env.reg.Resolve(paths.OutputBaseDir)
	fmt.Printf("%s %s = %s\n", ui.Check(), paths.OutputBaseDir, p)
	return nil
}
