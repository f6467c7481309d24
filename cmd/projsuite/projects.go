package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/projsuite/internal/opener"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage stored projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var openCmd = &cobra.Command{
	Use:   "open [project]",
	Short: "Open a project's last generated chart",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	projectsCmd.AddCommand(projectsListCmd)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.ListProjects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE\tCHART\tUPDATED")
	for _, p := range projects {
		chart := p.ChartPath
		if chart == "" {
			chart = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.SourcePath, chart, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runOpen(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.GetProjectByName(args[0])
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("project %q not found", args[0])
	}
	if p.ChartPath == "" {
		return fmt.Errorf("project %q has no chart yet, run 'projsuite gantt %s' first", p.Name, p.SourcePath)
	}
	return opener.New().Open(cmd.Context(), p.ChartPath)
}
