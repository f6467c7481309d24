package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fentz26/projsuite/internal/audit"
	"github.com/fentz26/projsuite/internal/store"
	"github.com/fentz26/projsuite/internal/taskio"
	"github.com/fentz26/projsuite/internal/ui"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage stored project tasks",
}

var tasksImportCmd = &cobra.Command{
	Use:   "import [export.csv]",
	Short: "Import an exported CSV into the project database",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksImport,
}

var tasksListCmd = &cobra.Command{
	Use:   "list [project]",
	Short: "List a project's tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksList,
}

func init() {
	tasksCmd.AddCommand(tasksImportCmd, tasksListCmd)
}

// groupByProject splits records by project name, keeping first-seen order.
// Records without a project name belong to fallback.
func groupByProject(records []taskio.Record, fallback, sourcePath string) []store.ProjectTasks {
	var groups []store.ProjectTasks
	index := make(map[string]int)
	for _, rec := range records {
		name := rec.ProjectName
		if name == "" {
			name = fallback
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, store.ProjectTasks{Name: name, SourcePath: sourcePath})
		}
		groups[i].Tasks = append(groups[i].Tasks, rec.Task)
	}
	return groups
}

func runTasksImport(cmd *cobra.Command, args []string) (err error) {
	input := args[0]
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var imported int
	defer func() {
		record(st, audit.ActionImport, map[string]string{"input": input}, "", fmt.Sprintf("%d tasks", imported), err)
	}()

	records, err := taskio.ReadCSVFile(input)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	abs, _ := filepath.Abs(input)

	groups := groupByProject(records, projectName(input), abs)
	if _, err := st.ImportProjects(groups); err != nil {
		return fmt.Errorf("import %s: %w", input, err)
	}
	for _, g := range groups {
		imported += len(g.Tasks)
		fmt.Printf("%s %s: %d tasks\n", ui.Check(), g.Name, len(g.Tasks))
	}
	return nil
}

func runTasksList(cmd *cobra.Command, args []string) error {
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
	tasks, err := st.ListTasks(p.ID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tSTART\tEND\tSTATUS\tMILESTONE")
	for _, t := range tasks {
		milestone := ""
		if t.Milestone {
			milestone = "◆"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.Name, t.Start.Format(taskio.DateLayout), t.End.Format(taskio.DateLayout),
			ui.Status(t.Status), milestone)
	}
	return w.Flush()
}
