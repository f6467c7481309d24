package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/projsuite/internal/ui"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent chart, export and import operations",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of operations to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ops, err := st.ListOperations(historyLimit)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		fmt.Println("No operations recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tOUTCOME\tHASH\tDETAILS")
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			op.Timestamp.Local().Format("2006-01-02 15:04:05"), op.Action, ui.Outcome(op.Outcome),
			truncateHash(op.InputsHash), op.Details)
	}
	return w.Flush()
}

func truncateHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
