package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deusflow/newsdigest/internal/storage"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent digest runs from the archive",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	archive, err := storage.New(cmd.Context(), cfg.Archive)
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.Recent(cmd.Context(), flagHistoryLimit)
	if err != nil {
		return err
	}

	printRuns(cmd.OutOrStdout(), runs)
	return nil
}

func printRuns(w io.Writer, runs []storage.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs.")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-6s  %3d articles  %s\n", r.Date, r.Status, r.ArticleCount, r.ReportPath)
	}
}
