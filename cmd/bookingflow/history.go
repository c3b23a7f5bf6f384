package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent processing runs",
		Long: `Show the run history recorded by the process command.

Examples:
  # List the 20 most recent runs
  bookingflow history

  # List more
  bookingflow history --limit 50

  # Show one run with its booking records
  bookingflow history --id 42`,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	cmd.Flags().Int64("id", 0, "Show a single run with its booking records")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	id, _ := cmd.Flags().GetInt64("id")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	if id > 0 {
		run, getErr := store.GetRun(ctx, id)
		if getErr != nil {
			return getErr
		}

		status := "ok"
		if !run.Success {
			status = "failed: " + run.Error
		}
		fmt.Fprintf(out, "Run %d  %s  %s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Source)
		fmt.Fprintf(out, "  %s | %s/%s | confidence %.2f | $%.4f | %s\n",
			status, run.Cardinality, run.Path, run.Confidence, run.CostUSD, run.Elapsed)
		for i := range run.Records {
			fmt.Fprintf(out, "  %s\n", run.Records[i].Summary())
		}
		return nil
	}

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		mark := "✓"
		if !run.Success {
			mark = "✗"
		}
		fmt.Fprintf(out, "%s %4d  %s  %-30s  %d/%d records  conf %.2f\n",
			mark, run.ID, run.CreatedAt.Format("2006-01-02 15:04"),
			run.Source, run.RecordCount, run.ExpectedCount, run.Confidence)
	}

	return nil
}
