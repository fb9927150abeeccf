// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/adsbib/internal/ledger"
)

const defaultLedger = ".adsbib/ledger.db"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List resolve runs recorded in the ledger",
	Long: `History shows the runs recorded by resolve --ledger, newest first. With
--failed it lists the lines of one run (the latest unless --run is given)
that did not resolve, so they can be fixed in the input file.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("ledger", defaultLedger, "SQLite ledger path")
	historyCmd.Flags().Bool("failed", false, "list unresolved lines instead of runs")
	historyCmd.Flags().String("run", "", "run ID for --failed (default: latest run)")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("ledger")
	failed, _ := cmd.Flags().GetBool("failed")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if failed {
		entries, err := store.Failures(cmd.Context(), runID)
		if errors.Is(err, ledger.ErrNoRuns) {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
		if err != nil {
			return err
		}
		printFailures(out, entries)
		return nil
	}

	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	printRuns(out, runs)
	return nil
}

func printRuns(w io.Writer, runs []ledger.Run) {
	t := newTable(w, "Run", "Started", "Input", "Format", "Resolved", "Not found", "Failed", "Malformed", "Cancelled")
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.Started.Local().Format(time.DateTime),
			r.Input,
			r.Format,
			r.Resolved,
			r.NotFound,
			r.Failed,
			r.Malformed,
			r.Cancelled,
		})
	}
	t.Render()
}

func printFailures(w io.Writer, entries []ledger.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Every line resolved.")
		return
	}
	t := newTable(w, "Line", "Status", "Fragment", "Bibcode", "Error")
	for _, e := range entries {
		frag := ""
		if e.Stem != "" {
			frag = e.Stem + " " + e.Volume + " " + e.Page
		}
		t.AppendRow(table.Row{e.Line, e.Status, frag, e.Bibcode, e.Error})
	}
	t.Render()
}
