// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/adsbib/internal/bibfile"
)

var checkCmd = &cobra.Command{
	Use:   "check [file.bib]",
	Short: "Parse a BibTeX file and list its entries",
	Long: `Check parses a BibTeX file (by default the resolve output) and lists
every entry key. Keys that appear more than once, which happens when the
same paper is cited twice in the input, are reported as warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := defaultOutput
	if len(args) == 1 {
		path = args[0]
	}

	sum, err := bibfile.ParseFile(path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	t := newTable(out, "#", "Key", "Type", "Year", "Title")
	for i, e := range sum.Entries {
		t.AppendRow(table.Row{i + 1, e.Key, e.Type, e.Year, e.Title})
	}
	t.Render()

	fmt.Fprintf(out, "%d entries in %s\n", len(sum.Entries), path)
	if len(sum.Duplicates) > 0 {
		logger.Warn().Str("keys", strings.Join(sum.Duplicates, ", ")).Msg("Duplicate entry keys")
	}
	return nil
}
