// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/adsbib/internal/ads"
	"github.com/pdiddy/adsbib/internal/citation"
	"github.com/pdiddy/adsbib/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [citation-line]",
	Short: "Look up one journal/volume/page in ADS",
	Long: `Search resolves a single fragment and lists the matching records. The
fragment is given either as a citation line (parsed the same way resolve
parses input lines) or with --bibstem, --volume and --page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("bibstem", "", "journal abbreviation, e.g. MNRAS")
	searchCmd.Flags().String("volume", "", "volume number")
	searchCmd.Flags().String("page", "", "first page")
	searchCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	frag, err := searchFragment(cmd, args)
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	records, err := client.Search(cmd.Context(), frag)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ads.NotFound(frag)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	t := newTable(out, "Bibcode", "Year", "Publication", "Title")
	for _, r := range records {
		t.AppendRow(table.Row{r.Bibcode, r.Year, r.Pub, r.Title})
	}
	t.Render()
	return nil
}

// searchFragment builds the fragment from a citation line argument or
// from the explicit flags.
func searchFragment(cmd *cobra.Command, args []string) (types.Fragment, error) {
	if len(args) == 1 {
		return citation.ParseFragment(args[0])
	}

	stem, _ := cmd.Flags().GetString("bibstem")
	volume, _ := cmd.Flags().GetString("volume")
	page, _ := cmd.Flags().GetString("page")
	if stem == "" || volume == "" || page == "" {
		return types.Fragment{}, fmt.Errorf("provide a citation line or all of --bibstem, --volume and --page")
	}
	return types.Fragment{Stem: stem, Volume: volume, Page: page}, nil
}
