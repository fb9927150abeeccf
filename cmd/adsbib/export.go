// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/adsbib/internal/ads"
)

var exportCmd = &cobra.Command{
	Use:   "export bibcode [bibcode...]",
	Short: "Export bibcodes in an ADS citation format",
	Long: fmt.Sprintf(`Export sends the given bibcodes to the ADS export service and prints
the result. Supported formats: %s.`, strings.Join(ads.Formats, ", ")),
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", ads.FormatBibTeX, "ADS export format")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	req, err := ads.NewExportRequest(args, format)
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	text, err := client.Export(cmd.Context(), req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
