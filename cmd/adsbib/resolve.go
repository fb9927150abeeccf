// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/adsbib/internal/ads"
	"github.com/pdiddy/adsbib/internal/batch"
	"github.com/pdiddy/adsbib/internal/citation"
	"github.com/pdiddy/adsbib/internal/ledger"
	"github.com/pdiddy/adsbib/pkg/types"
)

const (
	defaultInput  = "bibitems.txt"
	defaultOutput = "MyBibliography.bib"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve bibitem fragments to ADS citations",
	Long: `Resolve reads the input file line by line. Each line's text after the
last backslash is split on commas into journal stem, volume and page (the
page loses its final character). The fragment is searched in ADS, the first
hit is exported, and the export text is appended to the output file.

Lines that cannot be parsed, found, or exported are reported on stderr and
skipped. The output file is created or truncated at the start of the run.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringP("input", "i", defaultInput, "file of citation lines")
	resolveCmd.Flags().StringP("output", "o", defaultOutput, "file receiving exported citations")
	resolveCmd.Flags().StringP("format", "f", ads.FormatBibTeX, "ADS export format")
	resolveCmd.Flags().String("report", "", "write a YAML run report to this path")
	resolveCmd.Flags().String("ledger", "", "record the run in this SQLite ledger")
	resolveCmd.Flags().Bool("quiet", false, "do not echo resolved bibcodes to stdout")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	reportPath, _ := cmd.Flags().GetString("report")
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	quiet, _ := cmd.Flags().GetBool("quiet")

	bc := types.BatchConfig{
		InputPath:  input,
		OutputPath: output,
		Format:     format,
		ReportPath: reportPath,
		LedgerPath: ledgerPath,
	}
	if err := validate.Struct(bc); err != nil {
		return fmt.Errorf("%w: %v", ads.ErrConfig, err)
	}
	if !ads.IsFormat(bc.Format) {
		return fmt.Errorf("%w: unsupported format %q", ads.ErrConfig, bc.Format)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var progress io.Writer
	if !quiet {
		progress = cmd.OutOrStdout()
	}
	return resolveFile(ctx, client, client, bc, progress, cmd.OutOrStdout())
}

// resolveFile runs one batch from bc.InputPath to bc.OutputPath and then
// writes the optional report and ledger entries.
func resolveFile(ctx context.Context, s batch.Searcher, e batch.Exporter, bc types.BatchConfig, progress, stdout io.Writer) error {
	in, err := os.Open(bc.InputPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	lines, err := citation.ReadLines(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	out, err := os.Create(bc.OutputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	info := batch.RunInfo{
		Input:   bc.InputPath,
		Output:  bc.OutputPath,
		Format:  bc.Format,
		Started: time.Now(),
	}
	logger.Info().Str("input", bc.InputPath).Str("output", bc.OutputPath).
		Int("lines", len(lines)).Msg("Resolving citations")

	sum, runErr := batch.Run(ctx, s, e, lines, out, batch.Options{
		Format:   bc.Format,
		Logger:   logger,
		Progress: progress,
	})
	closeErr := out.Close()
	info.Finished = time.Now()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing output: %w", closeErr)
	}

	batch.FormatSummary(sum, stdout)

	runID := ledger.NewRunID()
	if bc.ReportPath != "" {
		if err := batch.WriteReport(bc.ReportPath, batch.NewReport(runID, info, sum)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.Info().Str("path", bc.ReportPath).Msg("Wrote run report")
	}
	if bc.LedgerPath != "" {
		if err := recordRun(bc.LedgerPath, runID, info, sum); err != nil {
			return err
		}
	}

	if sum.Cancelled {
		return errors.New("run cancelled")
	}
	return nil
}

func recordRun(path, runID string, info batch.RunInfo, sum batch.Summary) error {
	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	// The run context may already be cancelled; the record must still land.
	if err := store.Record(context.Background(), ledger.NewRun(runID, info, sum), sum.Outcomes); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	logger.Info().Str("run", runID).Str("ledger", path).Msg("Recorded run")
	return nil
}
