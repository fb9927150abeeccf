// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch converts a list of citation lines into exported
// references, one line at a time. A line that cannot be parsed, found, or
// exported is logged and skipped; only output write failures stop a run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/adsbib/internal/ads"
	"github.com/pdiddy/adsbib/internal/citation"
	"github.com/pdiddy/adsbib/pkg/types"
)

// Searcher resolves a fragment to candidate records.
type Searcher interface {
	Search(ctx context.Context, f types.Fragment) ([]types.Record, error)
}

// Exporter renders bibcodes in an export format.
type Exporter interface {
	Export(ctx context.Context, req ads.ExportRequest) (string, error)
}

// Status is the per-line result recorded in a Summary.
type Status string

const (
	StatusResolved  Status = "resolved"
	StatusNotFound  Status = "not_found"
	StatusFailed    Status = "failed"
	StatusMalformed Status = "malformed"
	StatusSkipped   Status = "skipped"
)

// Outcome records what happened to one input line.
type Outcome struct {
	// Line is the 1-based line number in the input.
	Line int `json:"line" yaml:"line"`

	// Text is the input line without surrounding whitespace.
	Text string `json:"text" yaml:"text"`

	Fragment types.Fragment `json:"fragment" yaml:"fragment"`

	// Bibcode is the first search hit, empty when none was found.
	Bibcode string `json:"bibcode,omitempty" yaml:"bibcode,omitempty"`

	Status Status `json:"status" yaml:"status"`

	// Kind is the error classification for failed lines (see ads.Kind).
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary holds the counts and per-line outcomes of a run, in input order.
type Summary struct {
	Resolved  int
	NotFound  int
	Failed    int
	Malformed int
	Skipped   int

	// Cancelled is set when the context ended before every line was processed.
	Cancelled bool

	Outcomes []Outcome
}

// Total returns the number of lines processed.
func (s Summary) Total() int {
	return s.Resolved + s.NotFound + s.Failed + s.Malformed + s.Skipped
}

// HasFailures reports whether any line did not resolve.
func (s Summary) HasFailures() bool {
	return s.NotFound+s.Failed+s.Malformed > 0
}

// Options configures Run.
type Options struct {
	// Format is the export format; empty means bibtex.
	Format string

	// Logger receives per-line diagnostics.
	Logger zerolog.Logger

	// Progress, when set, receives each resolved bibcode on its own line.
	Progress io.Writer
}

// syncer is implemented by *os.File.
type syncer interface {
	Sync() error
}

// Run processes lines in order. Each resolved line's export text is written
// to out verbatim, with nothing inserted between entries; if out can Sync,
// it is flushed after every write. Per-line failures are logged and counted.
// Run returns an error only for an unsupported format (before any request)
// or a failed write to out.
func Run(ctx context.Context, s Searcher, e Exporter, lines []string, out io.Writer, opts Options) (Summary, error) {
	format := opts.Format
	if format == "" {
		format = ads.FormatBibTeX
	}
	if !ads.IsFormat(format) {
		return Summary{}, &ads.Error{
			Kind: ads.KindConfig,
			Op:   "export " + format,
			Err:  fmt.Errorf("unsupported format %q: must be one of %s", format, strings.Join(ads.Formats, ", ")),
		}
	}

	log := opts.Logger
	var sum Summary

	for i, line := range lines {
		if ctx.Err() != nil {
			sum.Cancelled = true
			log.Warn().Int("remaining", len(lines)-i).Msg("Run cancelled")
			break
		}

		o := Outcome{Line: i + 1, Text: strings.TrimSpace(line)}

		if citation.IsBlank(line) {
			o.Status = StatusSkipped
			sum.record(o)
			continue
		}

		frag, err := citation.ParseFragment(line)
		if err != nil {
			o.Status = StatusMalformed
			o.Error = err.Error()
			log.Warn().Int("line", o.Line).Str("text", o.Text).Err(err).Msg("Malformed citation line")
			sum.record(o)
			continue
		}
		o.Fragment = frag

		text, bibcode, err := resolve(ctx, s, e, frag, format)
		o.Bibcode = bibcode
		if err != nil {
			o.Kind = ads.KindOf(err).String()
			o.Error = err.Error()
			if errors.Is(err, ads.ErrNotFound) {
				o.Status = StatusNotFound
			} else {
				o.Status = StatusFailed
			}
			logFailure(log, o, err)
			sum.record(o)
			continue
		}

		if _, err := io.WriteString(out, text); err != nil {
			return sum, fmt.Errorf("writing %s to output: %w", bibcode, err)
		}
		if f, ok := out.(syncer); ok {
			if err := f.Sync(); err != nil {
				return sum, fmt.Errorf("flushing output: %w", err)
			}
		}

		o.Status = StatusResolved
		sum.record(o)
		if opts.Progress != nil {
			fmt.Fprintln(opts.Progress, bibcode)
		}
		log.Debug().Int("line", o.Line).Str("bibcode", bibcode).Msg("Exported")
	}

	return sum, nil
}

// resolve searches for frag, takes the first record, and exports it.
// The bibcode is returned even when the export fails.
func resolve(ctx context.Context, s Searcher, e Exporter, frag types.Fragment, format string) (string, string, error) {
	records, err := s.Search(ctx, frag)
	if err != nil {
		return "", "", err
	}
	if len(records) == 0 {
		return "", "", ads.NotFound(frag)
	}
	bibcode := records[0].Bibcode

	req, err := ads.NewExportRequest([]string{bibcode}, format)
	if err != nil {
		return "", bibcode, err
	}
	text, err := e.Export(ctx, req)
	if err != nil {
		return "", bibcode, err
	}
	return text, bibcode, nil
}

func (s *Summary) record(o Outcome) {
	switch o.Status {
	case StatusResolved:
		s.Resolved++
	case StatusNotFound:
		s.NotFound++
	case StatusFailed:
		s.Failed++
	case StatusMalformed:
		s.Malformed++
	case StatusSkipped:
		s.Skipped++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// logFailure writes one kind-specific diagnostic naming the fragment.
func logFailure(log zerolog.Logger, o Outcome, err error) {
	f := o.Fragment
	var ev *zerolog.Event
	var msg string
	switch ads.KindOf(err) {
	case ads.KindNotFound:
		ev, msg = log.Warn(), "Paper not found: "+f.String()
	case ads.KindTransport:
		ev, msg = log.Error().Err(err), "Request failed: "+f.String()
	case ads.KindResponseParse:
		ev, msg = log.Error().Err(err), "Unexpected response: "+f.String()
	case ads.KindConfig:
		ev, msg = log.Error().Err(err), "Invalid export request: "+f.String()
	default:
		ev, msg = log.Error().Err(err), "Lookup failed: "+f.String()
	}
	ev = ev.Int("line", o.Line).
		Str("stem", f.Stem).
		Str("volume", f.Volume).
		Str("page", f.Page).
		Str("kind", o.Kind)
	if o.Bibcode != "" {
		ev = ev.Str("bibcode", o.Bibcode)
	}
	ev.Msg(msg)
}

// FormatSummary writes a one-line batch summary to w.
func FormatSummary(s Summary, w io.Writer) {
	fmt.Fprintf(w, "\nBatch summary: %d resolved, %d not found, %d failed, %d malformed, %d skipped (total: %d)\n",
		s.Resolved, s.NotFound, s.Failed, s.Malformed, s.Skipped, s.Total())
	if s.Cancelled {
		fmt.Fprintln(w, "Run was cancelled before all lines were processed.")
	}
}
