// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Report is the on-disk record of one resolve run.
type Report struct {
	RunID    string       `yaml:"run_id"`
	Input    string       `yaml:"input"`
	Output   string       `yaml:"output"`
	Format   string       `yaml:"format"`
	Started  time.Time    `yaml:"started"`
	Finished time.Time    `yaml:"finished"`
	Counts   ReportCounts `yaml:"counts"`
	Outcomes []Outcome    `yaml:"outcomes"`
}

// ReportCounts mirrors the Summary counters.
type ReportCounts struct {
	Total     int  `yaml:"total"`
	Resolved  int  `yaml:"resolved"`
	NotFound  int  `yaml:"not_found"`
	Failed    int  `yaml:"failed"`
	Malformed int  `yaml:"malformed"`
	Skipped   int  `yaml:"skipped"`
	Cancelled bool `yaml:"cancelled,omitempty"`
}

// NewReport builds a Report from a finished run.
func NewReport(runID string, info RunInfo, s Summary) Report {
	return Report{
		RunID:    runID,
		Input:    info.Input,
		Output:   info.Output,
		Format:   info.Format,
		Started:  info.Started,
		Finished: info.Finished,
		Counts: ReportCounts{
			Total:     s.Total(),
			Resolved:  s.Resolved,
			NotFound:  s.NotFound,
			Failed:    s.Failed,
			Malformed: s.Malformed,
			Skipped:   s.Skipped,
			Cancelled: s.Cancelled,
		},
		Outcomes: s.Outcomes,
	}
}

// RunInfo describes the run a Summary came from.
type RunInfo struct {
	Input    string
	Output   string
	Format   string
	Started  time.Time
	Finished time.Time
}

// WriteReport saves r as YAML at path.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
