// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the search and export clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "adsbib/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ADSConfig holds the endpoints and credentials for the ADS API.
type ADSConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// SearchURL is the base of the search service; queries go to SearchURL + "/query".
	SearchURL string `json:"search_url" yaml:"search_url" mapstructure:"search_url" validate:"required,url"`

	// ExportURL is the base of the export service; requests go to ExportURL + "/<format>".
	ExportURL string `json:"export_url" yaml:"export_url" mapstructure:"export_url" validate:"required,url"`

	// Token is the ADS API bearer token. It is never written to reports.
	Token string `json:"-" yaml:"-" mapstructure:"token"`

	// Rows is the maximum number of records requested per search (default 5).
	Rows int `json:"rows" yaml:"rows" mapstructure:"rows" validate:"gte=1,lte=2000"`
}

// BatchConfig holds settings for the resolve stage.
type BatchConfig struct {
	// InputPath is the file of citation lines (e.g. "bibitems.txt").
	InputPath string `json:"input" yaml:"input" validate:"required"`

	// OutputPath is the file receiving exported citations (e.g. "MyBibliography.bib").
	OutputPath string `json:"output" yaml:"output" validate:"required"`

	// Format is the export format requested for every resolved bibcode.
	Format string `json:"format" yaml:"format" validate:"required"`

	// ReportPath optionally receives a YAML run report.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`

	// LedgerPath optionally points at the SQLite run ledger.
	LedgerPath string `json:"ledger,omitempty" yaml:"ledger,omitempty"`
}
