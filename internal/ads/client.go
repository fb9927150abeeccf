// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ads talks to the NASA Astrophysics Data System: the search
// service resolves a journal/volume/page triple to bibcodes, and the export
// service renders bibcodes as BibTeX or another citation format.
package ads

import (
	"net/http"
	"strings"

	"github.com/pdiddy/adsbib/pkg/types"
)

const (
	// DefaultSearchURL is the ADS search service base.
	DefaultSearchURL = "https://api.adsabs.harvard.edu/v1/search"

	// DefaultExportURL is the ADS export service base.
	DefaultExportURL = "https://api.adsabs.harvard.edu/v1/export"

	// DefaultRows is the number of records requested per search. Only the
	// first is used, the rest are kept for the search subcommand.
	DefaultRows = 5

	// DefaultUserAgent is sent when the configuration leaves it empty.
	DefaultUserAgent = "adsbib/0.1"
)

// Client holds the endpoints, credentials, and HTTP transport shared by
// the search and export calls. It carries no per-request state.
type Client struct {
	httpClient *http.Client
	searchURL  string
	exportURL  string
	token      string
	userAgent  string
	rows       int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (tests pass httptest clients).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient builds a Client from cfg, filling defaults for empty fields.
func NewClient(cfg types.ADSConfig, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		searchURL:  strings.TrimRight(cfg.SearchURL, "/"),
		exportURL:  strings.TrimRight(cfg.ExportURL, "/"),
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		rows:       cfg.Rows,
	}
	if c.searchURL == "" {
		c.searchURL = DefaultSearchURL
	}
	if c.exportURL == "" {
		c.exportURL = DefaultExportURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.rows <= 0 {
		c.rows = DefaultRows
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExportEndpoint returns the export base URL the client posts to.
func (c *Client) ExportEndpoint() string { return c.exportURL }
