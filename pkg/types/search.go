// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for adsbib: citation
// fragments parsed from input lines, search records returned by ADS,
// and the configuration structs used by the CLI.
package types

import "fmt"

// Fragment is the (journal stem, volume, page) triple extracted from one
// input line.
type Fragment struct {
	// Stem is the ADS bibstem, the journal abbreviation (e.g. "MNRAS").
	Stem string `json:"stem" yaml:"stem"`

	// Volume is the journal volume as written in the input.
	Volume string `json:"volume" yaml:"volume"`

	// Page is the first page as written in the input, after the trailing
	// character has been stripped.
	Page string `json:"page" yaml:"page"`
}

// String renders the fragment the way diagnostics print it: "MNRAS 473 259".
func (f Fragment) String() string {
	return fmt.Sprintf("%s %s %s", f.Stem, f.Volume, f.Page)
}

// Record is one document returned by the search service.
type Record struct {
	// Bibcode is the canonical identifier used for export.
	Bibcode string `json:"bibcode" yaml:"bibcode"`

	// Title is the first title returned for the document, if requested.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Year is the publication year as a string.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// Pub is the full publication name.
	Pub string `json:"pub,omitempty" yaml:"pub,omitempty"`
}
