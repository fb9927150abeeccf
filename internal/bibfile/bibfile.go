// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibfile inspects BibTeX files produced by a resolve run.
package bibfile

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nickng/bibtex"
)

// Entry summarizes one BibTeX entry.
type Entry struct {
	Key   string
	Type  string
	Title string
	Year  string
}

// Summary lists the entries of a file in file order, plus the keys that
// appear more than once.
type Summary struct {
	Entries    []Entry
	Duplicates []string
}

// Parse reads BibTeX from r.
func Parse(r io.Reader) (Summary, error) {
	bib, err := bibtex.Parse(r)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing BibTeX: %w", err)
	}

	var sum Summary
	seen := make(map[string]int)
	for _, e := range bib.Entries {
		sum.Entries = append(sum.Entries, Entry{
			Key:   e.CiteName,
			Type:  strings.ToLower(e.Type),
			Title: field(e, "title"),
			Year:  field(e, "year"),
		})
		seen[e.CiteName]++
	}
	for key, n := range seen {
		if n > 1 {
			sum.Duplicates = append(sum.Duplicates, key)
		}
	}
	sort.Strings(sum.Duplicates)
	return sum, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	return Parse(f)
}

func field(e *bibtex.BibEntry, name string) string {
	v, ok := e.Fields[name]
	if !ok || v == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(v.String()), "{}")
}
