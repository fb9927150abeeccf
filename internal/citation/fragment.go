// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation reads citation lines and parses them into fragments.
//
// An input line looks like a LaTeX bibitem tail, for example
//
//	\bibitem[Author(2018)]{key} \MNRAS,473,2590
//
// Everything up to the last backslash is ignored. The remainder is split on
// commas into stem, volume, and page; the last character of the page field
// is always dropped because lines keep their terminator.
package citation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/adsbib/pkg/types"
)

// ErrMalformedLine is returned by ParseFragment when a line cannot yield
// all three fields.
var ErrMalformedLine = errors.New("malformed citation line")

// ParseFragment extracts the stem, volume, and page from line. The page
// field loses its trailing character unconditionally; each field is then
// trimmed of surrounding whitespace. Fields after the third are ignored.
func ParseFragment(line string) (types.Fragment, error) {
	tail := line
	if i := strings.LastIndex(line, `\`); i >= 0 {
		tail = line[i+1:]
	}

	fields := strings.Split(tail, ",")
	if len(fields) < 3 {
		return types.Fragment{}, fmt.Errorf("%w: want stem,volume,page, got %d field(s) in %q",
			ErrMalformedLine, len(fields), strings.TrimSpace(line))
	}

	page := fields[2]
	if page != "" {
		_, size := utf8.DecodeLastRuneInString(page)
		page = page[:len(page)-size]
	}

	f := types.Fragment{
		Stem:   strings.TrimSpace(fields[0]),
		Volume: strings.TrimSpace(fields[1]),
		Page:   strings.TrimSpace(page),
	}
	switch {
	case f.Stem == "":
		return f, fmt.Errorf("%w: empty journal stem in %q", ErrMalformedLine, strings.TrimSpace(line))
	case f.Volume == "":
		return f, fmt.Errorf("%w: empty volume in %q", ErrMalformedLine, strings.TrimSpace(line))
	case f.Page == "":
		return f, fmt.Errorf("%w: empty page in %q", ErrMalformedLine, strings.TrimSpace(line))
	}
	return f, nil
}

// IsBlank reports whether line holds nothing but whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// ReadLines reads every line from r, keeping each line's "\n" terminator.
// The final line has no terminator if the input does not end with one.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, fmt.Errorf("reading citation lines: %w", err)
		}
	}
}
