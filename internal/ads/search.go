// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/adsbib/internal/httputil"
	"github.com/pdiddy/adsbib/pkg/types"
)

const searchFields = "bibcode,title,year,pub"

// Search looks up the records matching a journal stem, volume, and page.
// An empty slice with a nil error means nothing matched; transport and
// response failures are returned as *Error with the matching Kind.
func (c *Client) Search(ctx context.Context, f types.Fragment) ([]types.Record, error) {
	const op = "search"

	params := url.Values{
		"q":    {buildSearchQuery(f)},
		"fl":   {searchFields},
		"rows": {strconv.Itoa(c.rows)},
	}
	reqURL := c.searchURL + "/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, configError(op, "creating request: %w", err)
	}
	httputil.Authorize(req, c.userAgent, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, transportError(op, err)
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		return nil, parseError(op, resp.StatusCode, fmt.Errorf("body: %s", httputil.Snippet(body, 200)))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, parseError(op, 0, fmt.Errorf("decoding response: %w", err))
	}
	if sr.Response == nil {
		return nil, parseError(op, 0, errors.New(`missing "response" object`))
	}

	records := make([]types.Record, 0, len(sr.Response.Docs))
	for _, d := range sr.Response.Docs {
		if d.Bibcode == "" {
			continue
		}
		r := types.Record{
			Bibcode: d.Bibcode,
			Year:    d.Year,
			Pub:     d.Pub,
		}
		if len(d.Title) > 0 {
			r.Title = d.Title[0]
		}
		records = append(records, r)
	}
	return records, nil
}

// NotFound returns the KindNotFound error reported for a fragment whose
// search returned no records.
func NotFound(f types.Fragment) error {
	return &Error{Kind: KindNotFound, Op: "search", Err: fmt.Errorf("no records for %s", f)}
}

// buildSearchQuery renders the fielded ADS query for a fragment, e.g.
// bibstem:"MNRAS" volume:"473" page:"2590".
func buildSearchQuery(f types.Fragment) string {
	return fmt.Sprintf(`bibstem:"%s" volume:"%s" page:"%s"`,
		quoteEscape(f.Stem), quoteEscape(f.Volume), quoteEscape(f.Page))
}

func quoteEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// ADS search API JSON structures.
type searchResponse struct {
	Response *searchResult `json:"response"`
}

type searchResult struct {
	NumFound int         `json:"numFound"`
	Start    int         `json:"start"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Bibcode string   `json:"bibcode"`
	Title   []string `json:"title"`
	Year    string   `json:"year"`
	Pub     string   `json:"pub"`
}
