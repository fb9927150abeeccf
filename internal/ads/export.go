// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/adsbib/internal/httputil"
)

// FormatBibTeX is the default export format.
const FormatBibTeX = "bibtex"

// Formats lists the export formats the service accepts.
var Formats = []string{
	"bibtex", "bibtexabs", "ads", "endnote", "aastex",
	"ris", "icarus", "mnras", "soph", "votable",
}

// IsFormat reports whether format is one of Formats.
func IsFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// ExportRequest is a validated request to render bibcodes in one format.
// Build it with NewExportRequest; the zero value is rejected by Export.
type ExportRequest struct {
	bibcodes []string
	format   string
}

// NewExportRequest validates the format and identifiers. An unsupported
// format or an empty identifier list is a KindConfig error; nothing is
// sent over the network.
func NewExportRequest(bibcodes []string, format string) (ExportRequest, error) {
	op := "export " + format
	if !IsFormat(format) {
		return ExportRequest{}, configError(op, "unsupported format %q: must be one of %s",
			format, strings.Join(Formats, ", "))
	}
	if len(bibcodes) == 0 {
		return ExportRequest{}, configError(op, "no bibcodes given")
	}
	for i, b := range bibcodes {
		if strings.TrimSpace(b) == "" {
			return ExportRequest{}, configError(op, "bibcode %d is empty", i)
		}
	}
	return ExportRequest{
		bibcodes: slices.Clone(bibcodes),
		format:   format,
	}, nil
}

// Format returns the requested export format.
func (r ExportRequest) Format() string { return r.format }

// Bibcodes returns a copy of the identifiers in request order.
func (r ExportRequest) Bibcodes() []string { return slices.Clone(r.bibcodes) }

// Path returns the target URL for the request: endpoint + "/" + format.
func (r ExportRequest) Path(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + "/" + r.format
}

// Payload returns the JSON request body {"bibcode": [...]}.
func (r ExportRequest) Payload() ([]byte, error) {
	return json.Marshal(exportPayload{Bibcode: r.bibcodes})
}

type exportPayload struct {
	Bibcode []string `json:"bibcode"`
}

// Export posts req to the export service and returns the formatted text
// from the response's "export" field, verbatim.
func (c *Client) Export(ctx context.Context, req ExportRequest) (string, error) {
	if req.format == "" || len(req.bibcodes) == 0 {
		return "", configError("export", "request was not built with NewExportRequest")
	}
	op := "export " + req.format

	payload, err := req.Payload()
	if err != nil {
		return "", configError(op, "encoding payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Path(c.exportURL), bytes.NewReader(payload))
	if err != nil {
		return "", configError(op, "creating request: %w", err)
	}
	httputil.Authorize(httpReq, c.userAgent, c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", transportError(op, err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return "", transportError(op, err)
	}

	return parseExportBody(op, resp.StatusCode, body)
}

// parseExportBody extracts the "export" string from a response body.
func parseExportBody(op string, status int, body []byte) (string, error) {
	if !httputil.IsSuccess(status) {
		return "", parseError(op, status, fmt.Errorf("body: %s", httputil.Snippet(body, 200)))
	}
	if !gjson.ValidBytes(body) {
		return "", parseError(op, 0, fmt.Errorf("response is not JSON: %s", httputil.Snippet(body, 200)))
	}
	res := gjson.GetBytes(body, "export")
	if !res.Exists() {
		return "", parseError(op, 0, errors.New(`missing "export" field`))
	}
	if res.Type != gjson.String {
		return "", parseError(op, 0, fmt.Errorf(`"export" field is %s, not a string`, res.Type))
	}
	return res.String(), nil
}
