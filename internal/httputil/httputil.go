// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the ADS search and
// export clients.
package httputil

import (
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps how much of a response body is read into memory.
// Export responses for a single bibcode are a few kilobytes.
const MaxBodyBytes = 10 << 20

// Authorize sets the User-Agent and, when token is non-empty, the
// bearer Authorization header on req.
func Authorize(req *http.Request, userAgent, token string) {
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// ReadBody reads at most MaxBodyBytes from resp.Body and closes it. A body
// longer than the limit is an error rather than a silent truncation.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", MaxBodyBytes)
	}
	return data, nil
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// Snippet returns the first n bytes of body for use in error messages.
func Snippet(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
