// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		token     string
		wantUA    string
		wantAuth  string
	}{
		{"both set", "adsbib/0.1", "tok123", "adsbib/0.1", "Bearer tok123"},
		{"no token", "adsbib/0.1", "", "adsbib/0.1", ""},
		{"no user agent keeps default", "", "tok", "Go-http-client/1.1", "Bearer tok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUA, gotAuth string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				gotAuth = r.Header.Get("Authorization")
			}))
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)
			Authorize(req, tt.userAgent, tt.token)

			resp, err := ts.Client().Do(req)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tt.wantUA, gotUA)
			assert.Equal(t, tt.wantAuth, gotAuth)
		})
	}
}

func TestReadBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"export":"x"}`))
	}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL)
	require.NoError(t, err)

	body, err := ReadBody(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"export":"x"}`, string(body))
}

func TestReadBody_TooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("a", MaxBodyBytes+10)))
	}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL)
	require.NoError(t, err)

	_, err = ReadBody(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(http.StatusOK))
	assert.True(t, IsSuccess(http.StatusNoContent))
	assert.False(t, IsSuccess(http.StatusMovedPermanently))
	assert.False(t, IsSuccess(http.StatusUnauthorized))
	assert.False(t, IsSuccess(http.StatusInternalServerError))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet([]byte("short"), 10))
	assert.Equal(t, "abc...", Snippet([]byte("abcdef"), 3))
}
