// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperwiz/internal/httputil"
	"github.com/pdiddy/paperwiz/pkg/types"
)

func serve(t *testing.T, status int, body string) (*Client, *string) {
	t.Helper()
	var gotMessage string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotMessage = req.Message
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return New(ts.URL, &httputil.Client{HTTP: ts.Client()}), &gotMessage
}

func TestSearchDecodesPapersInOrder(t *testing.T) {
	c, msg := serve(t, http.StatusOK, `{
		"response": "## Results",
		"papers": [
			{"id": 1, "title": "A", "authors": ["Ada", {"name": "Bob"}], "citations": 12, "pdf": "https://x/a.pdf", "external_ids": {"DOI": "10.1/a", "CorpusId": 1}},
			{"id": "2", "title": "B", "citations": "7"}
		]
	}`)

	resp, err := c.Search(context.Background(), "quantum computing")
	require.NoError(t, err)
	assert.Equal(t, "quantum computing", *msg)
	assert.Equal(t, "## Results", resp.Markdown)
	require.Len(t, resp.Papers, 2)

	assert.Equal(t, types.Paper{
		ID:            "1",
		Title:         "A",
		Authors:       []string{"Ada", "Bob"},
		CitationCount: 12,
		PDFURL:        "https://x/a.pdf",
		ExternalIDs:   map[string]string{"DOI": "10.1/a", "CorpusId": "1"},
	}, resp.Papers[0])
	assert.Equal(t, "2", resp.Papers[1].ID)
	assert.Equal(t, 7, resp.Papers[1].CitationCount)
}

func TestSearchMissingIDLeavesEmpty(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"response": "", "papers": [{"title": "No id"}, {"id": null, "title": "Null id"}, {"id": 3}]}`)

	resp, err := c.Search(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, resp.Papers, 3)
	assert.Empty(t, resp.Papers[0].ID)
	assert.Empty(t, resp.Papers[1].ID)
	assert.Equal(t, "3", resp.Papers[2].ID)
	assert.Equal(t, "Unknown Title", resp.Papers[2].Title)
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "non-200", status: http.StatusInternalServerError, body: `{}`, wantMsg: "Error: 500"},
		{name: "missing papers", status: http.StatusOK, body: `{"response": "hi"}`, wantMsg: "no papers"},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantMsg: "Request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := serve(t, tt.status, tt.body)
			_, err := c.Search(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrBackendUnavailable)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSearchEmptyPapersIsNotAnError(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{"response": "nothing", "papers": []}`)
	resp, err := c.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, resp.Papers)
}

func TestSearchUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, nil).Search(context.Background(), "x")
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
}

func TestNewDefaultsURL(t *testing.T) {
	assert.Equal(t, DefaultURL, New("", nil).URL)
}
