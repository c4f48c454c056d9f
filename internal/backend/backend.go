// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend calls the remote search service that maps a keyword to a
// markdown answer and a list of candidate papers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/paperwiz/internal/httputil"
	"github.com/pdiddy/paperwiz/pkg/types"
)

// DefaultURL is the chatbot endpoint used when none is configured.
const DefaultURL = "http://127.0.0.1:5000/chatbot"

// Response is a decoded search result. Papers keep backend order; a paper
// whose id was absent or null has an empty ID.
type Response struct {
	Markdown string
	Papers   []types.Paper
}

// Client posts keywords to the search service.
type Client struct {
	URL  string
	HTTP *httputil.Client
}

// New returns a client for url. An empty url means DefaultURL.
func New(url string, hc *httputil.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{URL: url, HTTP: hc}
}

type searchRequest struct {
	Message string `json:"message"`
}

type searchResponse struct {
	Response string        `json:"response"`
	Papers   *[]paperRecord `json:"papers"`
}

type paperRecord struct {
	ID          json.RawMessage            `json:"id"`
	Title       string                     `json:"title"`
	Authors     []json.RawMessage          `json:"authors"`
	Citations   json.RawMessage            `json:"citations"`
	PDF         string                     `json:"pdf"`
	ExternalIDs map[string]json.RawMessage `json:"external_ids"`
}

// Search posts keyword and decodes the response. Transport failures, non-200
// statuses, and bodies without a papers field wrap types.ErrBackendUnavailable.
func (c *Client) Search(ctx context.Context, keyword string) (Response, error) {
	body, err := json.Marshal(searchRequest{Message: keyword})
	if err != nil {
		return Response{}, fmt.Errorf("marshaling search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = &httputil.Client{HTTP: http.DefaultClient}
	}

	var sr searchResponse
	if err := hc.DoJSON(ctx, req, &sr); err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) {
			return Response{}, fmt.Errorf("%w: Error: %d", types.ErrBackendUnavailable, se.StatusCode)
		}
		return Response{}, fmt.Errorf("%w: Request failed: %v", types.ErrBackendUnavailable, err)
	}
	if sr.Papers == nil {
		return Response{}, fmt.Errorf("%w: response has no papers", types.ErrBackendUnavailable)
	}

	out := Response{Markdown: sr.Response, Papers: make([]types.Paper, 0, len(*sr.Papers))}
	for _, rec := range *sr.Papers {
		out.Papers = append(out.Papers, rec.paper())
	}
	return out, nil
}

func (r paperRecord) paper() types.Paper {
	p := types.Paper{
		ID:     scalar(r.ID),
		Title:  strings.TrimSpace(r.Title),
		PDFURL: r.PDF,
	}
	if p.Title == "" {
		p.Title = "Unknown Title"
	}
	if n, err := strconv.Atoi(scalar(r.Citations)); err == nil {
		p.CitationCount = n
	}
	for _, a := range r.Authors {
		if name := authorName(a); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	if len(r.ExternalIDs) > 0 {
		p.ExternalIDs = make(map[string]string, len(r.ExternalIDs))
		for k, v := range r.ExternalIDs {
			if s := scalar(v); s != "" {
				p.ExternalIDs[k] = s
			}
		}
	}
	return p
}

// scalar renders a JSON string or number as text. null, objects, arrays and
// absent values yield "".
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// authorName accepts either a plain string or an object with a name field.
func authorName(raw json.RawMessage) string {
	if s := scalar(raw); s != "" {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Name)
	}
	return ""
}
