// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar fetches the authoritative per-paper artifacts: BibTeX
// entries from the BibTeX lookup service and citing papers from the Semantic
// Scholar Graph API. Both accept a Semantic Scholar corpus id.
package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paperwiz/internal/httputil"
	"github.com/pdiddy/paperwiz/pkg/types"
)

// Default endpoints. Declared as vars so tests can substitute an httptest
// server.
var (
	bibtexAPIBase    = "http://recommendpapers.xyz/api/bibtex"
	citationsAPIBase = "https://api.semanticscholar.org/graph/v1/paper"
)

const (
	citationFields       = "title,year,authors"
	defaultCitationLimit = 10
	maxCitationAuthors   = 3
)

// Client performs primary lookups. Zero-valued URL fields fall back to the
// package defaults.
type Client struct {
	HTTP           *httputil.Client
	BibTeXURL      string
	CitationsURL   string
	CitationsLimit int
	APIKey         string
}

// New builds a client from cfg.
func New(cfg types.LookupConfig, hc *httputil.Client) *Client {
	return &Client{
		HTTP:           hc,
		BibTeXURL:      cfg.BibTeXURL,
		CitationsURL:   cfg.CitationsURL,
		CitationsLimit: cfg.CitationsLimit,
		APIKey:         cfg.SemanticScholarAPIKey,
	}
}

type bibtexResponse struct {
	Papers []struct {
		BibTeX string `json:"bibtex"`
	} `json:"papers"`
}

// BibTeX returns the BibTeX entry for paperID. An empty result list or an
// empty entry wraps types.ErrArtifactPrimary.
func (c *Client) BibTeX(ctx context.Context, paperID string) (string, error) {
	base := c.BibTeXURL
	if base == "" {
		base = bibtexAPIBase
	}
	reqURL := base + "?" + url.Values{"id": {corpusID(paperID)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating BibTeX request: %w", err)
	}

	var br bibtexResponse
	if err := c.client().DoJSON(ctx, req, &br); err != nil {
		return "", fmt.Errorf("%w: BibTeX lookup: %v", types.ErrArtifactPrimary, err)
	}
	if len(br.Papers) == 0 {
		return "", fmt.Errorf("%w: BibTeX not found in API response", types.ErrArtifactPrimary)
	}
	entry := strings.TrimSpace(br.Papers[0].BibTeX)
	if entry == "" {
		return "", fmt.Errorf("%w: empty BibTeX entry", types.ErrArtifactPrimary)
	}
	return entry, nil
}

type citationsResponse struct {
	Data []struct {
		CitingPaper citingPaper `json:"citingPaper"`
	} `json:"data"`
}

type citingPaper struct {
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

// Citations returns a Markdown list of papers citing paperID. No citing
// papers wraps types.ErrArtifactPrimary.
func (c *Client) Citations(ctx context.Context, paperID string) (string, error) {
	base := c.CitationsURL
	if base == "" {
		base = citationsAPIBase
	}
	limit := c.CitationsLimit
	if limit <= 0 {
		limit = defaultCitationLimit
	}
	params := url.Values{
		"fields": {citationFields},
		"limit":  {strconv.Itoa(limit)},
	}
	reqURL := fmt.Sprintf("%s/%s/citations?%s", strings.TrimRight(base, "/"), url.PathEscape(corpusID(paperID)), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating citations request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	var cr citationsResponse
	if err := c.client().DoJSON(ctx, req, &cr); err != nil {
		return "", fmt.Errorf("%w: citation lookup: %v", types.ErrArtifactPrimary, err)
	}

	var lines []string
	for _, d := range cr.Data {
		if line := formatCitation(d.CitingPaper); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: no citing papers found", types.ErrArtifactPrimary)
	}
	return strings.Join(lines, "\n"), nil
}

func (c *Client) client() *httputil.Client {
	if c.HTTP == nil {
		return &httputil.Client{HTTP: http.DefaultClient}
	}
	return c.HTTP
}

// formatCitation renders one Markdown list line for p, omitting unknown parts.
func formatCitation(p citingPaper) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return ""
	}
	line := "- " + title
	if p.Year > 0 {
		line += fmt.Sprintf(" (%d)", p.Year)
	}

	var names []string
	for _, a := range p.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	switch {
	case len(names) > maxCitationAuthors:
		line += " — " + strings.Join(names[:maxCitationAuthors], ", ") + " et al."
	case len(names) > 0:
		line += " — " + strings.Join(names, ", ")
	}
	return line
}

// corpusID prefixes bare ids with the CorpusId scheme.
func corpusID(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return "CorpusId:" + id
}
