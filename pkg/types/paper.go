// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperwiz workspace.
// Registry, cache, orchestration, and tab packages all speak in these types so
// that no package has to import another's internals to describe a paper or an
// artifact.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Paper holds the metadata the search backend returns for one candidate paper.
// Only ID and Title are required; the remaining fields feed the fallback
// BibTeX prompt when the primary lookup fails.
type Paper struct {
	// ID is the opaque identifier supplied by the search backend
	// (a Semantic Scholar corpus id in practice).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the backend.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// CitationCount is the number of citing papers reported by the backend.
	CitationCount int `json:"citations,omitempty" yaml:"citations,omitempty"`

	// PDFURL points at an open-access PDF when the backend knows one.
	PDFURL string `json:"pdf,omitempty" yaml:"pdf,omitempty"`

	// ExternalIDs maps identifier schemes (DOI, ArXiv, CorpusId) to values.
	ExternalIDs map[string]string `json:"external_ids,omitempty" yaml:"external_ids,omitempty"`
}

// ExternalIDList renders ExternalIDs as a stable "key: value" list.
func (p Paper) ExternalIDList() string {
	if len(p.ExternalIDs) == 0 {
		return "N/A"
	}
	keys := make([]string, 0, len(p.ExternalIDs))
	for k := range p.ExternalIDs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, p.ExternalIDs[k]))
	}
	return strings.Join(parts, ", ")
}

// ArtifactKind identifies a derived artifact that is cached per paper.
// Summary and comparison content depends on the whole selection, so those are
// views only and never artifact kinds.
type ArtifactKind string

const (
	ArtifactCitation ArtifactKind = "citation"
	ArtifactBibTeX   ArtifactKind = "bibtex"
)

// ArtifactKinds lists every cached kind in pre-warm order.
var ArtifactKinds = []ArtifactKind{ArtifactCitation, ArtifactBibTeX}

// Origin records which source produced a cache entry's content.
type Origin string

const (
	OriginPrimary  Origin = "primary"
	OriginFallback Origin = "fallback"
	OriginError    Origin = "error"
)

// CacheEntry is the memoized result of deriving one artifact for one paper.
// Content is always renderable: on failure it carries the error message.
type CacheEntry struct {
	Kind    ArtifactKind `json:"kind" yaml:"kind"`
	PaperID string       `json:"paper_id" yaml:"paper_id"`
	Content string       `json:"content" yaml:"content"`
	Origin  Origin       `json:"origin" yaml:"origin"`
}

// Failed reports whether the entry holds an error message instead of content.
func (e CacheEntry) Failed() bool {
	return e.Origin == OriginError
}
