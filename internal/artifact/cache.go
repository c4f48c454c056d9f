// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package artifact memoizes per-paper derived content (citations, BibTeX)
// behind a deterministic primary → fallback → error chain.
//
// For each (kind, paper id) the primary source is called exactly once and the
// fallback at most once, for the lifetime of the Cache, including under
// concurrent callers. Failures are stored as entries with OriginError; Get
// never returns an error.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// PrimaryFunc fetches authoritative content for a paper id. An empty result
// counts as a failure.
type PrimaryFunc func(ctx context.Context, paperID string) (string, error)

// FallbackFunc generates content from paper metadata when the primary fails.
type FallbackFunc func(ctx context.Context, paper types.Paper) (string, error)

// Source pairs the compute functions for one artifact kind. Fallback may be nil.
type Source struct {
	Primary  PrimaryFunc
	Fallback FallbackFunc
}

type key struct {
	kind types.ArtifactKind
	id   string
}

func (k key) String() string { return string(k.kind) + "\x00" + k.id }

// Cache holds at most one entry per (kind, paper id).
type Cache struct {
	mu      sync.RWMutex
	entries map[key]types.CacheEntry
	group   singleflight.Group
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[key]types.CacheEntry)}
}

// Lookup returns the stored entry without computing anything.
func (c *Cache) Lookup(kind types.ArtifactKind, paperID string) (types.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key{kind, paperID}]
	return e, ok
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a copy of every stored entry, ordered by the given papers
// and then by artifact kind.
func (c *Cache) Entries(papers []types.Paper) []types.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []types.CacheEntry
	for _, p := range papers {
		for _, kind := range types.ArtifactKinds {
			if e, ok := c.entries[key{kind, p.ID}]; ok {
				out = append(out, e)
			}
		}
	}
	return out
}

// Get returns the entry for (kind, paper.ID), computing and storing it on the
// first request. primary must be non-nil; fallback may be nil.
func (c *Cache) Get(ctx context.Context, kind types.ArtifactKind, paper types.Paper, primary PrimaryFunc, fallback FallbackFunc) types.CacheEntry {
	k := key{kind, paper.ID}
	if e, ok := c.Lookup(kind, paper.ID); ok {
		return e
	}

	v, _, _ := c.group.Do(k.String(), func() (any, error) {
		// A caller that missed the map may arrive after a previous flight
		// stored its result and left the group.
		if e, ok := c.Lookup(kind, paper.ID); ok {
			return e, nil
		}
		e := compute(ctx, kind, paper, primary, fallback)
		c.mu.Lock()
		c.entries[k] = e
		c.mu.Unlock()
		return e, nil
	})
	return v.(types.CacheEntry)
}

// GetFrom is Get with the compute functions taken from src.
func (c *Cache) GetFrom(ctx context.Context, kind types.ArtifactKind, paper types.Paper, src Source) types.CacheEntry {
	return c.Get(ctx, kind, paper, src.Primary, src.Fallback)
}

func compute(ctx context.Context, kind types.ArtifactKind, paper types.Paper, primary PrimaryFunc, fallback FallbackFunc) types.CacheEntry {
	entry := types.CacheEntry{Kind: kind, PaperID: paper.ID}

	content, err := callPrimary(ctx, primary, paper.ID)
	if err == nil {
		entry.Content = content
		entry.Origin = types.OriginPrimary
		return entry
	}

	if fallback == nil {
		entry.Origin = types.OriginError
		entry.Content = fmt.Sprintf("Error retrieving %s for paper %s: %v", Label(kind), paper.ID, err)
		return entry
	}

	generated, ferr := fallback(ctx, paper)
	if ferr == nil && strings.TrimSpace(generated) == "" {
		ferr = errors.New("empty response")
	}
	if ferr != nil {
		ferr = fmt.Errorf("%w: %v", types.ErrArtifactFallback, ferr)
		entry.Origin = types.OriginError
		entry.Content = fmt.Sprintf("Fallback failed for paper %s: %v", paper.ID, ferr)
		return entry
	}
	entry.Content = strings.TrimSpace(generated)
	entry.Origin = types.OriginFallback
	return entry
}

func callPrimary(ctx context.Context, primary PrimaryFunc, id string) (string, error) {
	if primary == nil {
		return "", fmt.Errorf("%w: no primary source configured", types.ErrArtifactPrimary)
	}
	content, err := primary(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrArtifactPrimary) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", types.ErrArtifactPrimary, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: empty result", types.ErrArtifactPrimary)
	}
	return content, nil
}

// Label returns the human-readable name of an artifact kind.
func Label(kind types.ArtifactKind) string {
	switch kind {
	case types.ArtifactCitation:
		return "citations"
	case types.ArtifactBibTeX:
		return "BibTeX"
	default:
		return string(kind)
	}
}
