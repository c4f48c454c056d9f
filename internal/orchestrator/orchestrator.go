// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator turns a validated selection into renderable content for
// one view.
//
// Per-paper views (Citations, BibTeX) read already-computed cache entries and
// concatenate one fragment per selected paper in selection order. Group views
// (Summary, Compare) build a single prompt from all selected titles and call
// the generator once; their results are never cached. No method returns an
// error: every failure becomes inline content.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paperwiz/internal/artifact"
	"github.com/pdiddy/paperwiz/pkg/types"
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Titles resolves paper ids to display titles.
type Titles interface {
	TitleOf(id string) string
}

// Entries reads cached artifacts without computing them.
type Entries interface {
	Lookup(kind types.ArtifactKind, paperID string) (types.CacheEntry, bool)
}

// Orchestrator renders view content for a selection of paper ids.
type Orchestrator struct {
	titles  Titles
	entries Entries
	gen     Generator
}

// New returns an orchestrator. gen may be nil, in which case group views
// render an inline error.
func New(titles Titles, entries Entries, gen Generator) *Orchestrator {
	return &Orchestrator{titles: titles, entries: entries, gen: gen}
}

// Render produces the content for view over ids.
func (o *Orchestrator) Render(ctx context.Context, view types.ViewKind, ids []string) string {
	if kind, ok := view.Artifact(); ok {
		return o.PerPaper(kind, ids)
	}
	return o.Group(ctx, view, ids)
}

// PerPaper concatenates the cached entry of kind for each id under the kind's
// section header.
func (o *Orchestrator) PerPaper(kind types.ArtifactKind, ids []string) string {
	fragments := make([]string, 0, len(ids))
	for _, id := range ids {
		entry, ok := o.entries.Lookup(kind, id)
		if !ok {
			entry = types.CacheEntry{
				Kind:    kind,
				PaperID: id,
				Origin:  types.OriginError,
				Content: fmt.Sprintf("No %s cached.", artifact.Label(kind)),
			}
		}
		fragments = append(fragments, Fragment(kind, o.titles.TitleOf(id), entry))
	}
	return Section(SectionHeader(kind), strings.Join(fragments, fragmentSeparator))
}

// Group calls the generator once with a prompt built from every selected
// title and renders the response under the view's header.
func (o *Orchestrator) Group(ctx context.Context, view types.ViewKind, ids []string) string {
	header, noun := groupHeader(view)
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		titles = append(titles, o.titles.TitleOf(id))
	}

	body, err := o.generate(ctx, view, titles)
	if err != nil {
		body = fmt.Sprintf("Error generating %s: %v", noun, err)
	}
	return Section(header, body)
}

func (o *Orchestrator) generate(ctx context.Context, view types.ViewKind, titles []string) (string, error) {
	if o.gen == nil {
		return "", fmt.Errorf("no text generator configured")
	}
	prompt, err := GroupPrompt(view, titles)
	if err != nil {
		return "", err
	}
	out, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty response")
	}
	return out, nil
}

// BibTeXFallback returns a cache fallback that asks gen for a BibTeX entry
// built from the paper's search metadata. It returns nil when gen is nil.
func BibTeXFallback(gen Generator) artifact.FallbackFunc {
	if gen == nil {
		return nil
	}
	return func(ctx context.Context, p types.Paper) (string, error) {
		prompt, err := BibTeXPrompt(p)
		if err != nil {
			return "", err
		}
		return gen.Generate(ctx, prompt)
	}
}

const fragmentSeparator = "\n---\n\n"

// Fragment renders one paper's entry under a "<Kind> for <title>" heading.
func Fragment(kind types.ArtifactKind, title string, entry types.CacheEntry) string {
	return fmt.Sprintf("### %s for %s\n\n%s\n", fragmentNoun(kind), title, entry.Content)
}

// Section renders body under a top-level header.
func Section(header, body string) string {
	return fmt.Sprintf("## %s\n\n%s", header, body)
}

// SectionHeader returns the header used for a per-paper view.
func SectionHeader(kind types.ArtifactKind) string {
	switch kind {
	case types.ArtifactCitation:
		return "Citations"
	case types.ArtifactBibTeX:
		return "BibTeX References"
	default:
		return string(kind)
	}
}

func fragmentNoun(kind types.ArtifactKind) string {
	switch kind {
	case types.ArtifactCitation:
		return "Citations"
	case types.ArtifactBibTeX:
		return "BibTeX"
	default:
		return string(kind)
	}
}

func groupHeader(view types.ViewKind) (header, noun string) {
	switch view {
	case types.ViewCompare:
		return "Paper Comparison", "comparison"
	default:
		return "Paper Summaries", "summary"
	}
}
