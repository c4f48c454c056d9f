// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ViewKind enumerates the tabs the presentation layer can show. Content per
// kind lives in arrays indexed by ViewKind, so the set is closed.
type ViewKind int

const (
	ViewSummary ViewKind = iota
	ViewCitations
	ViewBibTeX
	ViewCompare

	// NumViewKinds is the number of defined view kinds. Keep it last.
	NumViewKinds
)

// ViewKinds lists every view kind in declaration order.
var ViewKinds = []ViewKind{ViewSummary, ViewCitations, ViewBibTeX, ViewCompare}

var viewLabels = [NumViewKinds]string{
	ViewSummary:   "Summary",
	ViewCitations: "Citations",
	ViewBibTeX:    "BibTeX",
	ViewCompare:   "Compare",
}

// String returns the tab label.
func (v ViewKind) String() string {
	if !v.Valid() {
		return fmt.Sprintf("ViewKind(%d)", int(v))
	}
	return viewLabels[v]
}

// Valid reports whether v is one of the defined kinds.
func (v ViewKind) Valid() bool {
	return v >= 0 && v < NumViewKinds
}

// Artifact returns the cached artifact kind backing a per-paper view.
// The boolean is false for group views (Summary, Compare).
func (v ViewKind) Artifact() (ArtifactKind, bool) {
	switch v {
	case ViewCitations:
		return ArtifactCitation, true
	case ViewBibTeX:
		return ArtifactBibTeX, true
	default:
		return "", false
	}
}

// ParseViewKind maps a tab label (case-insensitive) back to its kind.
func ParseViewKind(label string) (ViewKind, error) {
	for _, v := range ViewKinds {
		if strings.EqualFold(v.String(), strings.TrimSpace(label)) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q: use summary, citations, bibtex, or compare", label)
}
