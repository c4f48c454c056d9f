// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// Snapshot is the exported form of a finished session.
type Snapshot struct {
	Session   string             `yaml:"session"`
	Keyword   string             `yaml:"keyword"`
	Markdown  string             `yaml:"markdown,omitempty"`
	Papers    []types.Paper      `yaml:"papers"`
	Artifacts []types.CacheEntry `yaml:"artifacts,omitempty"`
}

// Snapshot captures the session's papers and cache entries.
func (s *Session) Snapshot() Snapshot {
	papers := s.Registry.Papers()
	return Snapshot{
		Session:   s.ID.String(),
		Keyword:   s.Keyword(),
		Markdown:  s.Markdown(),
		Papers:    papers,
		Artifacts: s.Cache.Entries(papers),
	}
}

// WriteYAML writes the session snapshot as YAML to w.
func (s *Session) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(s.Snapshot())
}

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	DOI    string    `yaml:"DOI,omitempty"`
	URL    string    `yaml:"URL,omitempty"`
	Note   string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// WriteCSL writes the session's papers as a CSL-YAML list to w.
func (s *Session) WriteCSL(w io.Writer) error {
	papers := s.Registry.Papers()
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(p types.Paper) CSLItem {
	item := CSLItem{
		ID:    p.ID,
		Type:  "article",
		Title: p.Title,
		URL:   p.PDFURL,
	}
	for _, a := range p.Authors {
		if n := parseAuthorName(a); n != (CSLName{}) {
			item.Author = append(item.Author, n)
		}
	}
	for k, v := range p.ExternalIDs {
		if strings.EqualFold(k, "doi") {
			item.DOI = v
		}
	}
	if arxiv := p.ExternalIDs["ArXiv"]; arxiv != "" {
		item.Note = "arXiv:" + arxiv
	}
	return item
}

// parseAuthorName splits on the last space: everything before is given, the
// last token is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Given: name[:idx], Family: name[idx+1:]}
}
