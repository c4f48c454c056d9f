// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperwiz/internal/artifact"
	"github.com/pdiddy/paperwiz/internal/backend"
	"github.com/pdiddy/paperwiz/internal/orchestrator"
	"github.com/pdiddy/paperwiz/internal/topic"
	"github.com/pdiddy/paperwiz/pkg/types"
)

type fakeSearcher struct {
	mu       sync.Mutex
	keywords []string
	resp     backend.Response
	err      error
}

func (f *fakeSearcher) Search(_ context.Context, keyword string) (backend.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywords = append(f.keywords, keyword)
	return f.resp, f.err
}

type fakeGenerator struct {
	mu      sync.Mutex
	out     string
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
}

func (f *fakeGenerator) Generate(ctx context.Context, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	block, started := f.block, f.started
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.out, f.err
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDocuments struct {
	text string
	err  error
}

func (f fakeDocuments) Extract(context.Context, string) (string, error) { return f.text, f.err }

func twoPapers() backend.Response {
	return backend.Response{
		Markdown: "## Quantum results",
		Papers: []types.Paper{
			{ID: "1", Title: "A", Authors: []string{"Ada Lovelace"}},
			{ID: "2", Title: "B"},
		},
	}
}

func testDeps(search *fakeSearcher, gen *fakeGenerator) Deps {
	var fallback artifact.FallbackFunc
	if gen != nil {
		fallback = orchestrator.BibTeXFallback(gen)
	}
	deps := Deps{
		Search: search,
		Topics: topic.Heuristic{},
		Sources: map[types.ArtifactKind]artifact.Source{
			types.ArtifactCitation: {
				Primary: func(_ context.Context, id string) (string, error) { return "- cited by " + id, nil },
			},
			types.ArtifactBibTeX: {
				Primary: func(_ context.Context, id string) (string, error) {
					if id == "1" {
						return "", errors.New("lookup down")
					}
					return "@article{p" + id + "}", nil
				},
				Fallback: fallback,
			},
		},
		Buffer: 4,
	}
	if gen != nil {
		deps.Generator = gen
	}
	return deps
}

func drain(t *testing.T, ch <-chan Update) []Update {
	t.Helper()
	var out []Update
	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, u)
		case <-timeout:
			t.Fatal("update channel never closed")
		}
	}
}

func kinds(updates []Update) []UpdateKind {
	out := make([]UpdateKind, len(updates))
	for i, u := range updates {
		out[i] = u.Kind
	}
	return out
}

func runSession(t *testing.T, q Query, deps Deps) (*Session, []Update) {
	t.Helper()
	s := New(q, deps)
	ch, err := s.Run(context.Background())
	require.NoError(t, err)
	return s, drain(t, ch)
}

func TestRunEndToEnd(t *testing.T) {
	search := &fakeSearcher{resp: twoPapers()}
	gen := &fakeGenerator{out: "@misc{generated}"}
	s, updates := runSession(t, Query{Text: "quantum computing"}, testDeps(search, gen))

	assert.Equal(t, []UpdateKind{UpdateLoading, UpdatePaper, UpdatePaper, UpdateDone}, kinds(updates))
	assert.Equal(t, LoadingMessage, updates[0].Message)
	assert.Equal(t, []string{"quantum computing"}, search.keywords)
	assert.Equal(t, "quantum computing", s.Keyword())

	assert.Equal(t, "1", updates[1].Paper.ID)
	assert.Equal(t, []string{"A"}, updates[1].Titles)
	assert.Equal(t, []string{"A", "B"}, updates[2].Titles)
	for _, u := range updates[1:] {
		assert.Equal(t, "## Quantum results", u.Markdown)
		assert.Equal(t, s.ID, u.SessionID)
	}

	assert.Equal(t, []string{"A", "B"}, s.Registry.Titles())
	assert.Equal(t, 4, s.Cache.Len())
	for _, id := range []string{"1", "2"} {
		for _, kind := range types.ArtifactKinds {
			_, ok := s.Cache.Lookup(kind, id)
			assert.True(t, ok, "%s for %s should be pre-warmed", kind, id)
		}
	}
	assert.Empty(t, s.Tabs.State().Visible)
}

func TestPaperUpdateFollowsPrewarm(t *testing.T) {
	search := &fakeSearcher{resp: twoPapers()}
	s := New(Query{Text: "quantum computing"}, testDeps(search, nil))
	ch, err := s.Run(context.Background())
	require.NoError(t, err)

	for u := range ch {
		if u.Kind != UpdatePaper {
			continue
		}
		for _, kind := range types.ArtifactKinds {
			_, ok := s.Cache.Lookup(kind, u.Paper.ID)
			assert.True(t, ok, "%s for %s must be cached before its update", kind, u.Paper.ID)
		}
	}
}

func TestBibTeXFallbackEntry(t *testing.T) {
	gen := &fakeGenerator{out: "@misc{generated}"}
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, gen))

	e, ok := s.Cache.Lookup(types.ArtifactBibTeX, "1")
	require.True(t, ok)
	assert.Equal(t, types.OriginFallback, e.Origin)
	assert.Equal(t, "@misc{generated}", e.Content)

	e2, _ := s.Cache.Lookup(types.ArtifactBibTeX, "2")
	assert.Equal(t, types.OriginPrimary, e2.Origin)
}

func TestBibTeXErrorWithoutGenerator(t *testing.T) {
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, nil))

	e, ok := s.Cache.Lookup(types.ArtifactBibTeX, "1")
	require.True(t, ok)
	assert.Equal(t, types.OriginError, e.Origin)
	assert.Contains(t, e.Content, "lookup down")
}

func TestActCitations(t *testing.T) {
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, nil))

	st, err := s.Act(context.Background(), types.ViewCitations, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []types.ViewKind{types.ViewCitations}, st.Visible)
	assert.Equal(t, types.ViewCitations, st.Active)

	want := orchestrator.New(s.Registry, s.Cache, nil).PerPaper(types.ArtifactCitation, []string{"1"})
	assert.Equal(t, want, st.ActiveContent())
	assert.Contains(t, st.ActiveContent(), "- cited by 1")
}

func TestActCompareRejectsSingleSelection(t *testing.T) {
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, nil))
	_, err := s.Act(context.Background(), types.ViewCitations, []string{"A"})
	require.NoError(t, err)
	before := s.Tabs.State()

	st, err := s.Act(context.Background(), types.ViewCompare, []string{"A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSelectionInvalid)
	assert.Equal(t, "Please select at least 2 paper(s).", err.Error())
	assert.Equal(t, before, st)
	assert.Equal(t, before, s.Tabs.State())
}

func TestActEmptySelectionRejected(t *testing.T) {
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, nil))
	_, err := s.Act(context.Background(), types.ViewSummary, nil)
	assert.ErrorIs(t, err, types.ErrSelectionInvalid)
	assert.Empty(t, s.Tabs.State().Visible)
}

func TestActGroupViews(t *testing.T) {
	gen := &fakeGenerator{out: "comparison body"}
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, gen))
	callsAfterIngest := gen.Calls()

	st, err := s.Act(context.Background(), types.ViewCompare, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, "## Paper Comparison\n\ncomparison body", st.ActiveContent())
	assert.Equal(t, callsAfterIngest+1, gen.Calls())

	st, err = s.Act(context.Background(), types.ViewSummary, []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, []types.ViewKind{types.ViewCompare, types.ViewSummary}, st.Visible)
	assert.Equal(t, "## Paper Comparison\n\ncomparison body", st.Content[types.ViewCompare])
	assert.Equal(t, "## Paper Summaries\n\ncomparison body", st.ActiveContent())
}

func TestActUnknownTitle(t *testing.T) {
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, nil))
	_, err := s.Act(context.Background(), types.ViewBibTeX, []string{"Z"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRunTwice(t *testing.T) {
	s := New(Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, nil))
	ch, err := s.Run(context.Background())
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, types.ErrAlreadyRun)
	drain(t, ch)
}

func TestRunSkipsPapersWithoutID(t *testing.T) {
	search := &fakeSearcher{resp: backend.Response{Papers: []types.Paper{
		{ID: "", Title: "Ghost"},
		{ID: "1", Title: "A"},
	}}}
	s, updates := runSession(t, Query{Text: "quantum computing"}, testDeps(search, nil))

	assert.Equal(t, []UpdateKind{UpdateLoading, UpdatePaper, UpdateDone}, kinds(updates))
	assert.Equal(t, []string{"A"}, s.Registry.Titles())
	assert.Equal(t, 2, s.Cache.Len())
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		deps    func() Deps
		wantErr error
	}{
		{
			name:  "backend unavailable",
			query: Query{Text: "quantum computing"},
			deps: func() Deps {
				return testDeps(&fakeSearcher{err: types.ErrBackendUnavailable}, nil)
			},
			wantErr: types.ErrBackendUnavailable,
		},
		{
			name:    "no keyword",
			query:   Query{Text: "the of and"},
			deps:    func() Deps { return testDeps(&fakeSearcher{resp: twoPapers()}, nil) },
			wantErr: types.ErrTopicExtraction,
		},
		{
			name:  "document extraction",
			query: Query{Text: "quantum", File: "notes.xyz"},
			deps: func() Deps {
				d := testDeps(&fakeSearcher{resp: twoPapers()}, nil)
				d.Documents = fakeDocuments{err: errors.New("unsupported file format")}
				return d
			},
			wantErr: types.ErrExtraction,
		},
		{
			name:    "file without extractor",
			query:   Query{Text: "quantum", File: "notes.txt"},
			deps:    func() Deps { return testDeps(&fakeSearcher{resp: twoPapers()}, nil) },
			wantErr: types.ErrExtraction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, updates := runSession(t, tt.query, tt.deps())

			assert.Equal(t, []UpdateKind{UpdateLoading, UpdateFailed}, kinds(updates))
			last := updates[len(updates)-1]
			assert.ErrorIs(t, last.Err, tt.wantErr)
			assert.NotEmpty(t, last.Message)
			assert.Equal(t, 0, s.Registry.Len())
		})
	}
}

func TestRunAppendsDocumentText(t *testing.T) {
	search := &fakeSearcher{resp: twoPapers()}
	deps := testDeps(search, nil)
	deps.Documents = fakeDocuments{text: "lattice"}

	runSession(t, Query{Text: "surgery", File: "notes.txt"}, deps)
	assert.Equal(t, []string{"surgery lattice"}, search.keywords)
}

func TestTitleCollisionWarning(t *testing.T) {
	search := &fakeSearcher{resp: backend.Response{Papers: []types.Paper{
		{ID: "1", Title: "Same"},
		{ID: "2", Title: "Same"},
	}}}
	s, updates := runSession(t, Query{Text: "quantum computing"}, testDeps(search, nil))

	require.Len(t, updates, 4)
	assert.Empty(t, updates[1].Warning)
	assert.Contains(t, updates[2].Warning, `"Same"`)
	id, err := s.Registry.IDOf("Same")
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestRunCancellationClosesChannel(t *testing.T) {
	deps := testDeps(&fakeSearcher{resp: twoPapers()}, nil)
	deps.Buffer = 0
	s := New(Query{Text: "quantum computing"}, deps)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Run(ctx)
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, UpdateLoading, first.Kind)
	cancel()

	for u := range ch {
		assert.NotEqual(t, UpdateDone, u.Kind, "no terminal record after cancellation")
	}
}

func TestWorkspaceReplacesSession(t *testing.T) {
	w := NewWorkspace(testDeps(&fakeSearcher{resp: twoPapers()}, nil))
	_, err := w.Act(context.Background(), types.ViewCitations, []string{"A"})
	assert.ErrorIs(t, err, types.ErrNoSession)
	_, _, err = w.Render()
	assert.ErrorIs(t, err, types.ErrNoSession)

	first, ch, err := w.Submit(context.Background(), Query{Text: "quantum computing"})
	require.NoError(t, err)
	drain(t, ch)
	_, err = w.Act(context.Background(), types.ViewCitations, []string{"A"})
	require.NoError(t, err)

	second, ch, err := w.Submit(context.Background(), Query{Text: "quantum computing"})
	require.NoError(t, err)
	drain(t, ch)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.Replaced())
	assert.Same(t, second, w.Current())
	assert.Empty(t, second.Tabs.State().Visible, "new session starts with no tabs")

	_, err = first.Act(context.Background(), types.ViewBibTeX, []string{"A"})
	assert.ErrorIs(t, err, types.ErrSessionReplaced)

	st, err := w.Switch(types.ViewCitations)
	require.NoError(t, err)
	assert.False(t, st.HasActive)
}

func TestLateActionResultDropped(t *testing.T) {
	gen := &fakeGenerator{out: "late summary", block: make(chan struct{}), started: make(chan struct{}, 1)}
	deps := testDeps(&fakeSearcher{resp: twoPapers()}, nil)
	deps.Generator = gen
	w := NewWorkspace(deps)

	old, ch, err := w.Submit(context.Background(), Query{Text: "quantum computing"})
	require.NoError(t, err)
	drain(t, ch)

	done := make(chan error, 1)
	go func() {
		_, err := w.Act(context.Background(), types.ViewSummary, []string{"A"})
		done <- err
	}()
	<-gen.started

	_, ch, err = w.Submit(context.Background(), Query{Text: "quantum computing"})
	require.NoError(t, err)
	drain(t, ch)
	close(gen.block)

	assert.ErrorIs(t, <-done, types.ErrSessionReplaced)
	assert.Empty(t, old.Tabs.State().Visible)
}

func TestWorkspaceRender(t *testing.T) {
	w := NewWorkspace(testDeps(&fakeSearcher{resp: twoPapers()}, nil))
	_, ch, err := w.Submit(context.Background(), Query{Text: "quantum computing"})
	require.NoError(t, err)
	drain(t, ch)

	_, err = w.Act(context.Background(), types.ViewBibTeX, []string{"B", "A"})
	require.NoError(t, err)
	bar, content, err := w.Render()
	require.NoError(t, err)
	assert.Contains(t, bar, "BibTeX")
	assert.Contains(t, content, "### BibTeX for B")
	w.Close()
}

func TestExport(t *testing.T) {
	s, _ := runSession(t, Query{Text: "quantum computing"}, testDeps(&fakeSearcher{resp: twoPapers()}, nil))

	var buf bytes.Buffer
	require.NoError(t, s.WriteYAML(&buf))
	out := buf.String()
	assert.Contains(t, out, "keyword: quantum computing")
	assert.Contains(t, out, "session: "+s.ID.String())
	assert.Contains(t, out, "paper_id: \"2\"")
	assert.Contains(t, out, "origin: error")

	buf.Reset()
	require.NoError(t, s.WriteCSL(&buf))
	csl := buf.String()
	assert.Contains(t, csl, "title: A")
	assert.Contains(t, csl, "family: Lovelace")
	assert.Contains(t, csl, "type: article")
}

func TestToCSLItem(t *testing.T) {
	item := toCSLItem(types.Paper{
		ID:          "9",
		Title:       "T",
		Authors:     []string{"Plato", "Grace Brewster Hopper", " "},
		PDFURL:      "https://x/t.pdf",
		ExternalIDs: map[string]string{"DOI": "10.1/t", "ArXiv": "2401.00001"},
	})
	assert.Equal(t, []CSLName{{Literal: "Plato"}, {Given: "Grace Brewster", Family: "Hopper"}}, item.Author)
	assert.Equal(t, "10.1/t", item.DOI)
	assert.Equal(t, "https://x/t.pdf", item.URL)
	assert.Equal(t, "arXiv:2401.00001", item.Note)
}
