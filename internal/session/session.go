// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session runs one search from query to populated registry and
// serves artifact actions against the result.
//
// A Session owns exactly one registry, one artifact cache and one tab
// controller. Run streams progress as a finite channel: one Loading update,
// one Paper update per ingested paper in backend order, then a single Done or
// Failed update, after which the channel is closed. A session runs once.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paperwiz/internal/artifact"
	"github.com/pdiddy/paperwiz/internal/backend"
	"github.com/pdiddy/paperwiz/internal/orchestrator"
	"github.com/pdiddy/paperwiz/internal/registry"
	"github.com/pdiddy/paperwiz/internal/selection"
	"github.com/pdiddy/paperwiz/internal/tabs"
	"github.com/pdiddy/paperwiz/pkg/types"
)

// LoadingMessage is shown while a search or an action is in flight.
const LoadingMessage = "Wiz is researching, please wait..."

// Searcher maps a keyword to candidate papers.
type Searcher interface {
	Search(ctx context.Context, keyword string) (backend.Response, error)
}

// TopicExtractor reduces query text to a search keyword.
type TopicExtractor interface {
	ExtractTopic(text string) (string, error)
}

// DocumentExtractor turns an uploaded file into text.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Deps are the collaborators a session needs. Documents and Generator may be
// nil: a query with a file then fails, and group views render an inline
// error.
type Deps struct {
	Search    Searcher
	Topics    TopicExtractor
	Documents DocumentExtractor
	Generator orchestrator.Generator

	// Sources holds the primary and fallback compute functions per cached kind.
	Sources map[types.ArtifactKind]artifact.Source

	// Buffer is the capacity of the update channel.
	Buffer int

	Logger *slog.Logger
}

// Query is one search submission.
type Query struct {
	Text string
	// File is an optional document whose text is appended to Text.
	File string
}

// UpdateKind classifies a progress update.
type UpdateKind int

const (
	UpdateLoading UpdateKind = iota
	UpdatePaper
	UpdateDone
	UpdateFailed
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateLoading:
		return "loading"
	case UpdatePaper:
		return "paper"
	case UpdateDone:
		return "done"
	case UpdateFailed:
		return "failed"
	default:
		return fmt.Sprintf("UpdateKind(%d)", int(k))
	}
}

// Update is one progress record.
type Update struct {
	Kind      UpdateKind
	SessionID uuid.UUID

	// Message is the loading text, the completion summary, or the error shown
	// to the user.
	Message string

	// Markdown is the backend's prose answer, carried on every Paper and Done
	// update once known.
	Markdown string

	// Paper is the paper just ingested (UpdatePaper only).
	Paper types.Paper

	// Titles lists every title ingested so far, in order.
	Titles []string

	// Warning flags a title shared with an earlier paper.
	Warning string

	// Err is set on UpdateFailed.
	Err error
}

// Session is one search and everything derived from it.
type Session struct {
	ID       uuid.UUID
	Query    Query
	Registry *registry.Registry
	Cache    *artifact.Cache
	Tabs     *tabs.Controller

	deps Deps
	orch *orchestrator.Orchestrator
	log  *slog.Logger

	ran      atomic.Bool
	replaced atomic.Bool

	mu       sync.Mutex
	keyword  string
	markdown string
}

// New creates a session for q. It does not start it.
func New(q Query, deps Deps) *Session {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		ID:       uuid.New(),
		Query:    q,
		Registry: registry.New(),
		Cache:    artifact.New(),
		Tabs:     tabs.New(),
		deps:     deps,
	}
	s.log = log.With("session", s.ID.String())
	s.orch = orchestrator.New(s.Registry, s.Cache, deps.Generator)
	return s
}

// Keyword returns the extracted search keyword, or "" before extraction.
func (s *Session) Keyword() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyword
}

// Markdown returns the backend's prose answer, or "" before the search returns.
func (s *Session) Markdown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markdown
}

// Replaced reports whether a newer search superseded this session.
func (s *Session) Replaced() bool { return s.replaced.Load() }

func (s *Session) markReplaced() { s.replaced.Store(true) }

// Run starts ingestion and returns the update stream. Cancelling ctx stops
// emission and closes the channel. A second call returns types.ErrAlreadyRun.
func (s *Session) Run(ctx context.Context) (<-chan Update, error) {
	if s.ran.Swap(true) {
		return nil, types.ErrAlreadyRun
	}
	buf := s.deps.Buffer
	if buf < 0 {
		buf = 0
	}
	ch := make(chan Update, buf)
	go s.ingest(ctx, ch)
	return ch, nil
}

func (s *Session) ingest(ctx context.Context, ch chan<- Update) {
	defer close(ch)

	send := func(u Update) bool {
		u.SessionID = s.ID
		if ctx.Err() != nil {
			return false
		}
		select {
		case ch <- u:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		s.log.Warn("search failed", "err", err)
		send(Update{Kind: UpdateFailed, Message: err.Error(), Err: err})
	}

	if !send(Update{Kind: UpdateLoading, Message: LoadingMessage}) {
		return
	}

	text, err := s.queryText(ctx)
	if err != nil {
		fail(err)
		return
	}

	if s.deps.Topics == nil {
		fail(fmt.Errorf("%w: no topic extractor configured", types.ErrTopicExtraction))
		return
	}
	keyword, err := s.deps.Topics.ExtractTopic(text)
	if err != nil {
		fail(err)
		return
	}
	s.mu.Lock()
	s.keyword = keyword
	s.mu.Unlock()
	s.log.Info("extracted keyword", "keyword", keyword)

	if s.deps.Search == nil {
		fail(fmt.Errorf("%w: no search backend configured", types.ErrBackendUnavailable))
		return
	}
	resp, err := s.deps.Search.Search(ctx, keyword)
	if err != nil {
		fail(err)
		return
	}
	s.mu.Lock()
	s.markdown = resp.Markdown
	s.mu.Unlock()

	for _, p := range resp.Papers {
		if ctx.Err() != nil {
			return
		}
		if strings.TrimSpace(p.ID) == "" {
			s.log.Warn("skipping paper without id", "title", p.Title)
			continue
		}
		s.Registry.Put(p)
		s.prewarm(ctx, p)

		u := Update{
			Kind:     UpdatePaper,
			Markdown: resp.Markdown,
			Paper:    p,
			Titles:   s.Registry.Titles(),
		}
		if slices.Contains(s.Registry.Collisions(), p.Title) {
			u.Warning = fmt.Sprintf("Several papers share the title %q; actions use the latest one.", p.Title)
			s.log.Warn("title collision", "title", p.Title, "id", p.ID)
		}
		if !send(u) {
			return
		}
	}

	n := s.Registry.Len()
	send(Update{
		Kind:     UpdateDone,
		Markdown: resp.Markdown,
		Titles:   s.Registry.Titles(),
		Message:  fmt.Sprintf("Found %d paper(s) for %q.", n, keyword),
	})
	s.log.Info("search complete", "papers", n)
}

func (s *Session) queryText(ctx context.Context) (string, error) {
	text := s.Query.Text
	if s.Query.File == "" {
		return text, nil
	}
	if s.deps.Documents == nil {
		return "", fmt.Errorf("%w: no document extractor configured", types.ErrExtraction)
	}
	fileText, err := s.deps.Documents.Extract(ctx, s.Query.File)
	if err != nil {
		if !errors.Is(err, types.ErrExtraction) {
			err = fmt.Errorf("%w: %v", types.ErrExtraction, err)
		}
		return "", err
	}
	return strings.TrimSpace(text + " " + fileText), nil
}

// prewarm computes every cached kind for p concurrently and waits for both.
func (s *Session) prewarm(ctx context.Context, p types.Paper) {
	var g errgroup.Group
	for _, kind := range types.ArtifactKinds {
		src := s.deps.Sources[kind]
		g.Go(func() error {
			e := s.Cache.GetFrom(ctx, kind, p, src)
			if e.Failed() {
				s.log.Debug("artifact unavailable", "kind", kind, "id", p.ID, "content", e.Content)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Act validates titles for view, renders the view, and activates its tab.
// A rejected selection returns the unchanged tab state and an error wrapping
// types.ErrSelectionInvalid. If the session is replaced while rendering, the
// result is dropped and types.ErrSessionReplaced is returned.
func (s *Session) Act(ctx context.Context, view types.ViewKind, titles []string) (tabs.State, error) {
	if !view.Valid() {
		return s.Tabs.State(), fmt.Errorf("invalid view %d", int(view))
	}
	if err := selection.ValidateFor(view, titles); err != nil {
		return s.Tabs.State(), err
	}
	if s.Replaced() {
		return tabs.State{}, types.ErrSessionReplaced
	}
	ids, err := s.Registry.IDsOf(titles)
	if err != nil {
		return s.Tabs.State(), err
	}

	content := s.orch.Render(ctx, view, ids)
	if s.Replaced() {
		s.log.Info("dropping late action result", "view", view.String())
		return tabs.State{}, types.ErrSessionReplaced
	}
	return s.Tabs.Activate(view, content), nil
}
