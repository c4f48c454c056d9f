// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"sync"

	"github.com/pdiddy/paperwiz/internal/tabs"
	"github.com/pdiddy/paperwiz/pkg/types"
)

// Workspace holds the current session and replaces it wholesale on every
// submission. It is safe for concurrent use.
type Workspace struct {
	deps Deps

	mu      sync.Mutex
	current *Session
	cancel  context.CancelFunc
}

// NewWorkspace returns a workspace with no session.
func NewWorkspace(deps Deps) *Workspace {
	return &Workspace{deps: deps}
}

// Submit discards the current session, cancelling its ingestion, and starts a
// new one for q. Late results of the old session are dropped.
func (w *Workspace) Submit(ctx context.Context, q Query) (*Session, <-chan Update, error) {
	s := New(q, w.deps)
	sctx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	if w.current != nil {
		w.current.markReplaced()
		w.cancel()
	}
	w.current, w.cancel = s, cancel
	w.mu.Unlock()

	ch, err := s.Run(sctx)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return s, ch, nil
}

// Current returns the active session, or nil before the first submission.
func (w *Workspace) Current() *Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Act runs view over titles against the current session.
func (w *Workspace) Act(ctx context.Context, view types.ViewKind, titles []string) (tabs.State, error) {
	s := w.Current()
	if s == nil {
		return tabs.State{}, types.ErrNoSession
	}
	return s.Act(ctx, view, titles)
}

// Switch changes the active tab of the current session.
func (w *Workspace) Switch(view types.ViewKind) (tabs.State, error) {
	s := w.Current()
	if s == nil {
		return tabs.State{}, types.ErrNoSession
	}
	return s.Tabs.Switch(view), nil
}

// Render returns the current session's tab bar and active content.
func (w *Workspace) Render() (tabBar, content string, err error) {
	s := w.Current()
	if s == nil {
		return "", "", types.ErrNoSession
	}
	tabBar, content = s.Tabs.Render()
	return tabBar, content, nil
}

// Close cancels the current session's ingestion.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}
