// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tabs tracks which derived-artifact views a session has opened and
// what each one shows.
//
// Visible only grows and keeps first-activation order. Once any view has been
// activated, Active is always one of Visible. Every transition returns a fresh
// State snapshot; callers never share slices with the controller.
package tabs

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// State is an immutable snapshot of the controller.
type State struct {
	Visible   []types.ViewKind
	Active    types.ViewKind
	HasActive bool
	Content   [types.NumViewKinds]string
}

// ActiveContent returns the content of the active view, or "" when no view
// has been activated.
func (s State) ActiveContent() string {
	if !s.HasActive {
		return ""
	}
	return s.Content[s.Active]
}

// IsVisible reports whether kind has been activated at least once.
func (s State) IsVisible(kind types.ViewKind) bool {
	for _, v := range s.Visible {
		if v == kind {
			return true
		}
	}
	return false
}

// Controller serializes every tab transition behind one mutex.
type Controller struct {
	mu        sync.Mutex
	visible   []types.ViewKind
	active    types.ViewKind
	hasActive bool
	content   [types.NumViewKinds]string
}

// New returns a controller with no visible tabs.
func New() *Controller {
	return &Controller{}
}

// Activate stores content for kind, makes it visible if it was not, and makes
// it active. Invalid kinds leave the controller unchanged.
func (c *Controller) Activate(kind types.ViewKind, content string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !kind.Valid() {
		return c.snapshot()
	}
	if !c.isVisible(kind) {
		c.visible = append(c.visible, kind)
	}
	c.content[kind] = content
	c.active = kind
	c.hasActive = true
	return c.snapshot()
}

// Switch makes kind active without touching content. It is a no-op when kind
// is not visible.
func (c *Controller) Switch(kind types.ViewKind) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isVisible(kind) {
		c.active = kind
	}
	return c.snapshot()
}

// Next switches to the visible tab after the active one, wrapping around.
func (c *Controller) Next() State { return c.step(1) }

// Prev switches to the visible tab before the active one, wrapping around.
func (c *Controller) Prev() State { return c.step(-1) }

func (c *Controller) step(delta int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.visible)
	if n == 0 {
		return c.snapshot()
	}
	idx := 0
	for i, v := range c.visible {
		if v == c.active {
			idx = i
			break
		}
	}
	c.active = c.visible[((idx+delta)%n+n)%n]
	return c.snapshot()
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Render returns the tab bar and the active view's content. Both are empty
// before the first activation.
func (c *Controller) Render() (tabBar, content string) {
	s := c.State()
	return RenderBar(s), s.ActiveContent()
}

func (c *Controller) isVisible(kind types.ViewKind) bool {
	for _, v := range c.visible {
		if v == kind {
			return true
		}
	}
	return false
}

// snapshot copies the state. Callers hold the lock.
func (c *Controller) snapshot() State {
	visible := make([]types.ViewKind, len(c.visible))
	copy(visible, c.visible)
	return State{
		Visible:   visible,
		Active:    c.active,
		HasActive: c.hasActive,
		Content:   c.content,
	}
}

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
)

// RenderBar draws the visible tabs of s with the active one highlighted.
func RenderBar(s State) string {
	if len(s.Visible) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.Visible))
	for _, v := range s.Visible {
		style := inactiveTabStyle
		if s.HasActive && v == s.Active {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(v.String()))
	}
	return strings.Join(parts, " ")
}
