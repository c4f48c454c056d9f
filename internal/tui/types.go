// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/pdiddy/paperwiz/internal/session"
	"github.com/pdiddy/paperwiz/internal/tabs"
	"github.com/pdiddy/paperwiz/pkg/types"
)

type stage int

const (
	stageInput stage = iota
	stageLoading
	stageResults
)

type inputFocus int

const (
	focusQuery inputFocus = iota
	focusFile
)

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	reservedRows              = 12
	heroTagline               = "Search, cite and compare papers with Wiz."
)

// sessionUpdateMsg carries one record from the active session's stream.
type sessionUpdateMsg struct {
	update  session.Update
	updates <-chan session.Update
}

// sessionClosedMsg reports that a session's stream has been drained.
type sessionClosedMsg struct {
	sessionID uuid.UUID
}

type actionResultMsg struct {
	sessionID uuid.UUID
	view      types.ViewKind
	state     tabs.State
	err       error
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Italic(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	contentBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
)

type keyHint struct {
	Key         string
	Description string
}

var resultHints = []keyHint{
	{Key: "space", Description: "select"},
	{Key: "s", Description: "summary"},
	{Key: "c", Description: "citations"},
	{Key: "b", Description: "bibtex"},
	{Key: "x", Description: "compare"},
	{Key: "tab", Description: "next tab"},
	{Key: "/", Description: "new search"},
	{Key: "q", Description: "quit"},
}

// actionKeys maps result-stage keys to the view they render.
var actionKeys = map[string]types.ViewKind{
	"s": types.ViewSummary,
	"c": types.ViewCitations,
	"b": types.ViewBibTeX,
	"x": types.ViewCompare,
}
