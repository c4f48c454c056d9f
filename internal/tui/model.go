// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal front end: a query form, a streaming
// paper list with multi-select, and a tab pane for rendered views.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/pdiddy/paperwiz/internal/selection"
	"github.com/pdiddy/paperwiz/internal/session"
	"github.com/pdiddy/paperwiz/internal/tabs"
	"github.com/pdiddy/paperwiz/pkg/types"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Workspace *session.Workspace
	// Query and File prefill the search form.
	Query string
	File  string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	queryInput := textinput.New()
	queryInput.Placeholder = "What are you researching?"
	queryInput.CharLimit = 500
	queryInput.Width = 70
	queryInput.SetValue(config.Query)
	queryInput.Focus()

	fileInput := textinput.New()
	fileInput.Placeholder = "Optional path to a .pdf, .docx, .txt or .md file"
	fileInput.CharLimit = 260
	fileInput.Width = 70
	fileInput.SetValue(config.File)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:      config,
		stage:       stageInput,
		focus:       focusQuery,
		queryInput:  queryInput,
		fileInput:   fileInput,
		spinner:     spin,
		viewport:    vp,
		selected:    map[string]bool{},
		infoMessage: "Type a research question and press Enter.",
	}
}

type model struct {
	config Config
	stage  stage
	focus  inputFocus

	queryInput textinput.Model
	fileInput  textinput.Model
	spinner    spinner.Model
	viewport   viewport.Model

	current   *session.Session
	streaming bool
	acting    bool

	markdown string
	titles   []string
	selected map[string]bool
	cursor   int
	tabState tabs.State
	warnings []string

	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageResults {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		width := msg.Width - viewportHorizontalPadding
		if width < minViewportWidth {
			width = minViewportWidth
		}
		m.viewport.Width = width
		height := msg.Height - reservedRows - len(m.titles)
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.refreshViewport()
		return m, nil
	case sessionUpdateMsg:
		return m.handleUpdate(msg)
	case sessionClosedMsg:
		if !m.isCurrent(msg.sessionID) {
			return m, nil
		}
		m.streaming = false
		if m.stage == stageLoading {
			m.stage = stageResults
		}
		return m, nil
	case actionResultMsg:
		return m.handleActionResult(msg)
	}
	if m.stage == stageInput {
		return m.updateFocusedInput(msg)
	}
	return m, nil
}

func (m *model) busy() bool {
	return m.stage == stageLoading || m.acting
}

func (m *model) isCurrent(id uuid.UUID) bool {
	return m.current != nil && m.current.ID == id
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageInput:
		return m.handleInputKey(key)
	case stageLoading:
		switch key.String() {
		case "q", "esc":
			return m, tea.Quit
		case "/":
			return m, m.openSearch()
		}
		return m, nil
	default:
		return m.handleResultKey(key)
	}
}

func (m *model) handleInputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		if m.current == nil {
			return m, tea.Quit
		}
		m.blurInputs()
		if m.streaming {
			m.stage = stageLoading
		} else {
			m.stage = stageResults
		}
		return m, nil
	case "tab", "shift+tab":
		if m.focus == focusQuery {
			m.focusInput(focusFile)
		} else {
			m.focusInput(focusQuery)
		}
		return m, nil
	case "enter":
		return m, m.submit()
	}
	return m.updateFocusedInput(key)
}

func (m *model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusFile {
		m.fileInput, cmd = m.fileInput.Update(msg)
	} else {
		m.queryInput, cmd = m.queryInput.Update(msg)
	}
	return m, cmd
}

func (m *model) handleResultKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := key.String()
	if view, ok := actionKeys[k]; ok {
		return m, m.runAction(view)
	}
	switch k {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		return m, m.openSearch()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.titles)-1 {
			m.cursor++
		}
	case " ", "space":
		m.toggleCursor()
	case "tab":
		if m.current != nil {
			m.applyTabs(m.current.Tabs.Next())
		}
	case "shift+tab":
		if m.current != nil {
			m.applyTabs(m.current.Tabs.Prev())
		}
	case "1", "2", "3", "4":
		view := types.ViewKinds[int(k[0]-'1')]
		if st, err := m.config.Workspace.Switch(view); err == nil {
			m.applyTabs(st)
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m *model) openSearch() tea.Cmd {
	m.stage = stageInput
	m.queryInput.SetValue("")
	m.fileInput.SetValue("")
	m.focusInput(focusQuery)
	m.errorMessage = ""
	m.infoMessage = "Type a new research question. The current results are discarded on Enter."
	return textinput.Blink
}

func (m *model) focusInput(f inputFocus) {
	m.focus = f
	if f == focusFile {
		m.queryInput.Blur()
		m.fileInput.Focus()
		return
	}
	m.fileInput.Blur()
	m.queryInput.Focus()
}

func (m *model) blurInputs() {
	m.queryInput.Blur()
	m.fileInput.Blur()
}

func (m *model) submit() tea.Cmd {
	text := strings.TrimSpace(m.queryInput.Value())
	file := strings.TrimSpace(m.fileInput.Value())
	if text == "" && file == "" {
		m.errorMessage = "Enter a research question or a document path."
		return nil
	}
	if m.config.Workspace == nil {
		m.errorMessage = "no workspace configured"
		return nil
	}
	s, updates, err := m.config.Workspace.Submit(context.Background(), session.Query{Text: text, File: file})
	if err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.reset(s)
	m.blurInputs()
	m.stage = stageLoading
	m.streaming = true
	m.infoMessage = session.LoadingMessage
	return tea.Batch(waitForUpdate(s.ID, updates), m.spinner.Tick)
}

// reset drops everything derived from the previous session.
func (m *model) reset(s *session.Session) {
	m.current = s
	m.acting = false
	m.markdown = ""
	m.titles = nil
	m.selected = map[string]bool{}
	m.cursor = 0
	m.tabState = tabs.State{}
	m.warnings = nil
	m.errorMessage = ""
	m.viewport.SetContent("")
	m.viewport.GotoTop()
}

func (m *model) handleUpdate(msg sessionUpdateMsg) (tea.Model, tea.Cmd) {
	u := msg.update
	if !m.isCurrent(u.SessionID) {
		return m, nil
	}
	next := waitForUpdate(u.SessionID, msg.updates)
	switch u.Kind {
	case session.UpdateLoading:
		m.infoMessage = u.Message
	case session.UpdatePaper:
		m.markdown = u.Markdown
		m.titles = u.Titles
		if len(m.titles) == 1 {
			m.selected[m.titles[0]] = true
		}
		if u.Warning != "" {
			m.warnings = append(m.warnings, u.Warning)
		}
		m.infoMessage = fmt.Sprintf("%s %d paper(s) so far.", session.LoadingMessage, len(m.titles))
	case session.UpdateDone:
		m.markdown = u.Markdown
		m.titles = u.Titles
		m.streaming = false
		m.stage = stageResults
		m.infoMessage = u.Message
	case session.UpdateFailed:
		m.streaming = false
		m.stage = stageInput
		m.focusInput(focusQuery)
		m.errorMessage = u.Message
		m.infoMessage = "Try another query."
	}
	return m, next
}

func (m *model) toggleCursor() {
	if m.cursor < 0 || m.cursor >= len(m.titles) {
		return
	}
	title := m.titles[m.cursor]
	if m.selected[title] {
		delete(m.selected, title)
	} else {
		m.selected[title] = true
	}
}

// selectedTitles returns the selection in display order.
func (m *model) selectedTitles() []string {
	out := make([]string, 0, len(m.selected))
	for _, t := range m.titles {
		if m.selected[t] {
			out = append(out, t)
		}
	}
	return out
}

func (m *model) runAction(view types.ViewKind) tea.Cmd {
	if m.current == nil {
		return nil
	}
	if m.acting {
		m.infoMessage = "Wiz is still working on the previous request."
		return nil
	}
	titles := m.selectedTitles()
	if err := selection.ValidateFor(view, titles); err != nil {
		m.errorMessage = err.Error()
		return nil
	}
	m.acting = true
	m.errorMessage = ""
	m.infoMessage = session.LoadingMessage
	return tea.Batch(actionCmd(m.current, view, titles), m.spinner.Tick)
}

func (m *model) handleActionResult(msg actionResultMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrent(msg.sessionID) {
		return m, nil
	}
	m.acting = false
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.infoMessage = ""
		return m, nil
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("%s ready.", msg.view)
	m.applyTabs(msg.state)
	m.viewport.GotoTop()
	return m, nil
}

func (m *model) applyTabs(st tabs.State) {
	m.tabState = st
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	content := m.tabState.ActiveContent()
	if content == "" {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(wordwrap.String(content, m.wrapWidth()))
}

func (m *model) wrapWidth() int {
	w := m.viewport.Width - 2
	if w < minViewportWidth {
		w = minViewportWidth
	}
	return w
}
