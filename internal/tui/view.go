// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/pdiddy/paperwiz/internal/tabs"
)

func (m *model) View() string {
	parts := []string{m.heroView()}
	switch m.stage {
	case stageInput:
		parts = append(parts, m.inputView())
	default:
		parts = append(parts, m.resultsView())
	}
	parts = append(parts, m.statusView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	return titleStyle.Render("paperwiz") + "\n" + taglineStyle.Render(heroTagline)
}

func (m *model) inputView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Research question"))
	b.WriteRune('\n')
	b.WriteString(m.queryInput.View())
	b.WriteString("\n\n")
	b.WriteString(sectionHeaderStyle.Render("Document"))
	b.WriteRune('\n')
	b.WriteString(m.fileInput.View())
	b.WriteRune('\n')
	help := "Enter: search • Tab: switch field • Esc: quit"
	if m.current != nil {
		help = "Enter: search • Tab: switch field • Esc: back to results"
	}
	b.WriteString(helperStyle.Render(help))
	return b.String()
}

func (m *model) resultsView() string {
	parts := []string{}
	if strings.TrimSpace(m.markdown) != "" {
		parts = append(parts, sectionHeaderStyle.Render("Answer")+"\n"+wordwrap.String(m.markdown, m.wrapWidth()))
	}
	parts = append(parts, m.paperListView())
	for _, w := range m.warnings {
		parts = append(parts, warningStyle.Render(w))
	}
	if len(m.tabState.Visible) > 0 {
		parts = append(parts, tabs.RenderBar(m.tabState)+"\n"+contentBoxStyle.Render(m.viewport.View()))
	}
	if m.stage == stageResults {
		parts = append(parts, m.keyLegendView())
	}
	return joinNonEmpty(parts)
}

func (m *model) paperListView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("Papers (%d selected)", len(m.selectedTitles()))))
	b.WriteRune('\n')
	if len(m.titles) == 0 {
		if m.stage == stageResults {
			b.WriteString(helperStyle.Render("No papers found."))
		}
		return b.String()
	}
	for i, title := range m.titles {
		cursor := " "
		if i == m.cursor && m.stage == stageResults {
			cursor = ">"
		}
		check := " "
		if m.selected[title] {
			check = "x"
		}
		line := fmt.Sprintf("%s [%s] %s", cursor, check, title)
		if i == m.cursor && m.stage == stageResults {
			line = currentLineStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(m.titles)-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func (m *model) keyLegendView() string {
	parts := make([]string, 0, len(resultHints))
	for _, h := range resultHints {
		parts = append(parts, keyStyle.Render(h.Key)+keyDescStyle.Render(" "+h.Description))
	}
	return strings.Join(parts, "  ")
}

func (m *model) statusView() string {
	var lines []string
	if m.errorMessage != "" {
		lines = append(lines, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.busy() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		lines = append(lines, helperStyle.Render(message))
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
