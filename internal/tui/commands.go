// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/pdiddy/paperwiz/internal/session"
	"github.com/pdiddy/paperwiz/pkg/types"
)

const actionTimeout = 2 * time.Minute

// waitForUpdate blocks on the next record of updates. The closed message
// carries the id so a drained old stream cannot end the current one.
func waitForUpdate(id uuid.UUID, updates <-chan session.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return sessionClosedMsg{sessionID: id}
		}
		return sessionUpdateMsg{update: u, updates: updates}
	}
}

// actionCmd runs view against s, the session that was current when the key
// was pressed.
func actionCmd(s *session.Session, view types.ViewKind, titles []string) tea.Cmd {
	selected := append([]string(nil), titles...)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		st, err := s.Act(ctx, view, selected)
		return actionResultMsg{sessionID: s.ID, view: view, state: st, err: err}
	}
}
