// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwiz/internal/session"
	"github.com/pdiddy/paperwiz/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [question...]",
	Short: "Open the interactive terminal front end",
	Long: `Tui opens a full-screen search form. Results stream into a selectable
paper list; s, c, b and x render summaries, citations, BibTeX and comparisons
for the selection into tabs.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("file", "", "prefill the document field")
	tuiCmd.Flags().Bool("no-alt-screen", false, "render inline instead of in the alternate screen")

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	noAlt, _ := cmd.Flags().GetBool("no-alt-screen")

	deps, err := buildDeps(context.Background(), loadWorkspaceConfig(), logger)
	if err != nil {
		return err
	}
	ws := session.NewWorkspace(deps)
	defer ws.Close()

	opts := []tea.ProgramOption{}
	if !noAlt {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Workspace: ws,
		Query:     strings.Join(args, " "),
		File:      file,
	}), opts...)
	_, err = program.Run()
	return err
}
