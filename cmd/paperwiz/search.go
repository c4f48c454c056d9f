// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwiz/internal/session"
	"github.com/pdiddy/paperwiz/internal/tabs"
	"github.com/pdiddy/paperwiz/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [question...]",
	Short: "Find papers for a research question and render views over them",
	Long: `Search extracts a keyword from the question (and the optional --file
document), asks the search backend for candidate papers, and pre-fetches
citations and BibTeX for each. Progress is written to stderr.

With --action, the named views are rendered for the --select titles (the first
paper when --select is empty) and printed. --format yaml or csl prints the
session instead.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("file", "", "document (.pdf, .docx, .txt, .md) whose text joins the question")
	searchCmd.Flags().StringSlice("select", nil, "paper titles to act on (repeatable)")
	searchCmd.Flags().StringSlice("action", nil, "views to render: summary, citations, bibtex, compare")
	searchCmd.Flags().String("format", "text", "output format: text, yaml, csl")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	file, _ := cmd.Flags().GetString("file")
	if question == "" && file == "" {
		return fmt.Errorf("provide a research question or --file")
	}
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "yaml", "csl":
	default:
		return fmt.Errorf("unknown format %q: use text, yaml, or csl", format)
	}
	actions, _ := cmd.Flags().GetStringSlice("action")
	views := make([]types.ViewKind, 0, len(actions))
	for _, a := range actions {
		v, err := types.ParseViewKind(a)
		if err != nil {
			return err
		}
		views = append(views, v)
	}
	selected, _ := cmd.Flags().GetStringSlice("select")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	deps, err := buildDeps(ctx, loadWorkspaceConfig(), logger)
	if err != nil {
		return err
	}
	ws := session.NewWorkspace(deps)
	defer ws.Close()

	s, updates, err := ws.Submit(ctx, session.Query{Text: question, File: file})
	if err != nil {
		return err
	}
	if err := streamProgress(os.Stderr, updates); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(selected) == 0 {
		if titles := s.Registry.Titles(); len(titles) > 0 {
			selected = titles[:1]
		}
	}
	var st tabs.State
	for _, v := range views {
		fmt.Fprintf(os.Stderr, "%s (%s)\n", session.LoadingMessage, v)
		if st, err = ws.Act(ctx, v, selected); err != nil {
			return err
		}
	}

	switch format {
	case "yaml":
		return s.WriteYAML(os.Stdout)
	case "csl":
		return s.WriteCSL(os.Stdout)
	default:
		printText(os.Stdout, s, st)
		return nil
	}
}

// streamProgress prints one line per update and returns the failure carried
// by a Failed update.
func streamProgress(w io.Writer, updates <-chan session.Update) error {
	var failure error
	for u := range updates {
		switch u.Kind {
		case session.UpdateLoading, session.UpdateDone:
			fmt.Fprintln(w, u.Message)
		case session.UpdatePaper:
			fmt.Fprintf(w, "  [%s] %s\n", u.Paper.ID, u.Paper.Title)
			if u.Warning != "" {
				fmt.Fprintf(w, "  warning: %s\n", u.Warning)
			}
		case session.UpdateFailed:
			fmt.Fprintln(w, u.Message)
			failure = u.Err
		}
	}
	return failure
}

func printText(w io.Writer, s *session.Session, st tabs.State) {
	if md := strings.TrimSpace(s.Markdown()); md != "" {
		fmt.Fprintf(w, "%s\n\n", md)
	}
	for i, p := range s.Registry.Papers() {
		fmt.Fprintf(w, "%d. %s\n", i+1, p.Title)
	}
	for _, v := range st.Visible {
		fmt.Fprintf(w, "\n%s\n", st.Content[v])
	}
}
