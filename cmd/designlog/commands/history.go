package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// NewHistoryCommand creates the history subcommand: list the commit log as
// a table, most recent first.
func NewHistoryCommand(global *GlobalFlags) *cobra.Command {
	var oldestFirst bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the commit history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, global, oldestFirst)
		},
	}

	cmd.Flags().BoolVar(&oldestFirst, "oldest-first", false, "list oldest commits first")

	return cmd
}

func runHistory(cmd *cobra.Command, global *GlobalFlags, oldestFirst bool) error {
	ctx := cmd.Context()

	app, err := OpenApp(ctx, global)
	if err != nil {
		return err
	}
	defer app.Close()

	commits, err := app.Engine.History(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	if len(commits) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")

		return nil
	}

	// History is stored most-recent-first; oldest-first is the explicit
	// presentation reversal.
	if oldestFirst {
		reversed := make([]commit.Commit, len(commits))
		for i, c := range commits {
			reversed[len(commits)-1-i] = c
		}

		commits = reversed
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"Version", "Title", "Author", "When", "Feedback", "Nodes"})

	for _, c := range commits {
		tw.AppendRow(table.Row{
			c.Version,
			c.Title,
			c.Author.Name,
			humanize.Time(c.Timestamp),
			c.Metrics.FeedbackCount,
			c.Metrics.TotalNodes,
		})
	}

	tw.Render()

	return nil
}
