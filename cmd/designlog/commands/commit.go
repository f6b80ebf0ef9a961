package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
	"github.com/Sumatoshi-tech/designlog/internal/engine"
	"github.com/Sumatoshi-tech/designlog/internal/versioning"
)

// ErrCommitFailed wraps a create that reported failure in its result.
var ErrCommitFailed = errors.New("commit creation failed")

// ErrNoTitle is returned when the required title flag is missing.
var ErrNoTitle = errors.New("title is required (use --title)")

type commitFlags struct {
	title       string
	description string
	author      string
	email       string
	bump        string

	nodes      int
	frames     int
	components int
	instances  int
	texts      int
}

// NewCommitCommand creates the commit subcommand: snapshot the current file
// state into a new versioned commit.
func NewCommitCommand(global *GlobalFlags) *cobra.Command {
	flags := &commitFlags{}

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Create a new versioned commit with deduplicated feedback",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.title == "" {
				return ErrNoTitle
			}

			return runCommit(cmd, global, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.title, "title", "t", "", "commit title (required)")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "commit description")
	cmd.Flags().StringVar(&flags.author, "author", "", "author display name")
	cmd.Flags().StringVar(&flags.email, "email", "", "author email")
	cmd.Flags().StringVar(&flags.bump, "bump", string(versioning.IncrementPatch),
		"semantic increment: major, minor, or patch")

	cmd.Flags().IntVar(&flags.nodes, "nodes", 0, "total node count")
	cmd.Flags().IntVar(&flags.frames, "frames", 0, "frame count")
	cmd.Flags().IntVar(&flags.components, "components", 0, "component count")
	cmd.Flags().IntVar(&flags.instances, "instances", 0, "instance count")
	cmd.Flags().IntVar(&flags.texts, "texts", 0, "text node count")

	return cmd
}

func runCommit(cmd *cobra.Command, global *GlobalFlags, flags *commitFlags) error {
	ctx := cmd.Context()

	app, err := OpenApp(ctx, global)
	if err != nil {
		return err
	}
	defer app.Close()

	result := app.Engine.CreateCommit(ctx, engine.CreateRequest{
		Title:       flags.title,
		Description: flags.description,
		Author:      commit.Author{Name: flags.author, Email: flags.email},
		Increment:   versioning.Increment(flags.bump),
		Metrics: commit.Metrics{
			TotalNodes:     flags.nodes,
			FrameCount:     flags.frames,
			ComponentCount: flags.components,
			InstanceCount:  flags.instances,
			TextCount:      flags.texts,
		},
	})

	if result.FeedbackWarning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", result.FeedbackWarning)
	}

	if !result.Success {
		return fmt.Errorf("%w: %s", ErrCommitFailed, result.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with %d feedback items\n",
		result.Commit.Version, result.Commit.ID, result.Commit.Metrics.FeedbackCount)

	return nil
}
