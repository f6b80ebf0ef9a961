package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/designlog/internal/render"
)

// renderFilePerm is the mode for generated HTML files.
const renderFilePerm = 0o644

// ErrNoOutput is returned when the --output flag is not set.
var ErrNoOutput = errors.New("output file is required (use --output)")

// NewRenderCommand creates the render subcommand: write the visual
// changelog page as HTML.
func NewRenderCommand(global *GlobalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the commit history as an HTML changelog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				return ErrNoOutput
			}

			return runRender(cmd, global, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file")

	return cmd
}

func runRender(cmd *cobra.Command, global *GlobalFlags, output string) error {
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

	file, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, renderFilePerm)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	renderErr := render.WritePage(file, commits)
	if renderErr != nil {
		return renderErr
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d commits)\n", output, len(commits))

	return nil
}
