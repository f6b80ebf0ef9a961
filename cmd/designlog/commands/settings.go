package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// ErrInvalidMode is returned for an unrecognized versioning mode argument.
var ErrInvalidMode = errors.New("mode must be \"semantic\" or \"date-based\"")

// NewSettingsCommand creates the settings subcommand group for persisted
// per-document settings: the access token and the versioning mode.
func NewSettingsCommand(global *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage persisted document settings",
	}

	cmd.AddCommand(newSetTokenCommand(global))
	cmd.AddCommand(newSetModeCommand(global))

	return cmd
}

func newSetTokenCommand(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set-token <token>",
		Short: "Store the feedback API access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := OpenApp(ctx, global)
			if err != nil {
				return err
			}
			defer app.Close()

			setErr := app.Store.SetPAT(ctx, args[0])
			if setErr != nil {
				return setErr
			}

			fmt.Fprintln(cmd.OutOrStdout(), "token stored")

			return nil
		},
	}
}

func newSetModeCommand(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set-mode <semantic|date-based>",
		Short: "Set the versioning mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := commit.Mode(args[0])
			if mode != commit.ModeSemantic && mode != commit.ModeDateBased {
				return fmt.Errorf("%w: got %q", ErrInvalidMode, args[0])
			}

			ctx := cmd.Context()

			app, err := OpenApp(ctx, global)
			if err != nil {
				return err
			}
			defer app.Close()

			setErr := app.Store.SetMode(ctx, mode)
			if setErr != nil {
				return setErr
			}

			fmt.Fprintf(cmd.OutOrStdout(), "versioning mode set to %s\n", mode)

			return nil
		},
	}
}
