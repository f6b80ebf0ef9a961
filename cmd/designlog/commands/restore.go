package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRestoreCommand creates the restore subcommand: rebuild the primary
// store from the redundant backup namespace.
func NewRestoreCommand(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore the commit history from the backup namespace",
		Long: `Clears the primary chunk store and reloads from the redundant backup.
The reload re-persists the restored history into the primary store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRestore(cmd, global)
		},
	}
}

func runRestore(cmd *cobra.Command, global *GlobalFlags) error {
	ctx := cmd.Context()

	app, err := OpenApp(ctx, global)
	if err != nil {
		return err
	}
	defer app.Close()

	clearErr := app.Store.ClearPrimary(ctx)
	if clearErr != nil {
		return fmt.Errorf("clear primary store: %w", clearErr)
	}

	commits, err := app.Store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("restore from backup: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "restored %d commits from backup\n", len(commits))

	return nil
}
