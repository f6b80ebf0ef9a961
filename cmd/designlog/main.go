// Package main provides the entry point for the designlog CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/designlog/cmd/designlog/commands"
	"github.com/Sumatoshi-tech/designlog/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	global := &commands.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "designlog",
		Short: "Designlog - versioned design-file changelog with analytics",
		Long: `Designlog snapshots a working design file into immutable versioned
commits carrying feedback and structural metrics, and renders them as a
visual changelog.

Commands:
  commit    Create a new versioned commit
  history   List the commit history
  analyze   Compute trend analytics
  render    Render the visual changelog`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&global.ConfigPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&global.Document, "document", "", "document id")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&global.JSONLogs, "json-logs", false, "emit JSON logs")

	rootCmd.AddCommand(commands.NewCommitCommand(global))
	rootCmd.AddCommand(commands.NewHistoryCommand(global))
	rootCmd.AddCommand(commands.NewAnalyzeCommand(global))
	rootCmd.AddCommand(commands.NewRenderCommand(global))
	rootCmd.AddCommand(commands.NewRestoreCommand(global))
	rootCmd.AddCommand(commands.NewSettingsCommand(global))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "designlog %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
