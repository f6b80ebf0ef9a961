package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/designlog/internal/analytics"
)

// maxHotspotsShown caps the hotspot listing.
const maxHotspotsShown = 10

// NewAnalyzeCommand creates the analyze subcommand: trend analytics over
// the commit history.
func NewAnalyzeCommand(global *GlobalFlags) *cobra.Command {
	var recentN int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute growth, churn, period, and hotspot analytics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, global, recentN)
		},
	}

	cmd.Flags().IntVar(&recentN, "recent", 0,
		"restrict hotspot analysis to the N most recent commits (0 = all)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, global *GlobalFlags, recentN int) error {
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

	out := cmd.OutOrStdout()

	growth := analytics.AnalyzeGrowth(commits)
	fmt.Fprintf(out, "Growth:  %s  (total %+d nodes, avg %.2f/commit)\n",
		colorTrend(growth.Trend), growth.TotalGrowth, growth.AverageGrowthRate)

	churn := analytics.AnalyzeChurn(commits)
	fmt.Fprintf(out, "Churn:   %.2f modifications/day (frames: %d now, %d peak)\n",
		churn.ModificationsPerDay, churn.CurrentFrames, churn.PeakFrames)

	periods := analytics.ClassifyPeriods(commits)
	fmt.Fprintf(out, "Periods: %s  (expansion %.0f%%, cleanup %.0f%%, stable %.0f%%)\n",
		periods.Type, periods.ExpansionRate, periods.CleanupRate, periods.StableRate)

	hotspots := analytics.FindHotspots(commits, recentN)
	if len(hotspots) == 0 {
		fmt.Fprintln(out, "Hotspots: none")

		return nil
	}

	fmt.Fprintln(out, "Hotspots:")

	shown := hotspots
	if len(shown) > maxHotspotsShown {
		shown = shown[:maxHotspotsShown]
	}

	for _, spot := range shown {
		fmt.Fprintf(out, "  %-24s %3d feedback items across %d commits\n",
			spot.NodeID, spot.Activity, len(spot.CommitIDs))
	}

	return nil
}

func colorTrend(trend string) string {
	switch trend {
	case analytics.TrendGrowing:
		return color.GreenString(trend)
	case analytics.TrendShrinking:
		return color.RedString(trend)
	default:
		return color.YellowString(trend)
	}
}
