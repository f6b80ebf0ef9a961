package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/designlog/internal/analytics"
	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// commitsWithNodes builds one commit per node count, one day apart,
// oldest first.
func commitsWithNodes(nodes ...int) []commit.Commit {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	commits := make([]commit.Commit, len(nodes))

	for i, n := range nodes {
		commits[i] = commit.Commit{
			ID:        fmt.Sprintf("c-%d", i),
			Version:   fmt.Sprintf("1.0.%d", i),
			Timestamp: base.AddDate(0, 0, i),
			Metrics:   commit.Metrics{TotalNodes: n, FrameCount: n / 10},
		}
	}

	return commits
}

func TestAnalyzeGrowth_Growing(t *testing.T) {
	t.Parallel()

	growth := analytics.AnalyzeGrowth(commitsWithNodes(10, 15, 25))

	assert.Equal(t, analytics.TrendGrowing, growth.Trend)
	assert.Equal(t, 15, growth.TotalGrowth)
	assert.InDelta(t, 7.5, growth.AverageGrowthRate, 1e-9)
}

func TestAnalyzeGrowth_Shrinking(t *testing.T) {
	t.Parallel()

	growth := analytics.AnalyzeGrowth(commitsWithNodes(100, 80, 50))

	assert.Equal(t, analytics.TrendShrinking, growth.Trend)
	assert.Equal(t, -50, growth.TotalGrowth)
}

func TestAnalyzeGrowth_StableUnderThreshold(t *testing.T) {
	t.Parallel()

	// |avg| < 1 node per commit counts as stable.
	growth := analytics.AnalyzeGrowth(commitsWithNodes(100, 100, 101))

	assert.Equal(t, analytics.TrendStable, growth.Trend)
}

func TestAnalyzeGrowth_Empty(t *testing.T) {
	t.Parallel()

	growth := analytics.AnalyzeGrowth(nil)

	assert.Equal(t, analytics.TrendStable, growth.Trend)
	assert.Zero(t, growth.TotalGrowth)
	assert.Zero(t, growth.AverageGrowthRate)
}

func TestAnalyzeGrowth_SingleCommit(t *testing.T) {
	t.Parallel()

	growth := analytics.AnalyzeGrowth(commitsWithNodes(42))

	assert.Equal(t, analytics.TrendStable, growth.Trend)
	assert.Zero(t, growth.AverageGrowthRate)
}

func TestAnalyzeGrowth_UnsortedInput(t *testing.T) {
	t.Parallel()

	commits := commitsWithNodes(10, 15, 25)
	// Most-recent-first, as the store returns it.
	reversed := []commit.Commit{commits[2], commits[1], commits[0]}

	growth := analytics.AnalyzeGrowth(reversed)

	assert.Equal(t, 15, growth.TotalGrowth)
}

func TestAnalyzeChurn(t *testing.T) {
	t.Parallel()

	// Frame counts 1, 1, 2, 3: two adjacent pairs changed over three days.
	churn := analytics.AnalyzeChurn(commitsWithNodes(10, 15, 25, 30))

	assert.InDelta(t, 2.0/3.0, churn.ModificationsPerDay, 1e-9)
	assert.Equal(t, 3, churn.CurrentFrames)
	assert.Equal(t, 3, churn.PeakFrames)
}

func TestAnalyzeChurn_SameDayClampsToOneDay(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	commits := []commit.Commit{
		{ID: "a", Timestamp: base, Metrics: commit.Metrics{FrameCount: 1}},
		{ID: "b", Timestamp: base.Add(time.Hour), Metrics: commit.Metrics{FrameCount: 2}},
	}

	churn := analytics.AnalyzeChurn(commits)

	assert.InDelta(t, 1.0, churn.ModificationsPerDay, 1e-9)
}

func TestAnalyzeChurn_Empty(t *testing.T) {
	t.Parallel()

	churn := analytics.AnalyzeChurn(nil)

	assert.Zero(t, churn.ModificationsPerDay)
	assert.Zero(t, churn.PeakFrames)
}

func TestClassifyPeriods_Mixed(t *testing.T) {
	t.Parallel()

	periods := analytics.ClassifyPeriods(commitsWithNodes(100, 120, 90, 110))

	assert.Equal(t, analytics.PeriodMixed, periods.Type)
	assert.InDelta(t, 100.0,
		periods.ExpansionRate+periods.CleanupRate+periods.StableRate, 1e-9)
}

func TestClassifyPeriods_Expansion(t *testing.T) {
	t.Parallel()

	periods := analytics.ClassifyPeriods(commitsWithNodes(100, 120, 150, 200))

	assert.Equal(t, analytics.PeriodExpansion, periods.Type)
	assert.InDelta(t, 100.0, periods.ExpansionRate, 1e-9)
}

func TestClassifyPeriods_ZeroPrevNodesIsStable(t *testing.T) {
	t.Parallel()

	periods := analytics.ClassifyPeriods(commitsWithNodes(0, 50))

	assert.InDelta(t, 100.0, periods.StableRate, 1e-9)
	assert.Equal(t, analytics.PeriodStable, periods.Type)
}

func TestClassifyPeriods_FewerThanTwoCommits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, analytics.PeriodStable, analytics.ClassifyPeriods(nil).Type)
	assert.Equal(t, analytics.PeriodStable, analytics.ClassifyPeriods(commitsWithNodes(10)).Type)
}

func TestFindHotspots_RanksByActivity(t *testing.T) {
	t.Parallel()

	commits := []commit.Commit{
		{
			ID:        "c1",
			Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Comments: []commit.Comment{
				{ID: "cm1", NodeID: "hero"},
				{ID: "cm2", NodeID: "hero"},
				{ID: "cm3", NodeID: "footer"},
				{ID: "cm4"}, // no node, ignored
			},
			Annotations: []commit.Annotation{{Label: "a1", NodeID: "hero"}},
		},
		{
			ID:        "c2",
			Timestamp: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			Comments:  []commit.Comment{{ID: "cm5", NodeID: "hero"}},
		},
	}

	hotspots := analytics.FindHotspots(commits, 0)
	require.Len(t, hotspots, 2)

	assert.Equal(t, "hero", hotspots[0].NodeID)
	assert.Equal(t, 4, hotspots[0].Activity)
	assert.ElementsMatch(t, []string{"c1", "c2"}, hotspots[0].CommitIDs)

	assert.Equal(t, "footer", hotspots[1].NodeID)
	assert.Equal(t, 1, hotspots[1].Activity)
}

func TestFindHotspots_RecentWindow(t *testing.T) {
	t.Parallel()

	commits := []commit.Commit{
		{
			ID:        "old",
			Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Comments:  []commit.Comment{{ID: "cm1", NodeID: "archive"}},
		},
		{
			ID:        "new",
			Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Comments:  []commit.Comment{{ID: "cm2", NodeID: "hero"}},
		},
	}

	hotspots := analytics.FindHotspots(commits, 1)
	require.Len(t, hotspots, 1)
	assert.Equal(t, "hero", hotspots[0].NodeID)
}

func TestFindHotspots_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, analytics.FindHotspots(nil, 0))
}
