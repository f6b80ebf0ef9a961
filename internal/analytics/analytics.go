// Package analytics computes trend analytics over an ordered commit list:
// growth, churn, period classification, and activity hotspots. Every
// function is pure and returns a neutral result for an empty list.
package analytics

import (
	"sort"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// Trend values reported by AnalyzeGrowth.
const (
	TrendStable    = "stable"
	TrendGrowing   = "growing"
	TrendShrinking = "shrinking"
)

// stableGrowthThreshold is the absolute per-commit growth rate below which
// the file is considered stable.
const stableGrowthThreshold = 1.0

// hoursPerDay converts time spans to fractional days.
const hoursPerDay = 24

// sortByTimeAsc returns a copy of commits ordered oldest-first by timestamp.
// Timestamps, not version labels, are authoritative for ordering.
func sortByTimeAsc(commits []commit.Commit) []commit.Commit {
	sorted := make([]commit.Commit, len(commits))
	copy(sorted, commits)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return sorted
}

// Growth summarizes how the file's node count evolved across the history.
type Growth struct {
	Trend             string  `json:"trend"`
	TotalGrowth       int     `json:"totalGrowth"`
	AverageGrowthRate float64 `json:"averageGrowthRate"`
	FirstNodes        int     `json:"firstNodes"`
	LastNodes         int     `json:"lastNodes"`
}

// AnalyzeGrowth reports total and average node-count growth across the
// history and classifies the trend.
func AnalyzeGrowth(commits []commit.Commit) Growth {
	if len(commits) == 0 {
		return Growth{Trend: TrendStable}
	}

	sorted := sortByTimeAsc(commits)
	first := sorted[0].Metrics.TotalNodes
	last := sorted[len(sorted)-1].Metrics.TotalNodes
	total := last - first

	rate := 0.0
	if len(sorted) > 1 {
		rate = float64(total) / float64(len(sorted)-1)
	}

	trend := TrendStable

	switch {
	case rate >= stableGrowthThreshold:
		trend = TrendGrowing
	case rate <= -stableGrowthThreshold:
		trend = TrendShrinking
	}

	return Growth{
		Trend:             trend,
		TotalGrowth:       total,
		AverageGrowthRate: rate,
		FirstNodes:        first,
		LastNodes:         last,
	}
}

// Churn summarizes how often the file's frame structure changed.
type Churn struct {
	ModificationsPerDay float64 `json:"modificationsPerDay"`
	CurrentFrames       int     `json:"currentFrames"`
	PeakFrames          int     `json:"peakFrames"`
}

// AnalyzeChurn counts adjacent-commit pairs whose frame count changed,
// normalized by the day span of the history.
func AnalyzeChurn(commits []commit.Commit) Churn {
	if len(commits) == 0 {
		return Churn{}
	}

	sorted := sortByTimeAsc(commits)

	modifications := 0
	peak := sorted[0].Metrics.FrameCount

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Metrics.FrameCount != sorted[i-1].Metrics.FrameCount {
			modifications++
		}

		if sorted[i].Metrics.FrameCount > peak {
			peak = sorted[i].Metrics.FrameCount
		}
	}

	span := sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp)

	daySpan := span.Hours() / hoursPerDay
	if daySpan < 1 {
		daySpan = 1
	}

	return Churn{
		ModificationsPerDay: float64(modifications) / daySpan,
		CurrentFrames:       sorted[len(sorted)-1].Metrics.FrameCount,
		PeakFrames:          peak,
	}
}
