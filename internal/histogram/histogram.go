// Package histogram derives per-commit visual magnitudes for rendering
// collaborators: feedback volume and the absolute node-count delta versus
// the preceding commit.
package histogram

import (
	"sort"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// Bar is the visual magnitude record for one commit.
type Bar struct {
	CommitID      string `json:"commitId"`
	Version       string `json:"version"`
	FeedbackCount int    `json:"feedbackCount"`
	NodesDelta    int    `json:"nodesDelta"`
}

// Project produces one Bar per commit in chronological order, oldest first.
// The very first commit has no baseline, so its NodesDelta is 0. Callers
// wanting newest-first output reverse explicitly with Reverse.
func Project(commits []commit.Commit) []Bar {
	sorted := make([]commit.Commit, len(commits))
	copy(sorted, commits)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	bars := make([]Bar, len(sorted))

	for i := range sorted {
		delta := 0
		if i > 0 {
			delta = sorted[i].Metrics.TotalNodes - sorted[i-1].Metrics.TotalNodes
			if delta < 0 {
				delta = -delta
			}
		}

		bars[i] = Bar{
			CommitID:      sorted[i].ID,
			Version:       sorted[i].Version,
			FeedbackCount: sorted[i].Metrics.FeedbackCount,
			NodesDelta:    delta,
		}
	}

	return bars
}

// Reverse returns a new slice with the bars in opposite order. Reversal is a
// presentation decision made at the display boundary, not by Project.
func Reverse(bars []Bar) []Bar {
	out := make([]Bar, len(bars))

	for i, b := range bars {
		out[len(bars)-1-i] = b
	}

	return out
}
