package histogram_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
	"github.com/Sumatoshi-tech/designlog/internal/histogram"
)

func testCommits() []commit.Commit {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	return []commit.Commit{
		// Most-recent-first, as the store returns it.
		{
			ID: "c3", Version: "1.2.0", Timestamp: base.AddDate(0, 0, 2),
			Metrics: commit.Metrics{TotalNodes: 90, FeedbackCount: 1},
		},
		{
			ID: "c2", Version: "1.1.0", Timestamp: base.AddDate(0, 0, 1),
			Metrics: commit.Metrics{TotalNodes: 120, FeedbackCount: 4},
		},
		{
			ID: "c1", Version: "1.0.0", Timestamp: base,
			Metrics: commit.Metrics{TotalNodes: 100, FeedbackCount: 2},
		},
	}
}

func TestProject_ChronologicalWithAbsoluteDeltas(t *testing.T) {
	t.Parallel()

	bars := histogram.Project(testCommits())
	require.Len(t, bars, 3)

	assert.Equal(t, "c1", bars[0].CommitID)
	assert.Equal(t, 0, bars[0].NodesDelta, "first commit has no baseline")
	assert.Equal(t, 2, bars[0].FeedbackCount)

	assert.Equal(t, "c2", bars[1].CommitID)
	assert.Equal(t, 20, bars[1].NodesDelta)

	assert.Equal(t, "c3", bars[2].CommitID)
	assert.Equal(t, 30, bars[2].NodesDelta, "shrink reported as magnitude")
}

func TestProject_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, histogram.Project(nil))
}

func TestProject_SingleCommit(t *testing.T) {
	t.Parallel()

	bars := histogram.Project(testCommits()[:1])
	require.Len(t, bars, 1)
	assert.Zero(t, bars[0].NodesDelta)
}

func TestReverse(t *testing.T) {
	t.Parallel()

	bars := histogram.Project(testCommits())
	reversed := histogram.Reverse(bars)

	require.Len(t, reversed, 3)
	assert.Equal(t, "c3", reversed[0].CommitID)
	assert.Equal(t, "c1", reversed[2].CommitID)

	// Input untouched.
	assert.Equal(t, "c1", bars[0].CommitID)
}
