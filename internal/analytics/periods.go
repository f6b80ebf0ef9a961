package analytics

import (
	"math"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// Period type values reported by ClassifyPeriods.
const (
	PeriodExpansion = "expansion"
	PeriodCleanup   = "cleanup"
	PeriodStable    = "stable"
	PeriodMixed     = "mixed"
)

// stablePeriodThreshold is the relative node-count change below which an
// adjacent-commit pair counts as stable.
const stablePeriodThreshold = 0.05

// Aggregate rate thresholds, in percent of analyzed pairs.
const (
	mixedRateThreshold    = 25.0
	dominantRateThreshold = 60.0
)

const percentScale = 100.0

// Periods classifies the overall character of the history: whether the file
// mostly grew, mostly shrank, held steady, or mixed phases of both.
type Periods struct {
	Type          string  `json:"type"`
	ExpansionRate float64 `json:"expansionRate"`
	CleanupRate   float64 `json:"cleanupRate"`
	StableRate    float64 `json:"stableRate"`
	PairsAnalyzed int     `json:"pairsAnalyzed"`
}

// ClassifyPeriods examines each adjacent commit pair oldest-to-newest and
// labels it expansion, cleanup, or stable by relative node-count change,
// then aggregates the pair labels into an overall period type.
func ClassifyPeriods(commits []commit.Commit) Periods {
	if len(commits) < 2 {
		return Periods{Type: PeriodStable}
	}

	sorted := sortByTimeAsc(commits)

	expansion, cleanup, stable := 0, 0, 0

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].Metrics.TotalNodes
		delta := sorted[i].Metrics.TotalNodes - prev

		percentChange := 0.0
		if prev != 0 {
			percentChange = math.Abs(float64(delta)) / float64(prev)
		}

		switch {
		case percentChange < stablePeriodThreshold:
			stable++
		case delta > 0:
			expansion++
		default:
			cleanup++
		}
	}

	pairs := len(sorted) - 1
	expansionRate := percentScale * float64(expansion) / float64(pairs)
	cleanupRate := percentScale * float64(cleanup) / float64(pairs)
	stableRate := percentScale * float64(stable) / float64(pairs)

	return Periods{
		Type:          overallPeriodType(expansionRate, cleanupRate, stableRate),
		ExpansionRate: expansionRate,
		CleanupRate:   cleanupRate,
		StableRate:    stableRate,
		PairsAnalyzed: pairs,
	}
}

func overallPeriodType(expansionRate, cleanupRate, stableRate float64) string {
	if expansionRate > mixedRateThreshold && cleanupRate > mixedRateThreshold {
		return PeriodMixed
	}

	switch {
	case expansionRate > dominantRateThreshold:
		return PeriodExpansion
	case cleanupRate > dominantRateThreshold:
		return PeriodCleanup
	case stableRate > dominantRateThreshold:
		return PeriodStable
	default:
		return PeriodMixed
	}
}
