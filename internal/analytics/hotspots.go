package analytics

import (
	"sort"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// Hotspot is a canvas node with accumulated feedback activity across the
// analyzed commits.
type Hotspot struct {
	NodeID    string   `json:"nodeId"`
	Activity  int      `json:"activity"`
	CommitIDs []string `json:"commitIds"`
}

// FindHotspots accumulates feedback activity per canvas node and ranks the
// nodes by activity, descending. When recentN > 0, only the most recent
// recentN commits by timestamp are analyzed. Ties keep insertion order.
func FindHotspots(commits []commit.Commit, recentN int) []Hotspot {
	analyzed := selectRecent(commits, recentN)

	byNode := make(map[string]*Hotspot)

	var order []string

	record := func(nodeID, commitID string) {
		if nodeID == "" {
			return
		}

		spot, ok := byNode[nodeID]
		if !ok {
			spot = &Hotspot{NodeID: nodeID}
			byNode[nodeID] = spot
			order = append(order, nodeID)
		}

		spot.Activity++

		if len(spot.CommitIDs) == 0 || spot.CommitIDs[len(spot.CommitIDs)-1] != commitID {
			spot.CommitIDs = append(spot.CommitIDs, commitID)
		}
	}

	for i := range analyzed {
		for _, c := range analyzed[i].Comments {
			record(c.NodeID, analyzed[i].ID)
		}

		for _, a := range analyzed[i].Annotations {
			record(a.NodeID, analyzed[i].ID)
		}
	}

	hotspots := make([]Hotspot, 0, len(order))
	for _, nodeID := range order {
		hotspots = append(hotspots, *byNode[nodeID])
	}

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].Activity > hotspots[j].Activity
	})

	return hotspots
}

// selectRecent returns the recentN most recent commits by timestamp, or the
// whole list when recentN <= 0.
func selectRecent(commits []commit.Commit, recentN int) []commit.Commit {
	if recentN <= 0 || recentN >= len(commits) {
		return commits
	}

	sorted := make([]commit.Commit, len(commits))
	copy(sorted, commits)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	return sorted[:recentN]
}
