// Package commit defines the changelog data model: immutable commit records,
// the feedback items they carry, and the codec that normalizes persisted
// record shapes (legacy and current) into the canonical form.
package commit

import "time"

// Mode selects how version labels are generated.
type Mode string

// Versioning modes.
const (
	ModeSemantic  Mode = "semantic"
	ModeDateBased Mode = "date-based"
)

// SchemaVersion is the current persisted schema version, used to gate
// future migrations.
const SchemaVersion = 1

// Author identifies who created a commit.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Comment is a single feedback comment. Comments stored on a commit are
// deltas: only items new since the previous commit, after deduplication.
type Comment struct {
	// ID is the stable external identifier and the primary dedup key.
	// Legacy items may lack it.
	ID        string    `json:"id,omitempty"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	NodeID    string    `json:"nodeId,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
}

// Annotation is a labeled marker pinned to a canvas node. Properties carry
// an origin-defined schema and are not validated here.
type Annotation struct {
	Label      string         `json:"label"`
	NodeID     string         `json:"nodeId"`
	Pinned     bool           `json:"isPinned"`
	Properties map[string]any `json:"properties,omitempty"`
}

// MetricsDeltas holds per-commit structural count changes versus the
// previous commit.
type MetricsDeltas struct {
	Nodes      int `json:"nodes"`
	Frames     int `json:"frames"`
	Components int `json:"components"`
	Instances  int `json:"instances"`
	Texts      int `json:"texts"`
}

// Metrics captures the structural state of the file at commit time.
type Metrics struct {
	TotalNodes     int            `json:"totalNodes"`
	FrameCount     int            `json:"frameCount"`
	ComponentCount int            `json:"componentCount"`
	InstanceCount  int            `json:"instanceCount"`
	TextCount      int            `json:"textCount"`
	FeedbackCount  int            `json:"feedbackCount"`
	Deltas         *MetricsDeltas `json:"deltas,omitempty"`
}

// DevStatusChange records a per-layer dev-status transition since the
// previous commit.
type DevStatusChange struct {
	NodeID string `json:"nodeId"`
	Name   string `json:"name,omitempty"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Commit is the unit of history: an immutable snapshot record capturing a
// version label, authorship, delta feedback, and metrics. The only permitted
// mutation after creation is back-filling ChangelogFrameID once rendering
// succeeds.
type Commit struct {
	ID               string            `json:"id"`
	Version          string            `json:"version"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	Author           Author            `json:"author"`
	Timestamp        time.Time         `json:"timestamp"`
	Comments         []Comment         `json:"comments,omitempty"`
	Annotations      []Annotation      `json:"annotations,omitempty"`
	Metrics          Metrics           `json:"metrics"`
	ChangelogFrameID string            `json:"changelogFrameId,omitempty"`
	DevStatusChanges []DevStatusChange `json:"devStatusChanges,omitempty"`
}

// FeedbackCount is the number of feedback items recorded on this commit.
func (c *Commit) FeedbackCount() int {
	return len(c.Comments) + len(c.Annotations)
}

// Meta describes the persisted changelog state: schema version, versioning
// mode, and the chunk layout of the commit list.
type Meta struct {
	SchemaVersion int    `json:"version"`
	Mode          Mode   `json:"mode"`
	LastCommitID  string `json:"lastCommitId,omitempty"`
	ChunkCount    int    `json:"chunkCount"`
}
