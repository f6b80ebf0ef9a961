package dedup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
	"github.com/Sumatoshi-tech/designlog/internal/dedup"
)

func TestCommentFingerprint_PrefersStableID(t *testing.T) {
	t.Parallel()

	withID := commit.Comment{ID: "cm1", Author: "A", Text: "hello", NodeID: "n1"}
	assert.Equal(t, "cm1", dedup.CommentFingerprint(withID))

	legacy := commit.Comment{Author: "A", Text: "hello", NodeID: "n1"}
	assert.Equal(t, "A|hello|n1", dedup.CommentFingerprint(legacy))
}

func TestAnnotationFingerprint_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := commit.Annotation{
		Label:      "spec",
		NodeID:     "n2",
		Properties: map[string]any{"color": "red", "size": 4},
	}
	b := commit.Annotation{
		Label:      "spec",
		NodeID:     "n2",
		Properties: map[string]any{"size": 4, "color": "red"},
	}

	assert.Equal(t, dedup.AnnotationFingerprint(a), dedup.AnnotationFingerprint(b))
}

func TestAnnotationFingerprint_DistinguishesProperties(t *testing.T) {
	t.Parallel()

	a := commit.Annotation{Label: "spec", NodeID: "n2", Properties: map[string]any{"size": 4}}
	b := commit.Annotation{Label: "spec", NodeID: "n2", Properties: map[string]any{"size": 5}}

	assert.NotEqual(t, dedup.AnnotationFingerprint(a), dedup.AnnotationFingerprint(b))
}

func TestFilterNewComments_EmptyHistoryReturnsAll(t *testing.T) {
	t.Parallel()

	current := []commit.Comment{{ID: "cm1"}, {ID: "cm2"}}

	got := dedup.FilterNewComments(current, nil)
	assert.Equal(t, current, got)
}

func TestFilterNewComments_FiltersAcrossFullHistory(t *testing.T) {
	t.Parallel()

	// cm1 was recorded two commits ago, not on the immediately preceding
	// one; it must still be filtered.
	history := []commit.Commit{
		{ID: "c2", Comments: []commit.Comment{{ID: "cm2"}}},
		{ID: "c1", Comments: []commit.Comment{{ID: "cm1"}}},
	}

	current := []commit.Comment{{ID: "cm1"}, {ID: "cm2"}, {ID: "cm3"}}

	got := dedup.FilterNewComments(current, history)
	require.Len(t, got, 1)
	assert.Equal(t, "cm3", got[0].ID)
}

func TestFilterNewComments_Idempotent(t *testing.T) {
	t.Parallel()

	history := []commit.Commit{
		{ID: "c1", Comments: []commit.Comment{{ID: "cm1"}, {Author: "A", Text: "legacy", NodeID: "n1"}}},
	}

	current := []commit.Comment{
		{ID: "cm1"},
		{ID: "cm9"},
		{Author: "A", Text: "legacy", NodeID: "n1"},
	}

	once := dedup.FilterNewComments(current, history)
	twice := dedup.FilterNewComments(once, history)

	assert.Equal(t, once, twice)
	require.Len(t, once, 1)
	assert.Equal(t, "cm9", once[0].ID)
}

func TestFilterNewAnnotations(t *testing.T) {
	t.Parallel()

	known := commit.Annotation{Label: "spec", NodeID: "n1", Properties: map[string]any{"v": 1}}
	history := []commit.Commit{{ID: "c1", Annotations: []commit.Annotation{known}}}

	// Same annotation with different map ordering plus one new.
	current := []commit.Annotation{
		{Label: "spec", NodeID: "n1", Properties: map[string]any{"v": 1}},
		{Label: "todo", NodeID: "n2"},
	}

	got := dedup.FilterNewAnnotations(current, history)
	require.Len(t, got, 1)
	assert.Equal(t, "todo", got[0].Label)
}

func TestFilterNewAnnotations_EmptyHistoryReturnsAll(t *testing.T) {
	t.Parallel()

	current := []commit.Annotation{{Label: "a"}, {Label: "b"}}

	got := dedup.FilterNewAnnotations(current, nil)
	assert.Equal(t, current, got)
}
