// Package dedup filters freshly fetched feedback down to items not already
// recorded anywhere in history. Feedback sources are re-fetched in full each
// time, not incrementally, and an item can predate several commits without
// being consumed, so filtering runs against the union of every historical
// commit's feedback.
package dedup

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// fingerprintSeparator joins fingerprint components.
const fingerprintSeparator = "|"

// CommentFingerprint returns the deterministic identity key for a comment:
// the stable external id when present, otherwise a composite of author, text
// and node location for legacy items lacking one.
func CommentFingerprint(c commit.Comment) string {
	if c.ID != "" {
		return c.ID
	}

	return strings.Join([]string{c.Author, c.Text, c.NodeID}, fingerprintSeparator)
}

// AnnotationFingerprint returns the deterministic identity key for an
// annotation: label, node location, and the canonicalized properties map.
func AnnotationFingerprint(a commit.Annotation) string {
	return strings.Join(
		[]string{a.Label, a.NodeID, canonicalProperties(a.Properties)},
		fingerprintSeparator,
	)
}

// canonicalProperties serializes the properties map with keys in
// lexicographic order so comparison is independent of map iteration order.
func canonicalProperties(props map[string]any) string {
	if len(props) == 0 {
		return ""
	}

	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var b strings.Builder

	b.WriteByte('{')

	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}

		keyJSON, _ := json.Marshal(key)
		b.Write(keyJSON)
		b.WriteByte(':')

		valueJSON, err := json.Marshal(props[key])
		if err != nil {
			// Unserializable values still need a stable representation.
			valueJSON = []byte(`"?"`)
		}

		b.Write(valueJSON)
	}

	b.WriteByte('}')

	return b.String()
}

// FilterNewComments returns the comments in current whose fingerprint does
// not appear anywhere in history. Empty history means everything is new and
// current is returned unchanged.
func FilterNewComments(current []commit.Comment, history []commit.Commit) []commit.Comment {
	if len(history) == 0 {
		return current
	}

	seen := make(map[string]bool)

	for i := range history {
		for _, c := range history[i].Comments {
			seen[CommentFingerprint(c)] = true
		}
	}

	out := make([]commit.Comment, 0, len(current))

	for _, c := range current {
		if !seen[CommentFingerprint(c)] {
			out = append(out, c)
		}
	}

	return out
}

// FilterNewAnnotations returns the annotations in current whose fingerprint
// does not appear anywhere in history. Empty history means everything is new
// and current is returned unchanged.
func FilterNewAnnotations(current []commit.Annotation, history []commit.Commit) []commit.Annotation {
	if len(history) == 0 {
		return current
	}

	seen := make(map[string]bool)

	for i := range history {
		for _, a := range history[i].Annotations {
			seen[AnnotationFingerprint(a)] = true
		}
	}

	out := make([]commit.Annotation, 0, len(current))

	for _, a := range current {
		if !seen[AnnotationFingerprint(a)] {
			out = append(out, a)
		}
	}

	return out
}
