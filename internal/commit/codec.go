package commit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// legacyRecord is the persisted shape written before the title/description
// split. It carries a single message field and may carry numeric
// epoch-millisecond timestamps.
type legacyRecord struct {
	ID               string            `json:"id"`
	Version          string            `json:"version"`
	Message          string            `json:"message"`
	Author           Author            `json:"author"`
	Timestamp        json.RawMessage   `json:"timestamp"`
	Comments         []json.RawMessage `json:"comments"`
	Annotations      []Annotation      `json:"annotations"`
	Metrics          Metrics           `json:"metrics"`
	ChangelogFrameID string            `json:"changelogFrameId"`
}

// currentRecord is the wire shape of a Commit with the timestamp left raw so
// it can be coerced from either an ISO-8601 string or a legacy epoch number.
type currentRecord struct {
	ID               string            `json:"id"`
	Version          string            `json:"version"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Author           Author            `json:"author"`
	Timestamp        json.RawMessage   `json:"timestamp"`
	Comments         []json.RawMessage `json:"comments"`
	Annotations      []Annotation      `json:"annotations"`
	Metrics          Metrics           `json:"metrics"`
	ChangelogFrameID string            `json:"changelogFrameId"`
	DevStatusChanges []DevStatusChange `json:"devStatusChanges"`
}

// rawComment mirrors Comment with a raw timestamp for coercion.
type rawComment struct {
	ID        string          `json:"id"`
	Author    string          `json:"author"`
	Timestamp json.RawMessage `json:"timestamp"`
	Text      string          `json:"text"`
	NodeID    string          `json:"nodeId"`
	ParentID  string          `json:"parentId"`
}

// DecodeRecord normalizes one raw persisted record into a Commit. Records
// are a tagged union discriminated by the presence of a "title" field:
// records without it are legacy-shaped and are migrated, never mutated in
// place. Timestamps are accepted as ISO-8601 strings or legacy epoch
// milliseconds.
func DecodeRecord(raw json.RawMessage) (Commit, error) {
	var probe map[string]json.RawMessage

	err := json.Unmarshal(raw, &probe)
	if err != nil {
		return Commit{}, fmt.Errorf("decode record: %w", err)
	}

	if _, hasTitle := probe["title"]; !hasTitle {
		return decodeLegacyRecord(raw)
	}

	return decodeCurrentRecord(raw)
}

// DecodeRecords normalizes a JSON array of raw persisted records.
func DecodeRecords(data []byte) ([]Commit, error) {
	var raws []json.RawMessage

	err := json.Unmarshal(data, &raws)
	if err != nil {
		return nil, fmt.Errorf("decode record array: %w", err)
	}

	commits := make([]Commit, 0, len(raws))

	for i, raw := range raws {
		c, decodeErr := DecodeRecord(raw)
		if decodeErr != nil {
			return nil, fmt.Errorf("record %d: %w", i, decodeErr)
		}

		commits = append(commits, c)
	}

	return commits, nil
}

// EncodeRecords serializes commits in the current wire shape, timestamps as
// ISO-8601 strings.
func EncodeRecords(commits []Commit) ([]byte, error) {
	if commits == nil {
		commits = []Commit{}
	}

	data, err := json.Marshal(commits)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}

	return data, nil
}

// DecodeComment normalizes one raw comment, coercing its timestamp.
func DecodeComment(raw json.RawMessage) (Comment, error) {
	var rc rawComment

	err := json.Unmarshal(raw, &rc)
	if err != nil {
		return Comment{}, fmt.Errorf("decode comment: %w", err)
	}

	ts, tsErr := coerceTimestamp(rc.Timestamp)
	if tsErr != nil {
		return Comment{}, fmt.Errorf("comment %q: %w", rc.ID, tsErr)
	}

	return Comment{
		ID:        rc.ID,
		Author:    rc.Author,
		Timestamp: ts,
		Text:      rc.Text,
		NodeID:    rc.NodeID,
		ParentID:  rc.ParentID,
	}, nil
}

func decodeLegacyRecord(raw json.RawMessage) (Commit, error) {
	var rec legacyRecord

	err := json.Unmarshal(raw, &rec)
	if err != nil {
		return Commit{}, fmt.Errorf("decode legacy record: %w", err)
	}

	ts, tsErr := coerceTimestamp(rec.Timestamp)
	if tsErr != nil {
		return Commit{}, fmt.Errorf("legacy record %q: %w", rec.ID, tsErr)
	}

	comments, cErr := decodeComments(rec.Comments)
	if cErr != nil {
		return Commit{}, fmt.Errorf("legacy record %q: %w", rec.ID, cErr)
	}

	return Commit{
		ID:               rec.ID,
		Version:          rec.Version,
		Title:            rec.Message,
		Description:      "",
		Author:           rec.Author,
		Timestamp:        ts,
		Comments:         comments,
		Annotations:      rec.Annotations,
		Metrics:          rec.Metrics,
		ChangelogFrameID: rec.ChangelogFrameID,
	}, nil
}

func decodeCurrentRecord(raw json.RawMessage) (Commit, error) {
	var rec currentRecord

	err := json.Unmarshal(raw, &rec)
	if err != nil {
		return Commit{}, fmt.Errorf("decode current record: %w", err)
	}

	ts, tsErr := coerceTimestamp(rec.Timestamp)
	if tsErr != nil {
		return Commit{}, fmt.Errorf("record %q: %w", rec.ID, tsErr)
	}

	comments, cErr := decodeComments(rec.Comments)
	if cErr != nil {
		return Commit{}, fmt.Errorf("record %q: %w", rec.ID, cErr)
	}

	return Commit{
		ID:               rec.ID,
		Version:          rec.Version,
		Title:            rec.Title,
		Description:      rec.Description,
		Author:           rec.Author,
		Timestamp:        ts,
		Comments:         comments,
		Annotations:      rec.Annotations,
		Metrics:          rec.Metrics,
		ChangelogFrameID: rec.ChangelogFrameID,
		DevStatusChanges: rec.DevStatusChanges,
	}, nil
}

func decodeComments(raws []json.RawMessage) ([]Comment, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	comments := make([]Comment, 0, len(raws))

	for i, raw := range raws {
		c, err := DecodeComment(raw)
		if err != nil {
			return nil, fmt.Errorf("comment %d: %w", i, err)
		}

		comments = append(comments, c)
	}

	return comments, nil
}

// coerceTimestamp accepts an ISO-8601 string or a legacy epoch-millisecond
// number. An absent timestamp yields the zero time.
func coerceTimestamp(raw json.RawMessage) (time.Time, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return time.Time{}, nil
	}

	if trimmed[0] == '"' {
		var s string

		err := json.Unmarshal(trimmed, &s)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp string: %w", err)
		}

		ts, parseErr := time.Parse(time.RFC3339Nano, s)
		if parseErr != nil {
			return time.Time{}, fmt.Errorf("timestamp %q: %w", s, parseErr)
		}

		return ts, nil
	}

	millis, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp number %q: %w", trimmed, err)
	}

	return time.UnixMilli(millis).UTC(), nil
}
