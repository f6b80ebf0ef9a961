package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
	"github.com/Sumatoshi-tech/designlog/internal/kv"
)

// writeChunks serializes the full list into ChunkSize-record chunks and
// writes each chunk independently. Stale chunk keys beyond the new count are
// removed best-effort. Returns the number of chunks written.
func (s *Store) writeChunks(ctx context.Context, commits []commit.Commit) (int, error) {
	chunkCount := (len(commits) + ChunkSize - 1) / ChunkSize

	for i := range chunkCount {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("write chunks: %w", err)
		}

		start := i * ChunkSize

		end := start + ChunkSize
		if end > len(commits) {
			end = len(commits)
		}

		data, err := commit.EncodeRecords(commits[start:end])
		if err != nil {
			return 0, fmt.Errorf("encode chunk %d: %w", i, err)
		}

		setErr := s.backend.Set(ctx, s.chunkKey(i), data)
		if setErr != nil {
			return 0, fmt.Errorf("write chunk %d: %w", i, setErr)
		}
	}

	s.pruneStaleChunks(ctx, chunkCount)

	return chunkCount, nil
}

// pruneStaleChunks removes chunk keys left over from a larger prior layout.
// Failures here only waste space, so they are logged and ignored.
func (s *Store) pruneStaleChunks(ctx context.Context, chunkCount int) {
	meta, err := s.Meta(ctx)
	if err != nil {
		return
	}

	for i := chunkCount; i < meta.ChunkCount; i++ {
		delErr := s.backend.Delete(ctx, s.chunkKey(i))
		if delErr != nil {
			s.log.Warn("stale chunk delete failed",
				slog.Int("chunk", i), slog.Any("error", delErr))
		}
	}
}

// verifyHeadChunk is the best-effort post-condition check after a write:
// chunk 0 must be readable and its first record must carry the expected id.
// The result is a signal, not part of the write's success contract.
func (s *Store) verifyHeadChunk(ctx context.Context, expectID string) bool {
	data, err := s.backend.Get(ctx, s.chunkKey(0))
	if err != nil {
		return false
	}

	chunk, err := commit.DecodeRecords(data)
	if err != nil || len(chunk) == 0 {
		return false
	}

	return chunk[0].ID == expectID
}

// Meta reads the changelog meta record. A missing record yields a zero-value
// meta (empty history), not an error.
func (s *Store) Meta(ctx context.Context) (commit.Meta, error) {
	data, err := s.backend.Get(ctx, s.primaryKey(keyMeta))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return commit.Meta{SchemaVersion: commit.SchemaVersion}, nil
		}

		return commit.Meta{}, fmt.Errorf("read meta: %w", err)
	}

	var meta commit.Meta

	unmarshalErr := json.Unmarshal(data, &meta)
	if unmarshalErr != nil {
		return commit.Meta{}, fmt.Errorf("decode meta: %w", unmarshalErr)
	}

	return meta, nil
}

func (s *Store) writeMeta(ctx context.Context, meta commit.Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}

	setErr := s.backend.Set(ctx, s.primaryKey(keyMeta), data)
	if setErr != nil {
		return fmt.Errorf("write meta: %w", setErr)
	}

	return nil
}
