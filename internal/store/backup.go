package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// writeBackup stores the full history as one lz4-compressed JSON payload in
// the redundant namespace. The namespace is document-scoped and survives the
// primary store being cleared.
func (s *Store) writeBackup(ctx context.Context, commits []commit.Commit) error {
	data, err := commit.EncodeRecords(commits)
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	var buf bytes.Buffer

	zw := lz4.NewWriter(&buf)

	_, writeErr := zw.Write(data)
	if writeErr != nil {
		return fmt.Errorf("compress backup: %w", writeErr)
	}

	closeErr := zw.Close()
	if closeErr != nil {
		return fmt.Errorf("compress backup: %w", closeErr)
	}

	setErr := s.backend.Set(ctx, s.backupKey(keyBackup), buf.Bytes())
	if setErr != nil {
		return fmt.Errorf("write backup: %w", setErr)
	}

	return nil
}

// readBackup loads and migrates the redundant full-history payload. Older
// deployments wrote the JSON uncompressed; a payload that already looks like
// a JSON array is accepted as-is.
func (s *Store) readBackup(ctx context.Context) ([]commit.Commit, error) {
	payload, err := s.backend.Get(ctx, s.backupKey(keyBackup))
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	data := payload
	if !looksLikeJSONArray(payload) {
		zr := lz4.NewReader(bytes.NewReader(payload))

		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress backup: %w", err)
		}
	}

	commits, decodeErr := commit.DecodeRecords(data)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode backup: %w", decodeErr)
	}

	return commits, nil
}

func looksLikeJSONArray(payload []byte) bool {
	trimmed := bytes.TrimSpace(payload)

	return len(trimmed) > 0 && trimmed[0] == '['
}
