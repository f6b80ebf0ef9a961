package store

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// Mode reads the persisted versioning mode, defaulting to semantic when
// absent or unrecognized.
func (s *Store) Mode(ctx context.Context) commit.Mode {
	data, err := s.backend.Get(ctx, s.primaryKey(keyMode))
	if err != nil {
		return commit.ModeSemantic
	}

	mode := commit.Mode(data)
	if mode != commit.ModeSemantic && mode != commit.ModeDateBased {
		return commit.ModeSemantic
	}

	return mode
}

// SetMode persists the versioning mode.
func (s *Store) SetMode(ctx context.Context, mode commit.Mode) error {
	err := s.backend.Set(ctx, s.primaryKey(keyMode), []byte(mode))
	if err != nil {
		return fmt.Errorf("set mode: %w", err)
	}

	return nil
}

// CurrentVersion reads the last-assigned version label, empty when none.
func (s *Store) CurrentVersion(ctx context.Context) string {
	data, err := s.backend.Get(ctx, s.primaryKey(keyCurrentVersion))
	if err != nil {
		return ""
	}

	return string(data)
}

// SetCurrentVersion persists the last-assigned version label.
func (s *Store) SetCurrentVersion(ctx context.Context, label string) error {
	err := s.backend.Set(ctx, s.primaryKey(keyCurrentVersion), []byte(label))
	if err != nil {
		return fmt.Errorf("set current version: %w", err)
	}

	return nil
}

// PAT reads the stored access token, empty when none.
func (s *Store) PAT(ctx context.Context) string {
	data, err := s.backend.Get(ctx, s.primaryKey(keyPAT))
	if err != nil {
		return ""
	}

	return string(data)
}

// SetPAT persists the access token.
func (s *Store) SetPAT(ctx context.Context, token string) error {
	err := s.backend.Set(ctx, s.primaryKey(keyPAT), []byte(token))
	if err != nil {
		return fmt.Errorf("set pat: %w", err)
	}

	return nil
}
