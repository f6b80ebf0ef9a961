// Package store persists the ordered commit history against a constrained
// key-value backend. Values are size-bounded per key, so the commit list is
// serialized into fixed-size chunks; a redundant full-history backup lives
// in a separate namespace that survives the primary namespace being cleared.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
	"github.com/Sumatoshi-tech/designlog/internal/kv"
)

// ChunkSize is the maximum number of commit records per chunk key.
const ChunkSize = 10

// tracerName identifies spans emitted by this package.
const tracerName = "designlog/store"

// Primary-namespace key names.
const (
	keyMeta           = "changelog_meta"
	keyPAT            = "pat"
	keyMode           = "versioning_mode"
	keyCurrentVersion = "current_version"
	chunkKeyFormat    = "commit_chunk_%d"
)

// Backup-namespace key names.
const (
	keyBackup       = "commits_backup"
	keyBackfillFlag = "migration_backfill_v1"
)

// ErrDuplicateCommitID is returned by Append when the commit id already
// exists in history.
var ErrDuplicateCommitID = errors.New("store: duplicate commit id")

// ErrCommitNotFound is returned by SetFrameID for unknown commit ids.
var ErrCommitNotFound = errors.New("store: commit not found")

// AppendReceipt reports the outcome of an Append beyond its error: whether
// the best-effort read-back verification of chunk 0 succeeded, and the
// resulting chunk count.
type AppendReceipt struct {
	Verified   bool
	ChunkCount int
}

// Store is the durable commit history for one document. Only Append and
// SetFrameID mutate the chunk set; everything else reads snapshots.
type Store struct {
	backend kv.Store
	docID   string
	log     *slog.Logger
	tracer  trace.Tracer
}

// New creates a store for the given document over the given backend.
func New(backend kv.Store, docID string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		backend: backend,
		docID:   docID,
		log:     logger.With(slog.String("doc_id", docID)),
		tracer:  otel.Tracer(tracerName),
	}
}

func (s *Store) primaryKey(name string) string {
	return "doc/" + s.docID + "/" + name
}

func (s *Store) backupKey(name string) string {
	return "backup/" + s.docID + "/" + name
}

func (s *Store) chunkKey(i int) string {
	return s.primaryKey(fmt.Sprintf(chunkKeyFormat, i))
}

// Append inserts the commit at the head of the history (most-recent-first),
// re-chunks and writes the whole list, backs it up, and updates the meta
// record. Primary write failures are returned; the backup write and the
// chunk-0 read-back verification are best-effort.
func (s *Store) Append(ctx context.Context, c commit.Commit) (AppendReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "store.append")
	defer span.End()

	commits, err := s.LoadAll(ctx)
	if err != nil {
		return AppendReceipt{}, fmt.Errorf("append: load history: %w", err)
	}

	for i := range commits {
		if commits[i].ID == c.ID {
			return AppendReceipt{}, fmt.Errorf("%w: %s", ErrDuplicateCommitID, c.ID)
		}
	}

	commits = append([]commit.Commit{c}, commits...)

	chunkCount, err := s.writeChunks(ctx, commits)
	if err != nil {
		return AppendReceipt{}, err
	}

	verified := s.verifyHeadChunk(ctx, c.ID)
	if !verified {
		s.log.Warn("chunk read-back verification failed", slog.String("commit_id", c.ID))
	}

	backupErr := s.writeBackup(ctx, commits)
	if backupErr != nil {
		s.log.Warn("backup write failed", slog.Any("error", backupErr))
	}

	metaErr := s.writeMeta(ctx, commit.Meta{
		SchemaVersion: commit.SchemaVersion,
		Mode:          s.Mode(ctx),
		LastCommitID:  c.ID,
		ChunkCount:    chunkCount,
	})
	if metaErr != nil {
		return AppendReceipt{}, metaErr
	}

	return AppendReceipt{Verified: verified, ChunkCount: chunkCount}, nil
}

// LoadAll reads the full history, most-recent-first. Unreadable chunks are
// skipped (partial history); duplicate commit ids are collapsed keeping the
// first occurrence. When the primary namespace yields zero records but a
// backup exists, the backup is restored into the primary store and returned.
func (s *Store) LoadAll(ctx context.Context) ([]commit.Commit, error) {
	ctx, span := s.tracer.Start(ctx, "store.load_all")
	defer span.End()

	commits, err := s.loadPrimary(ctx)
	if err != nil {
		return nil, err
	}

	if len(commits) > 0 {
		return commits, nil
	}

	return s.restoreFromBackup(ctx)
}

// loadPrimary reads chunkCount chunks in order and normalizes each record
// through the codec. Per-chunk failures are logged and skipped.
func (s *Store) loadPrimary(ctx context.Context) ([]commit.Commit, error) {
	meta, err := s.Meta(ctx)
	if err != nil {
		return nil, err
	}

	var commits []commit.Commit

	for i := range meta.ChunkCount {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("load chunks: %w", ctxErr)
		}

		data, getErr := s.backend.Get(ctx, s.chunkKey(i))
		if getErr != nil {
			s.log.Warn("skipping unreadable chunk",
				slog.Int("chunk", i), slog.Any("error", getErr))

			continue
		}

		chunk, decodeErr := commit.DecodeRecords(data)
		if decodeErr != nil {
			s.log.Warn("skipping undecodable chunk",
				slog.Int("chunk", i), slog.Any("error", decodeErr))

			continue
		}

		commits = append(commits, chunk...)
	}

	return dedupeByID(commits, s.log), nil
}

// restoreFromBackup deserializes the redundant backup, re-persists it into
// the primary namespace (self-healing), and returns it. An empty backup
// yields an empty history, not an error.
func (s *Store) restoreFromBackup(ctx context.Context) ([]commit.Commit, error) {
	commits, err := s.readBackup(ctx)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}

		s.log.Warn("backup unreadable", slog.Any("error", err))

		return nil, nil
	}

	if len(commits) == 0 {
		return nil, nil
	}

	commits = dedupeByID(commits, s.log)

	s.log.Info("restoring history from backup", slog.Int("commits", len(commits)))

	chunkCount, writeErr := s.writeChunks(ctx, commits)
	if writeErr != nil {
		// Restore still succeeded from the reader's point of view.
		s.log.Warn("self-heal re-persist failed", slog.Any("error", writeErr))

		return commits, nil
	}

	// The versioning_mode key may be gone along with the primary namespace;
	// the informational mode field stays unset rather than recording the
	// default as if it had been configured.
	metaErr := s.writeMeta(ctx, commit.Meta{
		SchemaVersion: commit.SchemaVersion,
		LastCommitID:  commits[0].ID,
		ChunkCount:    chunkCount,
	})
	if metaErr != nil {
		s.log.Warn("self-heal meta write failed", slog.Any("error", metaErr))
	}

	return commits, nil
}

// MigrateBackupOnce copies the primary history into the backup namespace the
// first time it runs after deployment. Two independent guards precede any
// mutation: the persisted flag, then a backup-already-populated check (the
// flag write itself can be lost across restarts). Safe to call on every
// startup.
func (s *Store) MigrateBackupOnce(ctx context.Context) error {
	_, flagErr := s.backend.Get(ctx, s.backupKey(keyBackfillFlag))
	if flagErr == nil {
		return nil
	}

	_, backupErr := s.backend.Get(ctx, s.backupKey(keyBackup))
	if backupErr == nil {
		s.setBackfillFlag(ctx)

		return nil
	}

	commits, err := s.loadPrimary(ctx)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	if len(commits) > 0 {
		writeErr := s.writeBackup(ctx, commits)
		if writeErr != nil {
			return fmt.Errorf("backfill: %w", writeErr)
		}

		s.log.Info("backfilled backup namespace", slog.Int("commits", len(commits)))
	}

	s.setBackfillFlag(ctx)

	return nil
}

func (s *Store) setBackfillFlag(ctx context.Context) {
	err := s.backend.Set(ctx, s.backupKey(keyBackfillFlag), []byte("true"))
	if err != nil {
		s.log.Warn("backfill flag write failed", slog.Any("error", err))
	}
}

// SetFrameID back-fills the changelog frame reference on an existing commit.
// This is the single permitted mutation of a stored commit.
func (s *Store) SetFrameID(ctx context.Context, commitID, frameID string) error {
	commits, err := s.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("set frame id: %w", err)
	}

	found := false

	for i := range commits {
		if commits[i].ID == commitID {
			commits[i].ChangelogFrameID = frameID
			found = true

			break
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrCommitNotFound, commitID)
	}

	_, err = s.writeChunks(ctx, commits)
	if err != nil {
		return fmt.Errorf("set frame id: %w", err)
	}

	backupErr := s.writeBackup(ctx, commits)
	if backupErr != nil {
		s.log.Warn("backup write failed", slog.Any("error", backupErr))
	}

	return nil
}

// ClearPrimary deletes every key in the primary namespace. The backup
// namespace is untouched; a subsequent LoadAll restores from it.
func (s *Store) ClearPrimary(ctx context.Context) error {
	keys, err := s.backend.Keys(ctx, "doc/"+s.docID+"/")
	if err != nil {
		return fmt.Errorf("clear primary: %w", err)
	}

	for _, key := range keys {
		delErr := s.backend.Delete(ctx, key)
		if delErr != nil {
			return fmt.Errorf("clear primary: %w", delErr)
		}
	}

	return nil
}

// dedupeByID collapses duplicate commit ids, keeping the first occurrence.
// Observed duplicates are a recoverable storage-corruption signal.
func dedupeByID(commits []commit.Commit, log *slog.Logger) []commit.Commit {
	if len(commits) == 0 {
		return commits
	}

	seen := make(map[string]bool, len(commits))
	out := commits[:0:0]

	for _, c := range commits {
		if seen[c.ID] {
			log.Warn("discarding duplicate commit record",
				slog.String("commit_id", c.ID), slog.String("version", c.Version))

			continue
		}

		seen[c.ID] = true
		out = append(out, c)
	}

	return out
}
