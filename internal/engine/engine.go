// Package engine orchestrates commit creation: deduplicate fetched feedback
// against full history, sequence the version label, assemble the commit
// record, and append it to the store. One create runs at a time; analytics
// and histogram reads work on snapshots and tolerate weak consistency.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
	"github.com/Sumatoshi-tech/designlog/internal/dedup"
	"github.com/Sumatoshi-tech/designlog/internal/feedback"
	"github.com/Sumatoshi-tech/designlog/internal/store"
	"github.com/Sumatoshi-tech/designlog/internal/versioning"
)

// tracerName identifies spans emitted by this package.
const tracerName = "designlog/engine"

// ErrCreateInProgress is reported when a second create is requested while
// one is still running. Creates are serialized; the caller retries after
// the in-flight one completes.
var ErrCreateInProgress = errors.New("engine: commit creation already in progress")

// CreateRequest carries the caller-supplied parts of a new commit.
// Structural metric counts are computed by the host's scene collaborator
// and supplied here pre-computed.
type CreateRequest struct {
	Title            string
	Description      string
	Author           commit.Author
	Increment        versioning.Increment
	Annotations      []commit.Annotation
	Metrics          commit.Metrics
	DevStatusChanges []commit.DevStatusChange
}

// CreateResult is the distinguishable outcome of a create. Failures that
// affect the action land here as Success=false rather than aborting the
// session; best-effort subsystem failures surface only as warnings.
type CreateResult struct {
	Success         bool
	Commit          *commit.Commit
	Error           string
	FeedbackWarning string
	Verified        bool
}

// Engine drives the commit-creation flow for one document.
type Engine struct {
	store  *store.Store
	source feedback.Source
	docID  string
	log    *slog.Logger
	tracer trace.Tracer

	// createMu serializes creates; TryLock expresses the one-in-flight
	// rule without queueing.
	createMu sync.Mutex

	now   func() time.Time
	newID func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides commit id generation, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New creates an engine over the given store and feedback source.
func New(st *store.Store, source feedback.Source, docID string, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		store:  st,
		source: source,
		docID:  docID,
		log:    logger.With(slog.String("doc_id", docID)),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateCommit runs the full creation sequence: fetch feedback, filter it
// against the entire prior history, sequence the next version label, and
// append the assembled record. A second call while one is in flight fails
// immediately with ErrCreateInProgress in the result.
func (e *Engine) CreateCommit(ctx context.Context, req CreateRequest) CreateResult {
	if !e.createMu.TryLock() {
		return CreateResult{Error: ErrCreateInProgress.Error()}
	}
	defer e.createMu.Unlock()

	ctx, span := e.tracer.Start(ctx, "engine.create_commit")
	defer span.End()

	history, err := e.store.LoadAll(ctx)
	if err != nil {
		return CreateResult{Error: "load history: " + err.Error()}
	}

	var warning string

	fetched := e.source.FetchComments(ctx, e.docID)
	if !fetched.Success {
		// Commit creation proceeds with zero new comments; the reason is
		// kept for display.
		warning = fetched.Error
		e.log.Warn("proceeding without comments", slog.String("reason", fetched.Error))
	}

	newComments := dedup.FilterNewComments(fetched.Comments, history)
	newAnnotations := dedup.FilterNewAnnotations(req.Annotations, history)

	mode := e.store.Mode(ctx)

	// The current_version key can be lost when the primary namespace is
	// cleared and restored from backup; the head commit's label keeps the
	// sequence monotonic.
	prior := e.store.CurrentVersion(ctx)
	if prior == "" && len(history) > 0 {
		prior = history[0].Version
	}

	version := versioning.Next(prior, mode, req.Increment, e.now())

	metrics := req.Metrics
	metrics.FeedbackCount = len(newComments) + len(newAnnotations)
	metrics.Deltas = deltasAgainstHead(metrics, history)

	newCommit := commit.Commit{
		ID:               e.newID(),
		Version:          version,
		Title:            req.Title,
		Description:      req.Description,
		Author:           req.Author,
		Timestamp:        e.now(),
		Comments:         newComments,
		Annotations:      newAnnotations,
		Metrics:          metrics,
		DevStatusChanges: req.DevStatusChanges,
	}

	receipt, err := e.store.Append(ctx, newCommit)
	if err != nil {
		return CreateResult{Error: "append commit: " + err.Error(), FeedbackWarning: warning}
	}

	versionErr := e.store.SetCurrentVersion(ctx, version)
	if versionErr != nil {
		e.log.Warn("current version write failed", slog.Any("error", versionErr))
	}

	e.log.Info("commit created",
		slog.String("commit_id", newCommit.ID),
		slog.String("version", version),
		slog.Int("comments", len(newComments)),
		slog.Int("annotations", len(newAnnotations)))

	return CreateResult{
		Success:         true,
		Commit:          &newCommit,
		FeedbackWarning: warning,
		Verified:        receipt.Verified,
	}
}

// AttachFrame back-fills the rendered changelog frame reference on a commit
// after the rendering collaborator reports success.
func (e *Engine) AttachFrame(ctx context.Context, commitID, frameID string) error {
	return e.store.SetFrameID(ctx, commitID, frameID)
}

// History returns a snapshot of the full commit list, most-recent-first.
func (e *Engine) History(ctx context.Context) ([]commit.Commit, error) {
	return e.store.LoadAll(ctx)
}

// deltasAgainstHead computes structural count changes versus the most
// recent prior commit, nil when there is no baseline.
func deltasAgainstHead(metrics commit.Metrics, history []commit.Commit) *commit.MetricsDeltas {
	if len(history) == 0 {
		return nil
	}

	prev := history[0].Metrics

	return &commit.MetricsDeltas{
		Nodes:      metrics.TotalNodes - prev.TotalNodes,
		Frames:     metrics.FrameCount - prev.FrameCount,
		Components: metrics.ComponentCount - prev.ComponentCount,
		Instances:  metrics.InstanceCount - prev.InstanceCount,
		Texts:      metrics.TextCount - prev.TextCount,
	}
}
