// Package commands implements the designlog CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Sumatoshi-tech/designlog/internal/config"
	"github.com/Sumatoshi-tech/designlog/internal/engine"
	"github.com/Sumatoshi-tech/designlog/internal/feedback"
	"github.com/Sumatoshi-tech/designlog/internal/kv"
	"github.com/Sumatoshi-tech/designlog/internal/store"
	"github.com/Sumatoshi-tech/designlog/pkg/observability"
)

// serviceName is the service attribute on log records.
const serviceName = "designlog"

// ErrNoDocument is returned when no document id is configured.
var ErrNoDocument = errors.New("document id is required (flag --document or config)")

// GlobalFlags holds root-level flags shared by all subcommands.
type GlobalFlags struct {
	ConfigPath string
	Document   string
	Verbose    bool
	JSONLogs   bool
}

// App bundles the wired-up core for one CLI invocation.
type App struct {
	Config *config.Config
	Store  *store.Store
	Engine *engine.Engine
	Log    *slog.Logger

	backend *kv.Badger
}

// OpenApp loads configuration, opens the backend, and wires the store and
// engine. The one-time backup backfill runs here; its failure is logged,
// never fatal.
func OpenApp(ctx context.Context, flags *GlobalFlags) (*App, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	docID := cfg.Document
	if flags.Document != "" {
		docID = flags.Document
	}

	if docID == "" {
		return nil, ErrNoDocument
	}

	level := slog.LevelInfo
	if flags.Verbose {
		level = slog.LevelDebug
	}

	format := observability.FormatText
	if flags.JSONLogs {
		format = observability.FormatJSON
	}

	log := observability.NewLogger(os.Stderr, level, format, serviceName)

	kvCfg := kv.DefaultConfig(cfg.Storage.Dir)
	if cfg.Storage.InMemory {
		kvCfg = kv.InMemoryConfig()
	}

	kvCfg.Logger = log

	backend, err := kv.OpenBadger(kvCfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	st := store.New(backend, docID, log)

	migrateErr := st.MigrateBackupOnce(ctx)
	if migrateErr != nil {
		log.Warn("backup backfill failed", slog.Any("error", migrateErr))
	}

	token := cfg.Feedback.Token
	if token == "" {
		token = st.PAT(ctx)
	}

	source := feedback.NewHTTPSource(cfg.Feedback.Endpoint, token, log)
	eng := engine.New(st, source, docID, log)

	return &App{
		Config:  cfg,
		Store:   st,
		Engine:  eng,
		Log:     log,
		backend: backend,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.backend.Close()
}
