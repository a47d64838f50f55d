// Package app wires configuration, storage and collaborators into the
// objects the commands use.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"voxelcraft.ai/areas/internal/agents"
	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/config"
	"voxelcraft.ai/areas/internal/match"
	"voxelcraft.ai/areas/internal/notes"
	persistlog "voxelcraft.ai/areas/internal/persistence/log"
	"voxelcraft.ai/areas/internal/persistence/notedb"
	"voxelcraft.ai/areas/internal/scan"
	"voxelcraft.ai/areas/internal/world/store"
)

type App struct {
	Config   config.Config
	Registry *notes.Registry
	Scanner  *scan.Scanner
	World    *store.Store
	Agents   *agents.Tracker
	Matcher  *match.Matcher
	Log      *log.Logger

	db    *notedb.SQLiteStore
	audit *persistlog.NoteAuditLogger
}

// Open builds an App and loads the stored notes. An empty sqlite path keeps
// notes in memory only; an empty audit dir disables auditing.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		World:   store.New(cfg.Limits.MinY, cfg.World.ChunkHeight),
		Agents:  agents.NewTracker(),
		Matcher: match.New(),
		Log:     logger,
	}
	if p := strings.TrimSpace(cfg.World.Fixture); p != "" {
		fx, err := store.LoadFixture(p)
		if err != nil {
			return nil, fmt.Errorf("world fixture: %w", err)
		}
		if err := a.World.Apply(fx, reporter(logger)); err != nil {
			return nil, fmt.Errorf("world fixture %s: %w", p, err)
		}
	}
	a.Scanner = scan.NewScanner(cfg.ScanLimits(), a.World, a.Matcher, logger)

	opts := notes.Options{Log: logger}
	if p := cfg.Storage.SQLitePath; p != "" {
		db, err := notedb.OpenSQLite(p)
		if err != nil {
			return nil, err
		}
		a.db = db
		opts.Store = db
	}
	if d := cfg.Storage.AuditDir; d != "" {
		a.audit = persistlog.NewNoteAuditLogger(d)
		opts.Audit = a.audit
	}
	a.Registry = notes.NewRegistry(opts)
	n, err := a.Registry.Load(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if logger != nil && n > 0 {
		logger.Printf("loaded %d notes", n)
	}
	return a, nil
}

// Feed returns the agent feed configured by agents.feed_url, or nil.
func (a *App) Feed() *agents.Feed {
	if a.Config.Agents.FeedURL == "" {
		return nil
	}
	return &agents.Feed{URL: a.Config.Agents.FeedURL, Tracker: a.Agents, Log: a.Log}
}

// Resolve looks text up as a note name, then parses it as an encoding.
func (a *App) Resolve(text string) (area.Area, error) {
	ar, ok := a.Registry.Resolve(text, reporter(a.Log))
	if !ok {
		return ar, fmt.Errorf("%q is neither a note nor a valid area", text)
	}
	return ar, nil
}

// History returns audited changes, optionally for one note. It fails when
// no audit dir is configured.
func (a *App) History(name string) ([]notes.Event, error) {
	if a.audit == nil {
		return nil, errors.New("storage.audit_dir is not configured")
	}
	return persistlog.ReadNoteEvents(a.audit.Dir(), name)
}

func (a *App) Close() error {
	var errs []error
	if a.audit != nil {
		errs = append(errs, a.audit.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func reporter(l *log.Logger) area.Reporter {
	if l == nil {
		return nil
	}
	return l
}
