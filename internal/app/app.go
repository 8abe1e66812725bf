// Package app wires configuration into the pipeline services shared by the
// server and the command line.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/trendify/internal/artifactstore"
	"github.com/rpggio/trendify/internal/config"
	"github.com/rpggio/trendify/internal/domain/activity"
	"github.com/rpggio/trendify/internal/domain/regression"
	"github.com/rpggio/trendify/internal/domain/session"
	"github.com/rpggio/trendify/internal/ols"
	"github.com/rpggio/trendify/internal/plot"
	"github.com/rpggio/trendify/internal/sqlite"
	"github.com/rpggio/trendify/internal/tabular"
)

// App holds the wired services. Activity is nil when no journal is
// configured.
type App struct {
	Sessions *session.Service
	Activity *activity.Service
	Store    *artifactstore.FileStore

	db *sqlite.DB
}

// New opens the journal (when cfg.Journal.Path is set) and builds the
// session service.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	codec, err := artifactstore.ParseCodec(cfg.Artifact.Codec)
	if err != nil {
		return nil, err
	}

	a := &App{Store: artifactstore.NewFileStore(codec, logger)}
	deps := session.Dependencies{
		Reader:  tabular.NewReader(logger),
		Fitter:  regression.NewFitter(ols.New(), cfg.Model.Precision),
		Plotter: plot.New(cfg.Plot.Width, cfg.Plot.Height),
		Store:   a.Store,
		PlotDir: cfg.Plot.Dir,
	}

	if cfg.Journal.Path != "" {
		if err := ensureDBDir(cfg.Journal.Path); err != nil {
			return nil, fmt.Errorf("preparing journal path: %w", err)
		}
		db, err := sqlite.New(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrating journal: %w", err)
		}
		a.db = db
		a.Activity = activity.NewService(sqlite.NewActivityRepository(db), logger)
		deps.Journal = a.Activity
	}

	a.Sessions = session.NewService(deps, logger)
	return a, nil
}

// Close releases the journal database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
