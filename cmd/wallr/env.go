package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/config"
	"github.com/pders01/wallr/internal/debuglog"
	"github.com/pders01/wallr/internal/favorites"
	"github.com/pders01/wallr/internal/local"
	"github.com/pders01/wallr/internal/media"
	"github.com/pders01/wallr/internal/search"
	"github.com/pders01/wallr/internal/storage"
	"github.com/pders01/wallr/internal/tags"
	"github.com/pders01/wallr/internal/validation"
)

// env is everything a command needs, opened from the loaded config.
type env struct {
	cfg       *config.Config
	store     *storage.Store
	client    *catalog.Client
	favs      *favorites.Synchronizer
	suggester search.Suggester
	tags      *tags.Manager
	launcher  *media.Launcher
	lister    *local.Lister
}

func newEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if err := setupLogging(cfg.Log); err != nil {
		return nil, err
	}
	return openEnv(ctx, cfg)
}

func setupLogging(cfg config.LogConfig) error {
	if verbose {
		debuglog.SetOutput(os.Stderr, debuglog.LevelDebug)
		return nil
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Level), cfg.File); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	return nil
}

// openEnv wires the collaborators that need no database. Long-lived
// goroutines are started by the callers.
func openEnv(ctx context.Context, cfg *config.Config) (*env, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Self-hosted mirrors may live on the local network.
	urls := validation.NewPermissiveURLValidator()
	baseURL, err := urls.ValidateAndNormalize(cfg.Catalog.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base_url: %w", err)
	}
	siteURL, err := urls.ValidateAndNormalize(cfg.Catalog.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog site_url: %w", err)
	}

	client, err := catalog.NewClient(catalog.Options{
		BaseURL:       baseURL,
		SiteURL:       siteURL,
		UserAgent:     cfg.Catalog.UserAgent,
		Timeout:       cfg.Catalog.HTTPTimeout,
		Retries:       cfg.Catalog.Retries,
		MaxConcurrent: cfg.Catalog.MaxConcurrent,
	})
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:      cfg,
		client:   client,
		launcher: media.NewLauncher(cfg.Media),
	}

	if cfg.Local.Directory != "" {
		lister, err := local.NewLister(cfg.Local.Directory)
		if err != nil {
			debuglog.Warnf("local: %v", err)
		} else {
			e.lister = lister
		}
	}

	debuglog.WithFields(map[string]any{
		"catalog": baseURL,
		"viewer":  e.launcher.Viewer(),
	}).Debugf("environment ready")
	return e, nil
}

// openStore opens the database and the collaborators that depend on it.
// bbolt locks the file, so commands that only talk to the catalog never
// call it and can run next to an open TUI.
func (e *env) openStore() error {
	if e.store != nil {
		return nil
	}
	path, err := validation.ValidateFile(e.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}
	store, err := storage.NewStore(path, e.cfg.Database.Timeout)
	if err != nil {
		return err
	}

	e.store = store
	e.favs = favorites.NewSynchronizer(store)
	e.suggester = openSuggester(e.cfg.Database.TagIndex)
	e.tags = tags.NewManager(e.client, store, e.suggester, e.cfg.Catalog.TagsTTL)
	debuglog.WithFields(map[string]any{
		"db":        path,
		"tag_index": e.cfg.Database.TagIndex,
	}).Debugf("store opened")
	return nil
}

// openSuggester prefers the on-disk index and falls back to memory when it
// is disabled or cannot be opened.
func openSuggester(indexPath string) search.Suggester {
	if indexPath == "" {
		return search.NewMemorySuggester()
	}
	s, err := search.NewBleveSuggester(indexPath)
	if err != nil {
		debuglog.Warnf("search: opening tag index %s: %v; using memory index", indexPath, err)
		return search.NewMemorySuggester()
	}
	return s
}

func (e *env) Close() {
	if e.suggester != nil {
		if err := e.suggester.Close(); err != nil {
			debuglog.Warnf("search: closing tag index: %v", err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			debuglog.Warnf("storage: closing database: %v", err)
		}
	}
	if err := debuglog.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing log file: %v\n", err)
	}
}
