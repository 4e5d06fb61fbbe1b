package app

import (
	"context"
	"fmt"
	"os"

	"go.trai.ch/jarl/internal/adapters/loader"
	"go.trai.ch/jarl/internal/adapters/telemetry"
	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
	"go.trai.ch/jarl/internal/engine/cache"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	telemetry    ports.Telemetry

	manifestPath string
	dataDir      string
	level        *domain.LogLevel
	managerOpts  []ManagerOption
}

// New creates a new App instance.
func New(configLoader ports.ConfigLoader, log ports.Logger, tel ports.Telemetry) *App {
	return &App{
		configLoader: configLoader,
		logger:       log,
		telemetry:    tel,
	}
}

// WithManagerOptions forwards options to every Manager the App assembles.
// This is primarily used for testing to substitute transports and engines.
func (a *App) WithManagerOptions(opts ...ManagerOption) *App {
	a.managerOpts = append(a.managerOpts, opts...)
	return a
}

// SetManifestPath pins the manifest location instead of discovering it.
func (a *App) SetManifestPath(path string) {
	a.manifestPath = path
}

// SetDataDir overrides the data directory declared in the manifest.
func (a *App) SetDataDir(dir string) {
	a.dataDir = dir
}

// SetLogLevel fixes the log verbosity, overriding the manifest setting.
func (a *App) SetLogLevel(level domain.LogLevel) {
	a.level = &level
	a.logger.SetLevel(level)
}

// SetPlain replaces the progress renderer with plain log lines.
func (a *App) SetPlain() {
	a.telemetry = telemetry.NewNoOp()
}

// FetchOptions configuration for the Fetch method.
type FetchOptions struct {
	Jobs int
}

// SyncOptions configuration for the Sync method.
type SyncOptions struct {
	Jobs int
}

// Fetch downloads the named manifest libraries into the cache, without
// staging anything. With no names every library is fetched.
func (a *App) Fetch(ctx context.Context, names []string, opts FetchOptions) error {
	manifest, manager, err := a.session()
	if err != nil {
		return err
	}

	artifacts, err := manifest.Select(names)
	if err != nil {
		return err
	}
	return manager.FetchAll(ctx, artifacts, opts.Jobs)
}

// Sync provisions the named manifest libraries end to end: fetch, relocate,
// and hand over to the configured load target. With no names every library
// is synced.
func (a *App) Sync(ctx context.Context, names []string, opts SyncOptions) error {
	manifest, manager, err := a.session()
	if err != nil {
		return err
	}

	artifacts, err := manifest.Select(names)
	if err != nil {
		return err
	}
	return manager.Sync(ctx, artifacts, opts.Jobs)
}

// Clean removes the artifact cache below the data directory.
func (a *App) Clean(_ context.Context) error {
	dataDir := a.dataDir
	if dataDir == "" {
		manifest, err := a.loadManifest()
		if err != nil {
			return err
		}
		dataDir = manifest.DataDir
	}

	store := cache.New(dataDir)
	a.logger.Info(fmt.Sprintf("removing %s...", store.Root()))
	if err := store.Clean(); err != nil {
		return zerr.Wrap(err, "failed to remove artifact cache")
	}
	a.logger.Info("removed artifact cache")
	return nil
}

// session loads the manifest and assembles a Manager configured from it.
func (a *App) session() (*domain.Manifest, *Manager, error) {
	manifest, err := a.loadManifest()
	if err != nil {
		return nil, nil, err
	}

	if a.level == nil {
		a.logger.SetLevel(manifest.Level)
	}

	dataDir := manifest.DataDir
	if a.dataDir != "" {
		dataDir = a.dataDir
	}

	opts := make([]ManagerOption, 0, len(a.managerOpts)+1)
	if target := targetLoader(manifest.Target); target != nil {
		opts = append(opts, WithLoader(target))
	}
	opts = append(opts, a.managerOpts...)

	manager := NewManager(dataDir, a.logger, a.telemetry, opts...)
	for _, repo := range manifest.Repositories {
		manager.AddRepository(repo)
	}
	return manifest, manager, nil
}

func (a *App) loadManifest() (*domain.Manifest, error) {
	if a.manifestPath != "" {
		manifest, err := a.configLoader.LoadFile(a.manifestPath)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to load manifest")
		}
		return manifest, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "cannot determine working directory")
	}
	manifest, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	return manifest, nil
}

// targetLoader builds the staging adapter for the manifest load target, or
// nil when the manifest declares none.
func targetLoader(target domain.LoadTarget) ports.Loader {
	switch target.Kind {
	case domain.LoadTargetDir:
		return loader.NewDir(target.Path)
	case domain.LoadTargetArgfile:
		return loader.NewArgfile(target.Path)
	default:
		return nil
	}
}
