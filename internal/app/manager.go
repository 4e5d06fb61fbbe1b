// Package app implements the application layer for jarl.
package app

import (
	"context"
	"net/http"
	"runtime"

	execrelocate "go.trai.ch/jarl/internal/adapters/relocate"
	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
	"go.trai.ch/jarl/internal/engine/cache"
	"go.trai.ch/jarl/internal/engine/fetch"
	"go.trai.ch/jarl/internal/engine/relocate"
	"go.trai.ch/jarl/internal/engine/resolve"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Manager provisions artifacts below a data directory: it downloads them
// into the cache, produces relocated variants and hands the results to the
// platform loader. It is safe for concurrent use.
type Manager struct {
	repos       *resolve.Repositories
	store       *cache.Store
	fetcher     *fetch.Fetcher
	coordinator *relocate.Coordinator
	loader      ports.Loader
	telemetry   ports.Telemetry
}

type managerConfig struct {
	loader  ports.Loader
	client  *http.Client
	factory relocate.EngineFactory
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

// WithLoader sets the platform loader that Load hands artifacts to.
func WithLoader(l ports.Loader) ManagerOption {
	return func(cfg *managerConfig) {
		cfg.loader = l
	}
}

// WithHTTPClient replaces the download client. Used for testing and custom
// transports.
func WithHTTPClient(client *http.Client) ManagerOption {
	return func(cfg *managerConfig) {
		cfg.client = client
	}
}

// WithEngineFactory replaces how the relocation engine is built from its
// fetched dependency jars. The default spawns a JVM child process.
func WithEngineFactory(factory relocate.EngineFactory) ManagerOption {
	return func(cfg *managerConfig) {
		cfg.factory = factory
	}
}

// NewManager creates a Manager caching below dataDir. The repository list
// starts empty; artifacts resolve only through their direct URLs until
// repositories are added.
func NewManager(dataDir string, log ports.Logger, tel ports.Telemetry, opts ...ManagerOption) *Manager {
	cfg := &managerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	store := cache.New(dataDir)
	repos := resolve.NewRepositories()

	var fetchOpts []fetch.Option
	if cfg.client != nil {
		fetchOpts = append(fetchOpts, fetch.WithClient(cfg.client))
	}
	fetcher := fetch.New(store, resolve.New(repos), log, fetchOpts...)

	factory := cfg.factory
	if factory == nil {
		factory = func(jars []string) (ports.Relocator, error) {
			return execrelocate.New(log, jars), nil
		}
	}

	return &Manager{
		repos:       repos,
		store:       store,
		fetcher:     fetcher,
		coordinator: relocate.New(store, fetcher, factory),
		loader:      cfg.loader,
		telemetry:   tel,
	}
}

// AddRepository appends a repository base URL to the lookup order.
func (m *Manager) AddRepository(baseURL string) {
	m.repos.Add(baseURL)
}

// AddMavenCentral appends the Maven Central repository.
func (m *Manager) AddMavenCentral() {
	m.repos.Add(resolve.MavenCentralURL)
}

// AddSonatype appends the Sonatype OSS repository.
func (m *Manager) AddSonatype() {
	m.repos.Add(resolve.SonatypeURL)
}

// AddJCenter appends the Bintray JCenter repository.
func (m *Manager) AddJCenter() {
	m.repos.Add(resolve.JCenterURL)
}

// AddJitPack appends the JitPack repository.
func (m *Manager) AddJitPack() {
	m.repos.Add(resolve.JitPackURL)
}

// AddMavenLocal appends the current user's local Maven repository.
func (m *Manager) AddMavenLocal() error {
	u, err := resolve.MavenLocalURL()
	if err != nil {
		return err
	}
	m.repos.Add(u)
	return nil
}

// Fetch downloads the artifact into the cache and returns its path. A cache
// hit returns immediately without network traffic.
func (m *Manager) Fetch(ctx context.Context, a domain.Artifact) (string, error) {
	ctx, vertex := m.telemetry.Record(ctx, a.String())
	if m.store.Exists(a.Path()) {
		vertex.Cached()
	}
	path, err := m.fetcher.Fetch(ctx, a)
	vertex.Complete(err)
	return path, err
}

// Load provisions the artifact end to end: fetch, relocate when rules are
// declared, then hand the result to the platform loader.
func (m *Manager) Load(ctx context.Context, a domain.Artifact) error {
	ctx, vertex := m.telemetry.Record(ctx, a.String())
	if m.provisioned(a) {
		vertex.Cached()
	}
	err := m.load(ctx, a)
	vertex.Complete(err)
	return err
}

func (m *Manager) load(ctx context.Context, a domain.Artifact) error {
	if m.loader == nil {
		return zerr.With(domain.ErrNoLoadTarget, "artifact", a.String())
	}

	path, err := m.fetcher.Fetch(ctx, a)
	if err != nil {
		return err
	}

	path, err = m.coordinator.Ensure(ctx, a, path)
	if err != nil {
		return err
	}

	// Loader adapters wrap their failures in ErrLoadFailed themselves.
	if err := m.loader.Load(path); err != nil {
		return zerr.With(err, "artifact", a.String())
	}
	return nil
}

// provisioned reports whether every file the load needs is already cached.
func (m *Manager) provisioned(a domain.Artifact) bool {
	if !m.store.Exists(a.Path()) {
		return false
	}
	rel := a.RelocatedPath()
	return rel == "" || m.store.Exists(rel)
}

// Sync provisions the given artifacts concurrently with at most jobs in
// flight. The first failure cancels the remaining work; commits that already
// happened stay in the cache.
func (m *Manager) Sync(ctx context.Context, artifacts []domain.Artifact, jobs int) error {
	if err := m.prepareEngine(ctx, artifacts); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeJobs(jobs))
	for _, a := range artifacts {
		g.Go(func() error {
			return m.Load(ctx, a)
		})
	}
	return g.Wait()
}

// FetchAll downloads the given artifacts concurrently with at most jobs in
// flight, without staging anything.
func (m *Manager) FetchAll(ctx context.Context, artifacts []domain.Artifact, jobs int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeJobs(jobs))
	for _, a := range artifacts {
		g.Go(func() error {
			_, err := m.Fetch(ctx, a)
			return err
		})
	}
	return g.Wait()
}

// prepareEngine bootstraps the relocation engine before the loads fan out
// when any artifact declares relocation rules. The engine download then runs
// under its own vertex.
func (m *Manager) prepareEngine(ctx context.Context, artifacts []domain.Artifact) error {
	needed := false
	for _, a := range artifacts {
		if a.HasRelocations() {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	ctx, vertex := m.telemetry.Record(ctx, "relocation engine", ports.WithInternal())
	err := m.coordinator.Bootstrap(ctx)
	vertex.Complete(err)
	return err
}

// A jobs value below one means one worker per CPU.
func normalizeJobs(jobs int) int {
	if jobs < 1 {
		return runtime.NumCPU()
	}
	return jobs
}
