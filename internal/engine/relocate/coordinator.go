// Package relocate produces namespace-relocated variants of cached artifacts.
//
// The actual rewriting is done by an external engine behind ports.Relocator.
// The engine's own dependencies are ordinary artifacts fetched through the
// same pipeline as everything else, so the first relocation in a process
// triggers a bootstrap download; afterwards the engine handle is shared.
package relocate

import (
	"context"
	"sync"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
	"go.trai.ch/jarl/internal/engine/cache"
	"go.trai.ch/jarl/internal/engine/fetch"
	"go.trai.ch/zerr"
)

// EngineFactory builds the relocation engine from its freshly fetched
// dependency jars, given in load order.
type EngineFactory func(jars []string) (ports.Relocator, error)

// Coordinator caches relocated artifact variants. It is safe for concurrent
// use; the engine is bootstrapped at most once per process, and a failed
// bootstrap is retried on the next relocation.
type Coordinator struct {
	store   *cache.Store
	fetcher *fetch.Fetcher
	factory EngineFactory

	mu     sync.Mutex
	engine ports.Relocator
	deps   []domain.Artifact
}

// New creates a Coordinator writing relocated variants into store and
// provisioning the engine's dependencies through fetcher.
func New(store *cache.Store, fetcher *fetch.Fetcher, factory EngineFactory) *Coordinator {
	return &Coordinator{
		store:   store,
		fetcher: fetcher,
		factory: factory,
	}
}

// Ensure returns the cache path of the artifact's relocated variant,
// producing it first if it is not already present. The unrelocated input at
// in is never modified. Artifacts without relocation rules pass through.
func (c *Coordinator) Ensure(ctx context.Context, a domain.Artifact, in string) (string, error) {
	rel := a.RelocatedPath()
	if rel == "" {
		return in, nil
	}
	if c.store.Exists(rel) {
		return c.store.Path(rel), nil
	}

	engine, err := c.engineHandle(ctx)
	if err != nil {
		return "", err
	}

	if err := c.store.Prepare(rel); err != nil {
		return "", err
	}
	defer c.store.Discard(rel)

	if err := engine.Relocate(ctx, in, c.store.TmpPath(rel), a.Relocations()); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrRelocation.Error())
		return "", zerr.With(wrapped, "artifact", a.String())
	}
	return c.store.Promote(rel)
}

// Bootstrap provisions the relocation engine eagerly. Callers that know
// relocations are coming can front-load the engine download; otherwise the
// first relocation pays for it.
func (c *Coordinator) Bootstrap(ctx context.Context) error {
	_, err := c.engineHandle(ctx)
	return err
}

// engineHandle returns the shared engine, bootstrapping it on first use.
// The lock is held across the bootstrap so concurrent first relocations
// download the engine dependencies exactly once. On failure the handle
// stays unset and the next call starts over.
func (c *Coordinator) engineHandle(ctx context.Context) (ports.Relocator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != nil {
		return c.engine, nil
	}

	deps, err := c.bootstrapArtifacts()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEngineBootstrap.Error())
	}

	jars := make([]string, 0, len(deps))
	for _, dep := range deps {
		jar, err := c.fetcher.Fetch(ctx, dep)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrEngineBootstrap.Error())
		}
		jars = append(jars, jar)
	}

	engine, err := c.factory(jars)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEngineBootstrap.Error())
	}
	c.engine = engine
	return c.engine, nil
}

// bootstrapArtifacts returns the pinned engine dependencies in load order.
func (c *Coordinator) bootstrapArtifacts() ([]domain.Artifact, error) {
	if c.deps != nil {
		return c.deps, nil
	}

	pinned := []struct {
		group    string
		name     string
		version  string
		checksum string
	}{
		{"org.ow2.asm", "asm-commons", "6.0", "8bzlxkipagF73NAf5dWa+YRSl/17ebgcAVpvu9lxmr8="},
		{"org.ow2.asm", "asm", "6.0", "3Ylxx0pOaXiZqOlcquTqh2DqbEhtxrl7F5XnV2BCBGE="},
		{"me.lucko", "jar-relocator", "1.3", "mmz3ltQbS8xXGA2scM0ZH6raISlt4nukjCiU2l9Jxfs="},
	}

	deps := make([]domain.Artifact, 0, len(pinned))
	for _, p := range pinned {
		a, err := domain.NewArtifact().
			Group(p.group).
			Name(p.name).
			Version(p.version).
			ChecksumBase64(p.checksum).
			Build()
		if err != nil {
			return nil, err
		}
		deps = append(deps, a)
	}
	c.deps = deps
	return c.deps, nil
}
