package relocate

import "go.trai.ch/jarl/internal/core/domain"

// SetEngineDependenciesForTest overrides the pinned engine dependencies so
// tests can serve them from fake transports.
func (c *Coordinator) SetEngineDependenciesForTest(deps []domain.Artifact) {
	c.deps = deps
}

// EngineDependenciesForTest exports the pinned engine dependency list.
func (c *Coordinator) EngineDependenciesForTest() ([]domain.Artifact, error) {
	return c.bootstrapArtifacts()
}
