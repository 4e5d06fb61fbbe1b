package resolve

import "go.trai.ch/jarl/internal/core/domain"

// Resolver produces the ordered candidate URLs for an artifact: its direct
// download URLs first, then one URL per configured repository.
type Resolver struct {
	repos *Repositories
}

// New creates a Resolver consulting the given repository list.
func New(repos *Repositories) *Resolver {
	return &Resolver{repos: repos}
}

// Resolve returns every candidate URL for the artifact in the order they
// should be tried. The result may be empty, and URLs appearing both directly
// and via a repository are not deduplicated; the fetch loop stops at the
// first success anyway.
func (r *Resolver) Resolve(a domain.Artifact) []string {
	urls := a.URLs()
	for _, repo := range r.repos.All() {
		urls = append(urls, repo+a.Path())
	}
	return urls
}
