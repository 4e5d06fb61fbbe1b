// Package cache implements the presence-addressed artifact cache.
//
// A cache entry is the artifact file itself at its repository-relative path
// below the cache root. There is no index and no metadata: the presence of
// the file is the cache. Writes go to a temporary sibling first and are
// published with an atomic rename, so readers never observe partial content.
package cache

import (
	"os"
	"path/filepath"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store addresses artifacts below a single cache root directory.
type Store struct {
	root string
}

// New creates a Store rooted at the lib directory below dataDir.
func New(dataDir string) *Store {
	return &Store{root: filepath.Clean(domain.CachePath(dataDir))}
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the absolute location of a repository-relative artifact path.
func (s *Store) Path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// TmpPath returns the in-flight sibling of the artifact's cache location.
func (s *Store) TmpPath(rel string) string {
	return domain.TmpPath(s.Path(rel))
}

// Exists reports whether the artifact is present in the cache.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// Prepare creates the directory that will hold the artifact. It is
// idempotent and safe to call concurrently.
func (s *Store) Prepare(rel string) error {
	dir := filepath.Dir(s.Path(rel))
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrCacheCreate.Error())
		return zerr.With(wrapped, "dir", dir)
	}
	return nil
}

// Commit publishes artifact content at its cache location. The bytes are
// written to the temporary sibling and renamed into place, so a crash or
// failure never leaves a partial artifact at the final path. The temporary
// sibling is removed on every exit path.
func (s *Store) Commit(rel string, data []byte) (string, error) {
	if err := s.Prepare(rel); err != nil {
		return "", err
	}

	tmp := s.TmpPath(rel)
	defer s.Discard(rel)

	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrCacheCommit.Error())
		return "", zerr.With(wrapped, "path", tmp)
	}
	return s.Promote(rel)
}

// Promote renames the temporary sibling onto the final cache location. It is
// used by writers that stream into TmpPath themselves.
func (s *Store) Promote(rel string) (string, error) {
	path := s.Path(rel)
	if err := os.Rename(s.TmpPath(rel), path); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrCacheCommit.Error())
		return "", zerr.With(wrapped, "path", path)
	}
	return path, nil
}

// Discard removes the temporary sibling if present. Best effort: a sibling
// that cannot be removed is swept by a later clean.
func (s *Store) Discard(rel string) {
	_ = os.Remove(s.TmpPath(rel))
}

// Clean removes the entire cache root.
func (s *Store) Clean() error {
	if err := os.RemoveAll(s.root); err != nil {
		return zerr.Wrap(err, "cannot remove cache root")
	}
	return nil
}
