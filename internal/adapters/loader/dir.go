// Package loader implements the load capability: staging cached artifacts
// where the host platform picks them up.
package loader

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Dir stages artifacts into a directory the host scans for libraries.
// Staging hard-links when possible and falls back to an atomic copy, so
// a scanner never observes a partially written jar.
type Dir struct {
	dir string
}

// NewDir creates a Dir loader staging into the given directory.
func NewDir(dir string) *Dir {
	return &Dir{dir: filepath.Clean(dir)}
}

// Load stages the artifact at path under the directory, keyed by file
// name. An already staged file is left alone.
func (d *Dir) Load(path string) error {
	if err := os.MkdirAll(d.dir, domain.DirPerm); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrLoadFailed.Error())
		return zerr.With(wrapped, "dir", d.dir)
	}

	dst := filepath.Join(d.dir, filepath.Base(path))
	if _, err := os.Lstat(dst); err == nil {
		return nil
	}

	if err := os.Link(path, dst); err == nil {
		return nil
	}

	// Hard links fail across filesystems and on some mounts; copy through
	// a sibling instead so the final name still appears in one step.
	if err := copyAtomic(path, dst); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrLoadFailed.Error())
		return zerr.With(wrapped, "artifact", path)
	}
	return nil
}

func copyAtomic(src, dst string) error {
	//nolint:gosec // Paths come from the manifest and the cache tree.
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := domain.TmpPath(dst)
	//nolint:gosec // Sibling of the destination, removed below.
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp) }()

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, dst)
}
