package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/zerr"
)

// Argfile records artifact paths in a newline-separated file, suitable as
// a java @argfile or for any launcher that consumes a path list. Paths
// are stored absolute and recorded at most once.
type Argfile struct {
	path string
	mu   sync.Mutex
}

// NewArgfile creates an Argfile loader writing to the given file.
func NewArgfile(path string) *Argfile {
	return &Argfile{path: filepath.Clean(path)}
}

// Load appends the artifact's absolute path to the file. The file is
// rewritten atomically and an already recorded path is a no-op.
func (a *Argfile) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		wrapped := zerr.Wrap(err, domain.ErrLoadFailed.Error())
		return zerr.With(wrapped, "artifact", path)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(a.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		wrapped := zerr.Wrap(err, domain.ErrLoadFailed.Error())
		return zerr.With(wrapped, "argfile", a.path)
	}

	content := string(data)
	for _, line := range strings.Split(content, "\n") {
		if line == abs {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(a.path), domain.DirPerm); err != nil {
		wrapped := zerr.Wrap(err, domain.ErrLoadFailed.Error())
		return zerr.With(wrapped, "argfile", a.path)
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += abs + "\n"

	tmp := domain.TmpPath(a.path)
	//nolint:gosec // Sibling of the argfile, replaced by the rename below.
	if err := os.WriteFile(tmp, []byte(content), domain.FilePerm); err != nil {
		_ = os.Remove(tmp)
		wrapped := zerr.Wrap(err, domain.ErrLoadFailed.Error())
		return zerr.With(wrapped, "argfile", a.path)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		_ = os.Remove(tmp)
		wrapped := zerr.Wrap(err, domain.ErrLoadFailed.Error())
		return zerr.With(wrapped, "argfile", a.path)
	}

	return nil
}
