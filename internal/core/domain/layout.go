package domain

import "path/filepath"

const (
	// LibDirName is the name of the artifact cache directory below the data directory.
	LibDirName = "lib"

	// ManifestFileName is the name of the project manifest file.
	ManifestFileName = "jarl.yaml"

	// TmpSuffix is appended to a cache path while its content is being written.
	TmpSuffix = ".tmp"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// CachePath returns the artifact cache root below the given data directory.
// It joins the data directory and lib.
func CachePath(dataDir string) string {
	return filepath.Join(dataDir, LibDirName)
}

// TmpPath returns the in-flight sibling of a cache path. The temporary file
// lives in the same directory as its target so a rename between them is
// atomic.
func TmpPath(path string) string {
	return path + TmpSuffix
}
