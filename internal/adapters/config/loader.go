// Package config provides the manifest loader for jarl.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/jarl/internal/core/domain"
	"go.trai.ch/jarl/internal/core/ports"
	"go.trai.ch/jarl/internal/engine/resolve"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// manifestVersion is the schema version this loader understands.
const manifestVersion = "1"

// Loader implements ports.ConfigLoader using a YAML manifest file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from cwd to the nearest manifest file and returns it.
func (l *Loader) Load(cwd string) (*domain.Manifest, error) {
	path, err := l.findManifest(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path)
}

func (l *Loader) findManifest(cwd string) (string, error) {
	currentDir := cwd

	for {
		manifestPath := filepath.Join(currentDir, domain.ManifestFileName)
		if _, err := os.Stat(manifestPath); err == nil {
			return manifestPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrManifestNotFound, "cwd", cwd)
}

// LoadFile reads the manifest at the given path.
func (l *Loader) LoadFile(path string) (*domain.Manifest, error) {
	// #nosec G304 -- path is the located manifest file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrManifestNotFound, "path", path)
		}
		return nil, zerr.Wrap(err, "cannot read manifest")
	}

	var jarlfile Jarlfile
	if err := yaml.Unmarshal(data, &jarlfile); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParse.Error())
	}

	if jarlfile.Version != "" && jarlfile.Version != manifestVersion {
		l.Logger.Warn(fmt.Sprintf("manifest declares version %q, this build understands %q", jarlfile.Version, manifestVersion))
	}

	manifestDir := filepath.Dir(path)

	level, err := parseLogLevel(jarlfile.LogLevel)
	if err != nil {
		return nil, err
	}

	target, err := resolveLoadTarget(manifestDir, jarlfile.Load)
	if err != nil {
		return nil, err
	}

	repositories := make([]string, 0, len(jarlfile.Repositories))
	for _, entry := range jarlfile.Repositories {
		baseURL, repoErr := resolveRepository(entry)
		if repoErr != nil {
			return nil, repoErr
		}
		repositories = append(repositories, baseURL)
	}

	artifacts := make([]domain.Artifact, 0, len(jarlfile.Libraries))
	for i := range jarlfile.Libraries {
		artifact, buildErr := buildArtifact(&jarlfile.Libraries[i])
		if buildErr != nil {
			return nil, zerr.With(buildErr, "library_index", i)
		}
		artifacts = append(artifacts, artifact)
	}

	return &domain.Manifest{
		Dir:          manifestDir,
		DataDir:      resolveDir(manifestDir, jarlfile.DataDir),
		Repositories: repositories,
		Artifacts:    artifacts,
		Target:       target,
		Level:        level,
	}, nil
}

// resolveRepository maps a repository alias to its base URL. Entries carrying
// a URL scheme pass through unchanged.
func resolveRepository(entry string) (string, error) {
	switch entry {
	case "central":
		return resolve.MavenCentralURL, nil
	case "sonatype":
		return resolve.SonatypeURL, nil
	case "jcenter":
		return resolve.JCenterURL, nil
	case "jitpack":
		return resolve.JitPackURL, nil
	case "local":
		return resolve.MavenLocalURL()
	}

	if strings.Contains(entry, "://") {
		return entry, nil
	}

	return "", zerr.With(domain.ErrUnknownRepository, "repository", entry)
}

// resolveLoadTarget validates the load section and resolves its path against
// the manifest directory.
func resolveLoadTarget(manifestDir string, dto LoadDTO) (domain.LoadTarget, error) {
	switch {
	case dto.Dir != "" && dto.Argfile != "":
		err := zerr.With(domain.ErrInvalidLoadTarget, "dir", dto.Dir)
		return domain.LoadTarget{}, zerr.With(err, "argfile", dto.Argfile)
	case dto.Dir != "":
		return domain.LoadTarget{Kind: domain.LoadTargetDir, Path: resolveDir(manifestDir, dto.Dir)}, nil
	case dto.Argfile != "":
		return domain.LoadTarget{Kind: domain.LoadTargetArgfile, Path: resolveDir(manifestDir, dto.Argfile)}, nil
	default:
		return domain.LoadTarget{Kind: domain.LoadTargetNone}, nil
	}
}

func buildArtifact(dto *LibraryDTO) (domain.Artifact, error) {
	builder := domain.NewArtifact().
		Group(dto.Group).
		Name(dto.Name).
		Version(dto.Version).
		Classifier(dto.Classifier)

	if dto.Checksum != "" {
		setChecksum(builder, dto.Checksum)
	}

	for _, u := range dto.URLs {
		builder.URL(u)
	}

	for _, r := range dto.Relocations {
		rule := domain.NewRelocation(r.Pattern, r.Relocated)
		for _, glob := range r.Includes {
			rule = rule.Include(glob)
		}
		for _, glob := range r.Excludes {
			rule = rule.Exclude(glob)
		}
		builder.Relocate(rule)
	}

	return builder.Build()
}

// setChecksum feeds the declared checksum to the builder, accepting the hex
// form sha256sum prints and the base64 form repositories publish. A SHA-256
// digest is 64 characters in hex and 44 in base64, so the length decides.
func setChecksum(builder *domain.ArtifactBuilder, checksum string) {
	if len(checksum) == hex.EncodedLen(sha256.Size) {
		builder.ChecksumHex(checksum)
		return
	}
	builder.ChecksumBase64(checksum)
}

// parseLogLevel maps the manifest log level to its domain value. An empty
// value means info.
func parseLogLevel(s string) (domain.LogLevel, error) {
	switch s {
	case "", "info":
		return domain.LogLevelInfo, nil
	case "debug":
		return domain.LogLevelDebug, nil
	case "warn":
		return domain.LogLevelWarn, nil
	case "error":
		return domain.LogLevelError, nil
	}

	err := zerr.With(domain.ErrManifestParse, "log_level", s)
	return 0, zerr.With(err, "expected", "debug|info|warn|error")
}

// resolveDir resolves a manifest-relative path. An empty path means the
// manifest directory itself.
func resolveDir(manifestDir, configured string) string {
	if configured == "" {
		return filepath.Clean(manifestDir)
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(manifestDir, configured))
}
