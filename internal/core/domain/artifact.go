package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"go.trai.ch/zerr"
)

// dotPlaceholder is the escape sequence replaced with "." in group IDs and
// relocation patterns. It lets coordinates be written so that build-time
// package shading cannot rewrite the literal.
const dotPlaceholder = "{}"

// expandDots substitutes the dot placeholder in a coordinate string.
func expandDots(s string) string {
	return strings.ReplaceAll(s, dotPlaceholder, ".")
}

// Artifact identifies a single runtime dependency by its Maven coordinates
// together with everything needed to obtain it: optional direct download
// URLs, an optional SHA-256 checksum and optional relocation rules.
//
// Artifacts are immutable once built. Construct them with NewArtifact.
type Artifact struct {
	groupID     string
	artifactID  string
	version     string
	classifier  string
	checksum    []byte
	urls        []string
	relocations []Relocation

	path          string
	relocatedPath string
}

// GroupID returns the Maven group ID (e.g., "com.google.code.gson").
func (a Artifact) GroupID() string { return a.groupID }

// ArtifactID returns the Maven artifact ID (e.g., "gson").
func (a Artifact) ArtifactID() string { return a.artifactID }

// Version returns the artifact version (e.g., "2.10.1").
func (a Artifact) Version() string { return a.version }

// Classifier returns the optional artifact classifier (e.g., "sources").
func (a Artifact) Classifier() string { return a.classifier }

// Checksum returns a copy of the expected SHA-256 digest of the artifact
// bytes, or nil when no checksum was declared.
func (a Artifact) Checksum() []byte {
	if a.checksum == nil {
		return nil
	}
	sum := make([]byte, len(a.checksum))
	copy(sum, a.checksum)
	return sum
}

// HasChecksum reports whether a checksum was declared.
func (a Artifact) HasChecksum() bool { return len(a.checksum) > 0 }

// URLs returns a copy of the direct download URLs in declaration order.
func (a Artifact) URLs() []string {
	return append([]string(nil), a.urls...)
}

// Relocations returns a copy of the relocation rules in declaration order.
func (a Artifact) Relocations() []Relocation {
	return append([]Relocation(nil), a.relocations...)
}

// HasRelocations reports whether any relocation rules were declared.
func (a Artifact) HasRelocations() bool { return len(a.relocations) > 0 }

// Path returns the repository-relative path of the artifact, always with
// forward slashes (e.g., "com/google/code/gson/gson/2.10.1/gson-2.10.1.jar").
// The same path addresses the artifact below a repository base URL and below
// the local cache root.
func (a Artifact) Path() string { return a.path }

// RelocatedPath returns the cache-relative path of the relocated variant,
// or "" when the artifact has no relocation rules. It differs from Path by a
// "-relocated" suffix before the file extension.
func (a Artifact) RelocatedPath() string { return a.relocatedPath }

// FileName returns the artifact file name (e.g., "gson-2.10.1.jar").
func (a Artifact) FileName() string {
	name := a.artifactID + "-" + a.version
	if a.classifier != "" {
		name += "-" + a.classifier
	}
	return name + ".jar"
}

// String returns the coordinate in group:artifact:version[:classifier] form.
func (a Artifact) String() string {
	s := a.groupID + ":" + a.artifactID + ":" + a.version
	if a.classifier != "" {
		s += ":" + a.classifier
	}
	return s
}

// ArtifactBuilder assembles an Artifact step by step. The zero builder is
// not usable; obtain one with NewArtifact.
type ArtifactBuilder struct {
	artifact Artifact
	err      error
}

// NewArtifact returns a builder for an Artifact.
func NewArtifact() *ArtifactBuilder {
	return &ArtifactBuilder{}
}

// Group sets the Maven group ID. "{}" is replaced with "." so the value
// survives package shading.
func (b *ArtifactBuilder) Group(groupID string) *ArtifactBuilder {
	b.artifact.groupID = expandDots(groupID)
	return b
}

// Name sets the Maven artifact ID.
func (b *ArtifactBuilder) Name(artifactID string) *ArtifactBuilder {
	b.artifact.artifactID = artifactID
	return b
}

// Version sets the artifact version.
func (b *ArtifactBuilder) Version(version string) *ArtifactBuilder {
	b.artifact.version = version
	return b
}

// Classifier sets the optional artifact classifier.
func (b *ArtifactBuilder) Classifier(classifier string) *ArtifactBuilder {
	b.artifact.classifier = classifier
	return b
}

// Checksum sets the expected SHA-256 digest from raw bytes.
func (b *ArtifactBuilder) Checksum(sum []byte) *ArtifactBuilder {
	b.artifact.checksum = append([]byte(nil), sum...)
	return b
}

// ChecksumBase64 sets the expected SHA-256 digest from its standard base64
// encoding, the form Maven repositories and release notes usually publish.
func (b *ArtifactBuilder) ChecksumBase64(encoded string) *ArtifactBuilder {
	sum, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		b.fail(zerr.With(zerr.Wrap(err, ErrInvalidChecksum.Error()), "checksum", encoded))
		return b
	}
	b.artifact.checksum = sum
	return b
}

// ChecksumHex sets the expected SHA-256 digest from its hex encoding, the
// form sha256sum prints.
func (b *ArtifactBuilder) ChecksumHex(encoded string) *ArtifactBuilder {
	sum, err := hex.DecodeString(encoded)
	if err != nil {
		b.fail(zerr.With(zerr.Wrap(err, ErrInvalidChecksum.Error()), "checksum", encoded))
		return b
	}
	b.artifact.checksum = sum
	return b
}

// URL appends a direct download URL tried before any configured repository.
func (b *ArtifactBuilder) URL(url string) *ArtifactBuilder {
	b.artifact.urls = append(b.artifact.urls, url)
	return b
}

// Relocate appends a relocation rule applied after download.
func (b *ArtifactBuilder) Relocate(r Relocation) *ArtifactBuilder {
	b.artifact.relocations = append(b.artifact.relocations, r)
	return b
}

func (b *ArtifactBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the collected fields and returns the finished Artifact.
// Group ID, artifact ID and version are required; a declared checksum must
// decode to exactly one SHA-256 digest.
func (b *ArtifactBuilder) Build() (Artifact, error) {
	if b.err != nil {
		return Artifact{}, b.err
	}

	a := b.artifact
	switch {
	case a.groupID == "":
		return Artifact{}, ErrMissingGroupID
	case a.artifactID == "":
		return Artifact{}, zerr.With(ErrMissingArtifactID, "group", a.groupID)
	case a.version == "":
		return Artifact{}, zerr.With(ErrMissingVersion, "artifact", a.groupID+":"+a.artifactID)
	}
	if a.checksum != nil && len(a.checksum) != sha256.Size {
		err := zerr.With(ErrInvalidChecksum, "artifact", a.groupID+":"+a.artifactID+":"+a.version)
		return Artifact{}, zerr.With(err, "length", len(a.checksum))
	}
	for _, r := range a.relocations {
		if err := r.validate(); err != nil {
			return Artifact{}, zerr.With(err, "artifact", a.groupID+":"+a.artifactID+":"+a.version)
		}
	}

	a.path = strings.ReplaceAll(a.groupID, ".", "/") + "/" + a.artifactID + "/" + a.version + "/" + a.FileName()
	if len(a.relocations) > 0 {
		a.relocatedPath = strings.TrimSuffix(a.path, ".jar") + "-relocated.jar"
	}
	return a, nil
}
