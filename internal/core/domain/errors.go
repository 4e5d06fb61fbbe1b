package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingGroupID is returned when an artifact is built without a group ID.
	ErrMissingGroupID = zerr.New("missing group id")

	// ErrMissingArtifactID is returned when an artifact is built without an artifact ID.
	ErrMissingArtifactID = zerr.New("missing artifact id")

	// ErrMissingVersion is returned when an artifact is built without a version.
	ErrMissingVersion = zerr.New("missing version")

	// ErrInvalidChecksum is returned when a declared checksum does not decode to a SHA-256 digest.
	ErrInvalidChecksum = zerr.New("invalid checksum")

	// ErrInvalidRelocation is returned when a relocation rule has an empty pattern or replacement.
	ErrInvalidRelocation = zerr.New("invalid relocation")

	// ErrNoCandidates is returned when an artifact has no direct URLs and no repository is configured.
	ErrNoCandidates = zerr.New("no candidate urls, add a repository")

	// ErrAllCandidatesFailed is returned when every candidate URL failed to produce a verified artifact.
	ErrAllCandidatesFailed = zerr.New("all candidate urls failed")

	// ErrMalformedURL is returned when a candidate URL cannot be parsed. It is never retried.
	ErrMalformedURL = zerr.New("malformed url")

	// ErrChecksumMismatch is returned when downloaded bytes do not match the declared checksum.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrCacheCreate is returned when the cache directory tree cannot be created.
	ErrCacheCreate = zerr.New("cannot create cache directory")

	// ErrCacheCommit is returned when a downloaded artifact cannot be committed to the cache.
	ErrCacheCommit = zerr.New("cannot commit artifact to cache")

	// ErrRelocation is returned when the relocation engine fails to rewrite an artifact.
	ErrRelocation = zerr.New("relocation failed")

	// ErrEngineBootstrap is returned when the relocation engine dependencies cannot be provisioned.
	ErrEngineBootstrap = zerr.New("relocation engine bootstrap failed")

	// ErrManifestNotFound is returned when no manifest exists here or in any parent directory.
	ErrManifestNotFound = zerr.New("manifest not found")

	// ErrManifestParse is returned when the manifest cannot be decoded.
	ErrManifestParse = zerr.New("cannot parse manifest")

	// ErrUnknownRepository is returned when a manifest names a repository alias that does not exist.
	ErrUnknownRepository = zerr.New("unknown repository alias")

	// ErrInvalidLoadTarget is returned when a manifest declares conflicting load targets.
	ErrInvalidLoadTarget = zerr.New("invalid load target")

	// ErrNoLoadTarget is returned when loading is requested but the manifest declares no load target.
	ErrNoLoadTarget = zerr.New("no load target configured")

	// ErrUnknownArtifact is returned when a requested name matches no manifest library.
	ErrUnknownArtifact = zerr.New("unknown artifact")

	// ErrLoadFailed is returned when a fetched artifact cannot be handed to the platform loader.
	ErrLoadFailed = zerr.New("load failed")
)
