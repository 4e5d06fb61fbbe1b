package domain

import "go.trai.ch/zerr"

// LoadTargetKind selects how fetched artifacts are handed to the host.
type LoadTargetKind string

const (
	// LoadTargetNone means the manifest declares no load target.
	LoadTargetNone LoadTargetKind = "none"
	// LoadTargetDir stages artifacts into a directory scanned by the host.
	LoadTargetDir LoadTargetKind = "dir"
	// LoadTargetArgfile appends artifact paths to a java @argfile.
	LoadTargetArgfile LoadTargetKind = "argfile"
)

// LoadTarget describes where fetched artifacts are staged for the host.
type LoadTarget struct {
	// Kind selects the staging mechanism.
	Kind LoadTargetKind

	// Path is the absolute directory or argfile path.
	Path string
}

// Manifest is the loaded project configuration: which artifacts to provision,
// from which repositories, into which data directory, and how to hand them to
// the host.
type Manifest struct {
	// Dir is the directory containing the manifest file.
	Dir string

	// DataDir is the absolute directory below which the artifact cache lives.
	DataDir string

	// Repositories are the repository base URLs in declaration order.
	Repositories []string

	// Artifacts are the declared artifacts in declaration order.
	Artifacts []Artifact

	// Target describes where artifacts are staged after fetching.
	Target LoadTarget

	// Level is the configured log verbosity.
	Level LogLevel
}

// Select returns the manifest artifacts matching the given names, in manifest
// order. A name matches its artifact ID or its full group:artifact pair. With
// no names, all artifacts are returned. Returns ErrUnknownArtifact when a
// name matches nothing.
func (m *Manifest) Select(names []string) ([]Artifact, error) {
	if len(names) == 0 {
		return append([]Artifact(nil), m.Artifacts...), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = false
	}

	var selected []Artifact
	for _, a := range m.Artifacts {
		short := a.ArtifactID()
		full := a.GroupID() + ":" + a.ArtifactID()
		if _, ok := wanted[short]; ok {
			wanted[short] = true
			selected = append(selected, a)
			continue
		}
		if _, ok := wanted[full]; ok {
			wanted[full] = true
			selected = append(selected, a)
		}
	}

	for name, found := range wanted {
		if !found {
			return nil, zerr.With(ErrUnknownArtifact, "name", name)
		}
	}
	return selected, nil
}
