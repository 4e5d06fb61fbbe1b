// Package resolve turns artifact coordinates into ordered download candidates.
package resolve

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Well-known repository base URLs.
const (
	// MavenCentralURL is the Maven Central repository.
	MavenCentralURL = "https://repo1.maven.org/maven2/"

	// SonatypeURL is the Sonatype OSS repository.
	SonatypeURL = "https://oss.sonatype.org/content/groups/public/"

	// JCenterURL is the Bintray JCenter repository.
	JCenterURL = "https://jcenter.bintray.com/"

	// JitPackURL is the JitPack repository.
	JitPackURL = "https://jitpack.io/"
)

// MavenLocalURL returns the current user's local Maven repository as a file URL.
func MavenLocalURL() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", zerr.Wrap(err, "cannot locate local maven repository")
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(home, ".m2", "repository"))}
	return u.String(), nil
}

// Repositories is the ordered, append-only list of repository base URLs that
// candidate resolution consults. It is safe for concurrent use.
type Repositories struct {
	mu   sync.Mutex
	urls []string
}

// NewRepositories returns an empty repository list.
func NewRepositories() *Repositories {
	return &Repositories{}
}

// Add appends a repository base URL, normalized to end with a slash so that
// appending an artifact path yields a valid candidate URL.
func (r *Repositories) Add(baseURL string) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, baseURL)
}

// All returns a copy of the base URLs in the order they were added.
func (r *Repositories) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}
