// Package ports defines the core interfaces for the application.
package ports

// Loader defines the interface for handing a cached artifact to the host
// platform. Implementations stage the file wherever the host picks it up,
// such as a scanned libraries directory or a classpath argfile.
//
//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type Loader interface {
	// Load makes the artifact at the given absolute path visible to the host.
	Load(path string) error
}
