package ports

import "go.trai.ch/jarl/internal/core/domain"

// ConfigLoader defines the interface for loading the project manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to the nearest manifest file and returns it.
	Load(cwd string) (*domain.Manifest, error)

	// LoadFile reads the manifest at the given path.
	LoadFile(path string) (*domain.Manifest, error)
}
