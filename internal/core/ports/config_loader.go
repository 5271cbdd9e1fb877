package ports

import "go.trai.ch/offline/internal/core/domain"

// ConfigLoader defines the interface for loading the gateway configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the configuration file from cwd upwards and returns the
	// validated configuration. Defaults are used when no file exists.
	Load(cwd string) (*domain.Config, error)

	// LoadFile reads the configuration from an explicit path.
	LoadFile(path string) (*domain.Config, error)

	// DiscoverPath walks up from cwd and returns the configuration file path.
	DiscoverPath(cwd string) (string, error)
}
