package ports

import "go.trai.ch/press/internal/core/domain"

// ConfigRequest carries the invocation inputs that shape the configuration.
type ConfigRequest struct {
	// Root is the project root. Empty means the working directory.
	Root string
	// Env overrides the environment selector variables when non-empty.
	Env string
	// Environ is the process environment in KEY=VALUE form.
	Environ []string
}

// ConfigResolver produces the immutable build configuration.
//
//go:generate mockgen -source=config_resolver.go -destination=mocks/mock_config_resolver.go -package=mocks
type ConfigResolver interface {
	// Resolve builds the configuration for req.
	Resolve(req ConfigRequest) (*domain.BuildConfig, error)
	// Preflight verifies that the external prerequisites of cfg are available.
	Preflight(cfg *domain.BuildConfig) error
}
