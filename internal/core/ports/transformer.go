package ports

import (
	"context"

	"go.trai.ch/press/internal/core/domain"
)

//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks

// Transformer runs one asset pipeline.
type Transformer interface {
	// Name is the display name used to tag log lines.
	Name() string
	// Class is the asset class the transformer handles.
	Class() domain.AssetClass
	// Transform processes every input of its class according to cfg.
	Transform(ctx context.Context, cfg *domain.BuildConfig) error
}

// Generator invokes the external static-site generator.
type Generator interface {
	Generate(ctx context.Context, cfg *domain.BuildConfig) (domain.BuildResult, error)
}

// Cleaner removes generated output.
type Cleaner interface {
	Clean(ctx context.Context, cfg *domain.BuildConfig) error
}

// InputResolver expands glob patterns relative to a root into file paths.
type InputResolver interface {
	ResolveInputs(patterns []string, root string) ([]string, error)
}
