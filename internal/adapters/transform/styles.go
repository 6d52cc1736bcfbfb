package transform

import (
	"context"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
)

var _ ports.Transformer = (*Styles)(nil)

// Styles compiles stylesheets with esbuild.
type Styles struct {
	base
}

// Name implements ports.Transformer.
func (s *Styles) Name() string { return "Styles" }

// Class implements ports.Transformer.
func (s *Styles) Class() domain.AssetClass { return domain.ClassStyles }

// Transform writes minified stylesheets with linked source maps to the destination.
// Outside production an unminified copy is also staged in the tmp directory, and
// that copy is what browsers are told about.
func (s *Styles) Transform(ctx context.Context, cfg *domain.BuildConfig) error {
	entries, err := s.inputs(cfg, cfg.Styles, true)
	if err != nil || len(entries) == 0 {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	written, err := s.run(styleOptions(cfg, entries, pass{
		outdir:     cfg.Styles.Dest,
		minify:     true,
		sourcemap:  api.SourceMapLinked,
		production: true,
	}))
	if err != nil {
		return err
	}

	if cfg.IsProduction() || cfg.Styles.Tmp == "" {
		s.stream(written)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	staged, err := s.run(styleOptions(cfg, entries, pass{outdir: cfg.Styles.Tmp}))
	if err != nil {
		return err
	}
	s.stream(staged)
	return nil
}

func (s *Styles) run(opts api.BuildOptions) ([]string, error) {
	result := api.Build(opts)
	s.warnings(s.Name(), result.Warnings)
	if len(result.Errors) > 0 {
		return nil, buildError(s.Name(), result.Errors)
	}
	return s.writeAll(result.OutputFiles)
}
