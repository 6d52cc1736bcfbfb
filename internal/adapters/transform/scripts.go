package transform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
)

var _ ports.Transformer = (*Scripts)(nil)

// Scripts bundles one script per entry file with esbuild.
type Scripts struct {
	base
}

// Name implements ports.Transformer.
func (s *Scripts) Name() string { return "Scripts" }

// Class implements ports.Transformer.
func (s *Scripts) Class() domain.AssetClass { return domain.ClassScripts }

// Transform writes a minified bundle per entry to the destination and, outside
// production, an unminified bundle to the tmp directory. Each pass logs its bundle sizes.
func (s *Scripts) Transform(ctx context.Context, cfg *domain.BuildConfig) error {
	entries, err := s.inputs(cfg, cfg.Scripts, false)
	if err != nil || len(entries) == 0 {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	written, err := s.run(cfg, scriptOptions(cfg, entries, pass{
		outdir:     cfg.Scripts.Dest,
		minify:     true,
		sourcemap:  api.SourceMapLinked,
		production: true,
	}))
	if err != nil {
		return err
	}

	if cfg.IsProduction() || cfg.Scripts.Tmp == "" {
		s.stream(written)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	staged, err := s.run(cfg, scriptOptions(cfg, entries, pass{
		outdir:    cfg.Scripts.Tmp,
		sourcemap: api.SourceMapInline,
	}))
	if err != nil {
		return err
	}
	s.stream(staged)
	return nil
}

func (s *Scripts) run(cfg *domain.BuildConfig, opts api.BuildOptions) ([]string, error) {
	result := api.Build(opts)
	s.warnings(s.Name(), result.Warnings)
	if len(result.Errors) > 0 {
		return nil, buildError(s.Name(), result.Errors)
	}

	s.logger.Log(nil, stats(cfg.Root, result.OutputFiles), s.Name())
	return s.writeAll(result.OutputFiles)
}

// stats lists every emitted file with its size, source maps excluded.
func stats(root string, files []api.OutputFile) string {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.Ext(f.Path) == ".map" {
			continue
		}
		name, err := filepath.Rel(root, f.Path)
		if err != nil {
			name = f.Path
		}
		lines = append(lines, fmt.Sprintf("%s  %s", filepath.ToSlash(name), humanize.Bytes(uint64(len(f.Contents)))))
	}
	return strings.Join(lines, "\n")
}
