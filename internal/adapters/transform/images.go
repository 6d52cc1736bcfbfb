package transform

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Transformer = (*Images)(nil)

// Images optimizes images into the destination, preserving directory structure.
type Images struct {
	base
}

// Name implements ports.Transformer.
func (i *Images) Name() string { return "Images" }

// Class implements ports.Transformer.
func (i *Images) Class() domain.AssetClass { return domain.ClassImages }

type imageResult struct {
	rel     string
	dst     string
	skipped bool
	before  int
	after   int
}

// Transform optimizes every input whose output is missing or older. SVG files are
// minified, PNG files re-encoded at best compression when that makes them smaller,
// anything else is copied. Per-file lines are logged in production.
func (i *Images) Transform(ctx context.Context, cfg *domain.BuildConfig) error {
	inputs, err := i.inputs(cfg, cfg.Images, false)
	if err != nil || len(inputs) == 0 {
		return err
	}

	results := make([]imageResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for idx, src := range inputs {
		g.Go(func() error {
			rel := relToBase(cfg.Root, cfg.Images.Src, src)
			res, err := i.process(gctx, src, filepath.Join(cfg.Images.Dest, rel))
			res.rel = rel
			results[idx] = res
			return err
		})
	}
	err = g.Wait()

	written := make([]string, 0, len(results))
	var lines []string
	var count, before, after int
	for _, r := range results {
		if r.skipped || r.dst == "" {
			continue
		}
		written = append(written, r.dst)
		count++
		before += r.before
		after += r.after
		if cfg.IsProduction() {
			lines = append(lines, savedLine(r))
		}
	}

	if count > 0 {
		lines = append(lines, summaryLine(count, before, after))
		i.logger.Log(nil, strings.Join(lines, "\n"), i.Name())
	}
	i.stream(written)

	return err
}

func (i *Images) process(ctx context.Context, src, dst string) (imageResult, error) {
	if err := ctx.Err(); err != nil {
		return imageResult{}, err
	}

	fresh, err := i.writer.UpToDate(src, dst)
	if err != nil {
		return imageResult{}, err
	}
	if fresh {
		return imageResult{dst: dst, skipped: true}, nil
	}

	data, err := os.ReadFile(src) //nolint:gosec // Path comes from the configured globs
	if err != nil {
		return imageResult{}, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", src)
	}

	optimized, err := i.optimize(src, data)
	if err != nil {
		return imageResult{}, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()),
			"transform", i.Name()), "path", src)
	}

	if err := i.writer.WriteFile(dst, optimized); err != nil {
		return imageResult{}, err
	}
	return imageResult{dst: dst, before: len(data), after: len(optimized)}, nil
}

func (i *Images) optimize(src string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".svg":
		return i.minifier.Bytes(mimeSVG, data)
	case ".png":
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
		if buf.Len() < len(data) {
			return buf.Bytes(), nil
		}
		return data, nil
	default:
		return data, nil
	}
}

func savedLine(r imageResult) string {
	name := filepath.ToSlash(r.rel)
	saved := r.before - r.after
	if saved <= 0 {
		return fmt.Sprintf("✔ %s (already optimized)", name)
	}
	return fmt.Sprintf("✔ %s (saved %s - %.1f%%)", name, humanize.Bytes(uint64(saved)), percent(saved, r.before))
}

func summaryLine(count, before, after int) string {
	noun := "images"
	if count == 1 {
		noun = "image"
	}
	saved := before - after
	if saved <= 0 {
		return fmt.Sprintf("Minified %d %s", count, noun)
	}
	return fmt.Sprintf("Minified %d %s (saved %s - %.1f%%)", count, noun,
		humanize.Bytes(uint64(saved)), percent(saved, before))
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
