// Package transform implements the asset pipelines: styles, scripts, images and the SVG sprite.
package transform

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/press/internal/adapters/fs"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	mimeSVG  = "image/svg+xml"
	mimeHTML = "text/html"
)

// base carries the collaborators every transformer needs.
type base struct {
	logger   ports.Logger
	reloader ports.Reloader
	resolver ports.InputResolver
	writer   *fs.Writer
	minifier *minify.M
}

func newBase(logger ports.Logger, reloader ports.Reloader, resolver ports.InputResolver, writer *fs.Writer) base {
	m := minify.New()
	m.AddFunc(mimeSVG, svg.Minify)
	m.AddFunc(mimeHTML, html.Minify)

	return base{
		logger:   logger,
		reloader: reloader,
		resolver: resolver,
		writer:   writer,
		minifier: m,
	}
}

// All returns every transformer in the order of domain.AssetClasses.
func All(logger ports.Logger, reloader ports.Reloader, resolver ports.InputResolver, writer *fs.Writer) []ports.Transformer {
	b := newBase(logger, reloader, resolver, writer)
	return []ports.Transformer{
		&Styles{base: b},
		&Scripts{base: b},
		&Images{base: b},
		&Sprite{base: b},
	}
}

// inputs expands the source globs of paths. Files whose name starts with an
// underscore are partials and only reachable through imports.
func (b *base) inputs(cfg *domain.BuildConfig, paths domain.AssetPaths, skipPartials bool) ([]string, error) {
	files, err := b.resolver.ResolveInputs(paths.Src, cfg.Root)
	if err != nil {
		return nil, err
	}
	if !skipPartials {
		return files, nil
	}
	return slices.DeleteFunc(files, func(f string) bool {
		return strings.HasPrefix(filepath.Base(f), "_")
	}), nil
}

// writeAll writes files that changed and returns their paths.
func (b *base) writeAll(files []api.OutputFile) ([]string, error) {
	written := make([]string, 0, len(files))
	for _, f := range files {
		changed, err := b.writer.WriteIfChanged(f.Path, f.Contents)
		if err != nil {
			return written, err
		}
		if changed {
			written = append(written, f.Path)
		}
	}
	return written, nil
}

// stream reports written files to connected browsers.
func (b *base) stream(paths []string) {
	if len(paths) > 0 {
		b.reloader.Changed(paths...)
	}
}

// buildError turns esbuild diagnostics into a transform error whose message holds
// the formatted diagnostics, one per line.
func buildError(name string, msgs []api.Message) error {
	text := strings.TrimRight(strings.Join(api.FormatMessages(msgs, api.FormatMessagesOptions{
		Kind:          api.ErrorMessage,
		TerminalWidth: 100,
	}), ""), "\n")

	return zerr.With(zerr.Wrap(errors.New(text), domain.ErrTransformFailed.Error()), "transform", name)
}

// warnings logs esbuild warnings under name.
func (b *base) warnings(name string, msgs []api.Message) {
	if len(msgs) == 0 {
		return
	}
	text := strings.TrimRight(strings.Join(api.FormatMessages(msgs, api.FormatMessagesOptions{
		Kind:          api.WarningMessage,
		TerminalWidth: 100,
	}), ""), "\n")
	b.logger.Log(nil, text, name)
}

// globBase returns the static directory prefix of pattern, resolved against root.
func globBase(root, pattern string) string {
	dir, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	if filepath.IsAbs(pattern) {
		return filepath.FromSlash(dir)
	}
	return filepath.Join(root, filepath.FromSlash(dir))
}

// relToBase returns path relative to the first pattern base containing it, or its
// file name when no base does.
func relToBase(root string, patterns []string, path string) string {
	for _, p := range patterns {
		rel, err := filepath.Rel(globBase(root, p), path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return filepath.Base(path)
}
