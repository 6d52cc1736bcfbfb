package transform

import (
	"strconv"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/press/internal/core/domain"
)

// minifiedEntryNames flattens every output into the destination root and adds the
// .min infix: app.scss becomes app.min.css, main.jsx becomes main.min.js.
const minifiedEntryNames = "[name].min"

var browserEngines = []api.Engine{
	{Name: api.EngineChrome, Version: "87"},
	{Name: api.EngineEdge, Version: "88"},
	{Name: api.EngineFirefox, Version: "78"},
	{Name: api.EngineSafari, Version: "14"},
}

// pass describes one esbuild run over the entries of an asset class.
type pass struct {
	outdir     string
	minify     bool
	sourcemap  api.SourceMap
	production bool
}

func styleOptions(cfg *domain.BuildConfig, entries []string, p pass) api.BuildOptions {
	return api.BuildOptions{
		EntryPoints:       entries,
		AbsWorkingDir:     cfg.Root,
		Outdir:            p.outdir,
		EntryNames:        minifiedEntryNames,
		Bundle:            true,
		Write:             false,
		LogLevel:          api.LogLevelSilent,
		MinifyWhitespace:  p.minify,
		MinifySyntax:      p.minify,
		MinifyIdentifiers: p.minify,
		Sourcemap:         p.sourcemap,
		Engines:           browserEngines,
		Loader: map[string]api.Loader{
			".css":  api.LoaderCSS,
			".scss": api.LoaderCSS,
			".sass": api.LoaderCSS,
		},
		// url() references stay as written; images and fonts are published separately.
		External: []string{
			"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.webp",
			"*.eot", "*.woff", "*.woff2", "*.ttf",
		},
	}
}

func scriptOptions(cfg *domain.BuildConfig, entries []string, p pass) api.BuildOptions {
	env := domain.Development
	if p.production {
		env = domain.Production
	}

	return api.BuildOptions{
		EntryPoints:       entries,
		AbsWorkingDir:     cfg.Root,
		Outdir:            p.outdir,
		EntryNames:        minifiedEntryNames,
		AssetNames:        "[hash]",
		Bundle:            true,
		Write:             false,
		LogLevel:          api.LogLevelSilent,
		MinifyWhitespace:  p.minify,
		MinifySyntax:      p.minify,
		MinifyIdentifiers: p.minify,
		Sourcemap:         p.sourcemap,
		Platform:          api.PlatformBrowser,
		Format:            api.FormatIIFE,
		Target:            api.ES2017,
		Engines:           browserEngines,
		Define: map[string]string{
			"process.env.NODE_ENV": strconv.Quote(env.String()),
		},
		Loader: map[string]api.Loader{
			".js":    api.LoaderJSX,
			".jsx":   api.LoaderJSX,
			".json":  api.LoaderJSON,
			".png":   api.LoaderFile,
			".gif":   api.LoaderFile,
			".svg":   api.LoaderFile,
			".eot":   api.LoaderFile,
			".woff":  api.LoaderFile,
			".woff2": api.LoaderFile,
			".ttf":   api.LoaderFile,
		},
		External: []string{"vendor/*"},
	}
}
