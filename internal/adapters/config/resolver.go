// Package config resolves the build configuration from the environment, .env files and
// the optional press.yaml overlay.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.trai.ch/press/internal/core/domain"
	"go.trai.ch/press/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const defaultReloadThrottle = 300 * time.Millisecond

type options struct {
	root string
	env  string
	warn func(msg string)
}

// Option customizes Resolve.
type Option func(*options)

// WithRoot sets the project root. Relative roots are resolved against the working directory.
func WithRoot(root string) Option {
	return func(o *options) {
		o.root = root
	}
}

// WithWarnings receives the problems Resolve works around instead of failing on.
func WithWarnings(fn func(msg string)) Option {
	return func(o *options) {
		o.warn = fn
	}
}

// WithEnv forces the environment, ignoring PRESS_ENV and NODE_ENV. Unlike those
// variables, an unknown name is an error.
func WithEnv(name string) Option {
	return func(o *options) {
		o.env = name
	}
}

// Resolve builds the immutable configuration from environ and the files found in the
// project root. The process environment is never modified.
func Resolve(environ []string, opts ...Option) (*domain.BuildConfig, error) {
	o := options{root: ".", warn: func(string) {}}
	for _, opt := range opts {
		opt(&o)
	}

	root, err := filepath.Abs(o.root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "root", o.root)
	}

	vars, err := loadEnvironment(root, environ)
	if err != nil {
		return nil, err
	}

	var spec environment
	if err := env.ParseWithOptions(&spec, env.Options{Environment: vars}); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	mode, err := selectEnvironment(o, spec)
	if err != nil {
		return nil, err
	}

	var file Pressfile
	if err := readPressfile(filepath.Join(root, domain.ConfigFileName), &file); err != nil {
		return nil, err
	}

	cfg := defaults(root, mode, file)
	overlay(cfg, &file)

	if spec.Port > 0 {
		cfg.Server.Port = spec.Port
	}

	cfg.GeneratorArgs = generatorArgs(cfg, file.Generator)
	cfg.Generator.Env = []string{domain.GeneratorEnvVar + "=" + mode.String()}

	return cfg, nil
}

// selectEnvironment picks the build environment. Variables are shared with other
// tools (NODE_ENV=test is common), so values press does not know build for
// development.
func selectEnvironment(o options, spec environment) (domain.Environment, error) {
	if o.env != "" {
		return domain.ParseEnvironment(o.env)
	}

	name, selector := "PRESS_ENV", spec.Press
	if selector == "" {
		name, selector = "NODE_ENV", spec.Node
	}

	mode, err := domain.ParseEnvironment(selector)
	if err != nil {
		o.warn(fmt.Sprintf("%s=%q is not development or production, building for development", name, selector))
		return domain.Development, nil
	}
	return mode, nil
}

// loadEnvironment merges .env.local and .env into environ. Variables already present
// in environ win over file values, and .env.local wins over .env.
func loadEnvironment(root string, environ []string) (map[string]string, error) {
	vars := env.ToMap(environ)

	for _, name := range []string{domain.DotEnvLocalFile, domain.DotEnvFile} {
		path := filepath.Join(root, name)
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrDotEnvLoadFailed.Error()), "file", path)
		}
		for k, v := range values {
			if _, exists := vars[k]; !exists {
				vars[k] = v
			}
		}
	}

	return vars, nil
}

// readPressfile reads the overlay when present. A missing file leaves target untouched.
func readPressfile(path string, target *Pressfile) error {
	// #nosec G304 -- path is the fixed config file name under the project root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "file", path)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", path)
	}
	return nil
}

// defaults returns the configuration of a standard project layout. Directory overrides
// from file are applied first so the per-class defaults follow them.
func defaults(root string, mode domain.Environment, file Pressfile) *domain.BuildConfig {
	dir := func(configured, fallback string) string {
		if configured == "" {
			configured = fallback
		}
		return resolvePath(root, configured)
	}

	src := dir(file.Src, "src")
	dest := dir(file.Dest, "hugo")
	tmp := dir(file.Tmp, ".tmp")
	build := dir(file.Build, "dist")

	// Globs are matched against an fs.FS rooted at the project root, so they stay
	// relative and slash separated.
	srcRel := relGlob(root, src)

	return &domain.BuildConfig{
		Env:   mode,
		Root:  root,
		Src:   src,
		Dest:  dest,
		Tmp:   tmp,
		Build: build,
		Styles: domain.AssetPaths{
			Src: []string{
				srcRel + "/css/*.{css,scss,sass}",
				srcRel + "/scss/*.{css,scss,sass}",
			},
			Dest: filepath.Join(dest, "static", "css"),
			Tmp:  filepath.Join(tmp, "css"),
		},
		Scripts: domain.AssetPaths{
			Src:  []string{srcRel + "/js/*.{js,jsx}"},
			Dest: filepath.Join(dest, "static", "js"),
			Tmp:  filepath.Join(tmp, "js"),
		},
		Images: domain.AssetPaths{
			Src:  []string{srcRel + "/img/**/*.{png,jpg,jpeg,gif,svg,webp}"},
			Dest: filepath.Join(dest, "static", "img"),
		},
		SVG: domain.AssetPaths{
			Src:  []string{srcRel + "/img/**/*.svg"},
			Dest: filepath.Join(dest, "layouts", "partials", "svg"),
		},
		Generator: domain.GeneratorConfig{
			Binary: domain.DefaultGenerator,
		},
		Server: domain.ServerConfig{
			BaseDirs:       []string{tmp, build},
			Compress:       mode.IsProduction(),
			InjectChanges:  true,
			Notify:         true,
			Port:           domain.DefaultPort,
			ReloadThrottle: defaultReloadThrottle,
			MetricsPath:    domain.ServerPrefix + "/metrics",
		},
		Sprite: domain.SpriteConfig{
			Filename: "sprite.symbol.svg",
			Prefix:   "svg-%s",
			Example:  !mode.IsProduction(),
		},
	}
}

func overlay(cfg *domain.BuildConfig, file *Pressfile) {
	overlayAsset(cfg.Root, &cfg.Styles, file.Styles)
	overlayAsset(cfg.Root, &cfg.Scripts, file.Scripts)
	overlayAsset(cfg.Root, &cfg.Images, file.Images)
	overlayAsset(cfg.Root, &cfg.SVG, file.SVG)

	if file.Generator != nil && file.Generator.Binary != "" {
		cfg.Generator.Binary = file.Generator.Binary
	}

	if s := file.Server; s != nil {
		if len(s.BaseDirs) > 0 {
			cfg.Server.BaseDirs = make([]string, len(s.BaseDirs))
			for i, d := range s.BaseDirs {
				cfg.Server.BaseDirs[i] = resolvePath(cfg.Root, d)
			}
		}
		setBool(&cfg.Server.Compress, s.Compress)
		setBool(&cfg.Server.HTTPS, s.HTTPS)
		setBool(&cfg.Server.InjectChanges, s.InjectChanges)
		setBool(&cfg.Server.Notify, s.Notify)
		setBool(&cfg.Server.Open, s.Open)
		if s.CertFile != "" {
			cfg.Server.CertFile = resolvePath(cfg.Root, s.CertFile)
		}
		if s.KeyFile != "" {
			cfg.Server.KeyFile = resolvePath(cfg.Root, s.KeyFile)
		}
		if s.Port > 0 {
			cfg.Server.Port = s.Port
		}
		if s.ReloadThrottle != nil {
			cfg.Server.ReloadThrottle = *s.ReloadThrottle
		}
		if s.MetricsPath != "" {
			cfg.Server.MetricsPath = s.MetricsPath
		}
	}

	if sp := file.Sprite; sp != nil {
		if sp.Filename != "" {
			cfg.Sprite.Filename = sp.Filename
		}
		if sp.Prefix != "" {
			cfg.Sprite.Prefix = sp.Prefix
		}
		setBool(&cfg.Sprite.Example, sp.Example)
	}
}

func overlayAsset(root string, target *domain.AssetPaths, dto *AssetDTO) {
	if dto == nil {
		return
	}
	if len(dto.Src) > 0 {
		target.Src = dto.Src
	}
	if dto.Dest != "" {
		target.Dest = resolvePath(root, dto.Dest)
	}
	if dto.Tmp != "" {
		target.Tmp = resolvePath(root, dto.Tmp)
	}
}

// generatorArgs builds the generator argument lists. Explicit lists in the overlay
// replace the defaults one by one.
func generatorArgs(cfg *domain.BuildConfig, dto *GeneratorDTO) domain.GeneratorArgs {
	args := domain.GeneratorArgs{
		Default: []string{"-v", "--source", cfg.Dest, "--destination", cfg.Build},
		Development: []string{
			"-b", "http://localhost:" + strconv.Itoa(cfg.Server.Port),
			"--buildDrafts", "--buildFuture", "--buildExpired",
		},
		Production: []string{},
	}

	if dto == nil || dto.Args == nil {
		return args
	}
	if dto.Args.Default != nil {
		args.Default = dto.Args.Default
	}
	if dto.Args.Development != nil {
		args.Development = dto.Args.Development
	}
	if dto.Args.Production != nil {
		args.Production = dto.Args.Production
	}
	return args
}

func setBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(root, p))
}

func relGlob(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// Resolver implements ports.ConfigResolver.
type Resolver struct {
	logger ports.Logger
}

// NewResolver creates a new Resolver reporting warnings to logger, which may be nil.
func NewResolver(logger ports.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve implements ports.ConfigResolver.
func (r *Resolver) Resolve(req ports.ConfigRequest) (*domain.BuildConfig, error) {
	opts := []Option{}
	if r.logger != nil {
		opts = append(opts, WithWarnings(r.logger.Warn))
	}
	if req.Root != "" {
		opts = append(opts, WithRoot(req.Root))
	}
	if req.Env != "" {
		opts = append(opts, WithEnv(req.Env))
	}
	return Resolve(req.Environ, opts...)
}

// Preflight implements ports.ConfigResolver.
func (r *Resolver) Preflight(cfg *domain.BuildConfig) error {
	return Preflight(cfg)
}
